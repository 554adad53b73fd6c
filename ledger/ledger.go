package ledger

import (
	"sort"
)

type set map[string]struct{}

func (s set) add(v string) {
	s[v] = struct{}{}
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// minus returns the sorted elements of s that are not in other.
func (s set) minus(other set) []string {
	out := []string{}
	for v := range s {
		if !other.has(v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Entry aggregates everything known about one participant.
type Entry struct {
	ID    string
	Email string
	Name  string

	addresses set
	rewards   [rewardSourceCount]uint64
	// Withheld is the amount directly assigned to the participant that was
	// not granted because they did not pass KYC.
	Withheld uint64
}

// Addresses returns the addresses bound to the participant, sorted.
func (e *Entry) Addresses() []string {
	return e.addresses.sorted()
}

// Reward returns the accumulated reward from one source.
func (e *Entry) Reward(source RewardSource) uint64 {
	return e.rewards[source]
}

// Total returns the sum of the rewards from every source.
func (e *Entry) Total() uint64 {
	var total uint64
	for _, r := range e.rewards {
		total += r
	}
	return total
}

// Totals sums rewards across all participants.
type Totals struct {
	BySource [rewardSourceCount]uint64
	Withheld uint64
}

// Total returns the granted rewards from every source.
func (t Totals) Total() uint64 {
	var total uint64
	for _, r := range t.BySource {
		total += r
	}
	return total
}

// Ledger is the mutable participant ledger shared, in sequence, by every
// stage of the node claim pipeline. It never forgets: stage memberships,
// address bindings and rewards only accumulate.
// It is not safe for concurrent use.
type Ledger struct {
	entries map[string]*Entry

	ids       [stageCount]set
	addresses [stageCount]set
	emails    [stageCount]set

	// owners maps every accepted address to the participant that claimed it first.
	owners map[string]string

	totals Totals
}

// New returns an empty ledger.
func New() *Ledger {
	l := &Ledger{
		entries: make(map[string]*Entry),
		owners:  make(map[string]string),
	}
	for i := range l.ids {
		l.ids[i] = make(set)
		l.addresses[i] = make(set)
		l.emails[i] = make(set)
	}
	return l
}

func (l *Ledger) entry(id string) *Entry {
	e, ok := l.entries[id]
	if !ok {
		e = &Entry{ID: id, addresses: make(set)}
		l.entries[id] = e
	}
	return e
}

// Entry returns the entry of a participant, or nil if nothing was ever
// recorded about them.
func (l *Ledger) Entry(id string) *Entry {
	return l.entries[id]
}

// Entries returns all participant entries sorted by identifier.
func (l *Ledger) Entries() []*Entry {
	out := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// RecordStage marks participant id, and the given addresses when the stage
// tracks them, as having reached stage. Repeated calls are absorbed.
func (l *Ledger) RecordStage(stage Stage, id string, addrs ...string) {
	if !stage.Valid() {
		panic("ledger: invalid stage")
	}
	l.ids[stage].add(id)
	if stage.TracksAddresses() {
		for _, a := range addrs {
			l.addresses[stage].add(a)
		}
	}
}

// RecordEmail marks email as having reached stage. It is a no-op for
// stages that do not track emails and for empty emails.
func (l *Ledger) RecordEmail(stage Stage, email string) {
	if email == "" || !stage.TracksEmails() {
		return
	}
	l.emails[stage].add(email)
}

// Reached reports whether participant id reached stage.
func (l *Ledger) Reached(stage Stage, id string) bool {
	return stage.Valid() && l.ids[stage].has(id)
}

// ReachedAddress reports whether address reached stage.
func (l *Ledger) ReachedAddress(stage Stage, address string) bool {
	return stage.Valid() && l.addresses[stage].has(address)
}

// IDs returns the sorted participants that reached stage.
func (l *Ledger) IDs(stage Stage) []string {
	return l.ids[stage].sorted()
}

// Bind associates address with participant id unless a different participant
// already holds it. It returns the owner after the call and whether id is it.
// Binding the same pair again is a no-op that succeeds.
func (l *Ledger) Bind(address, id string) (owner string, ok bool) {
	if owner, exists := l.owners[address]; exists && owner != id {
		return owner, false
	}
	l.owners[address] = id
	l.entry(id).addresses.add(address)
	return id, true
}

// Owner returns the participant an address is bound to.
func (l *Ledger) Owner(address string) (string, bool) {
	owner, ok := l.owners[address]
	return owner, ok
}

// Bindings returns a copy of the address to participant mapping.
func (l *Ledger) Bindings() map[string]string {
	out := make(map[string]string, len(l.owners))
	for a, id := range l.owners {
		out[a] = id
	}
	return out
}

// SetEmail sets the email of a participant, replacing any previous one.
// Empty emails are ignored.
func (l *Ledger) SetEmail(id, email string) {
	if email == "" {
		return
	}
	l.entry(id).Email = email
}

// SetDefaultEmail sets the email of a participant only if none is known yet.
func (l *Ledger) SetDefaultEmail(id, email string) {
	if e := l.entry(id); e.Email == "" {
		e.Email = email
	}
}

// SetName sets the display name of a participant.
func (l *Ledger) SetName(id, name string) {
	l.entry(id).Name = name
}

// AddReward grants amount (in nanowits) to participant id from source.
func (l *Ledger) AddReward(id string, source RewardSource, amount uint64) {
	if source < 0 || source >= rewardSourceCount {
		panic("ledger: invalid reward source")
	}
	l.entry(id).rewards[source] += amount
	l.totals.BySource[source] += amount
}

// Withhold records an amount that id would have received if eligible.
func (l *Ledger) Withhold(id string, amount uint64) {
	l.entry(id).Withheld += amount
	l.totals.Withheld += amount
}

// Totals returns the rewards granted and withheld across all participants.
func (l *Ledger) Totals() Totals {
	return l.totals
}
