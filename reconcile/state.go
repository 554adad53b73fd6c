package reconcile

import (
	"sort"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
)

// Class is the outcome of processing one claim.
type Class int

const (
	// Good claims were validated and their transfers accepted.
	Good Class = iota
	// Bad claims failed validation.
	Bad
	// Multiple claims target a proof that was already consumed.
	Multiple
	// Unexpected claims come from someone without a proof for that source.
	Unexpected
	// Malformed claim files could not be read; they are skipped.
	Malformed
)

func (c Class) String() string {
	switch c {
	case Good:
		return "good"
	case Bad:
		return "bad"
	case Multiple:
		return "multiple"
	case Unexpected:
		return "unexpected"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// Reason tells why a claim is bad.
type Reason string

const (
	ReasonInvalid         Reason = "invalid"
	ReasonTimeout         Reason = "timeout"
	ReasonMalformedOutput Reason = "malformed_output"
	ReasonDisclaimer      Reason = "disclaimer"
	ReasonUnreadableProof Reason = "unreadable_proof"
	ReasonAddress         Reason = "address"
)

type emailSet map[string]struct{}

func (s emailSet) sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// State is the reconciliation state of one run. It is owned by the engine
// and not safe for concurrent use.
type State struct {
	// pending maps email -> source -> proof file awaiting a claim.
	pending map[string]map[claim.Source]string
	// issued remembers every (email, source) a proof was loaded for.
	issued map[string]map[claim.Source]struct{}

	good       emailSet
	bad        map[string]Reason
	multiple   emailSet
	unexpected emailSet
	malformed  []string

	// buckets maps timelock -> transfers unlocking then.
	buckets map[uint64][]genesis.Transfer

	emitted  uint64
	entitled uint64
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		pending:    make(map[string]map[claim.Source]string),
		issued:     make(map[string]map[claim.Source]struct{}),
		good:       make(emailSet),
		bad:        make(map[string]Reason),
		multiple:   make(emailSet),
		unexpected: make(emailSet),
		buckets:    make(map[uint64][]genesis.Transfer),
	}
}

// Expect registers a proof. The first proof of an (email, source) pair wins;
// it reports whether this one was registered.
func (s *State) Expect(email string, source claim.Source, path string, nanowits uint64) bool {
	if _, ok := s.issued[email][source]; ok {
		return false
	}
	if s.issued[email] == nil {
		s.issued[email] = make(map[claim.Source]struct{})
		s.pending[email] = make(map[claim.Source]string)
	}
	s.issued[email][source] = struct{}{}
	s.pending[email][source] = path
	s.entitled += nanowits
	return true
}

// Expected reports whether any proof was issued to email.
func (s *State) Expected(email string) bool {
	_, ok := s.issued[email]
	return ok
}

// Issued reports whether a proof was issued to email for source.
func (s *State) Issued(email string, source claim.Source) bool {
	_, ok := s.issued[email][source]
	return ok
}

// Pop removes and returns the pending proof of (email, source). Emails with
// no proof left are dropped from the pending map.
func (s *State) Pop(email string, source claim.Source) (string, bool) {
	proofs, ok := s.pending[email]
	if !ok {
		return "", false
	}
	path, ok := proofs[source]
	if !ok {
		return "", false
	}
	delete(proofs, source)
	if len(proofs) == 0 {
		delete(s.pending, email)
	}
	return path, true
}

// MarkGood records a validated claim, retracting an earlier bad outcome,
// and folds its transfers into the timelock buckets.
func (s *State) MarkGood(email string, transfers []genesis.Transfer) {
	s.good[email] = struct{}{}
	delete(s.bad, email)
	for _, t := range transfers {
		s.buckets[t.Timelock] = append(s.buckets[t.Timelock], t)
		s.emitted += t.Value
	}
}

// MarkBad records a failed claim unless the email already has a good one.
func (s *State) MarkBad(email string, reason Reason) {
	if _, ok := s.good[email]; ok {
		return
	}
	s.bad[email] = reason
}

// MarkMultiple records a claim for an already consumed proof.
func (s *State) MarkMultiple(email string) {
	s.multiple[email] = struct{}{}
}

// MarkUnexpected records a claim nobody expected.
func (s *State) MarkUnexpected(email string) {
	s.unexpected[email] = struct{}{}
}

// MarkMalformed records an unreadable claim file.
func (s *State) MarkMalformed(path string) {
	s.malformed = append(s.malformed, path)
}

// Transfers returns every accepted transfer, by ascending timelock.
func (s *State) Transfers() []genesis.Transfer {
	timelocks := make([]uint64, 0, len(s.buckets))
	for tl := range s.buckets {
		timelocks = append(timelocks, tl)
	}
	sort.Slice(timelocks, func(i, j int) bool {
		return timelocks[i] < timelocks[j]
	})
	var out []genesis.Transfer
	for _, tl := range timelocks {
		out = append(out, s.buckets[tl]...)
	}
	return out
}

// Buckets returns the number of distinct timelocks.
func (s *State) Buckets() int {
	return len(s.buckets)
}

// Emitted is the total value of accepted transfers.
func (s *State) Emitted() uint64 {
	return s.emitted
}

// Entitled is the total value of all registered proofs.
func (s *State) Entitled() uint64 {
	return s.entitled
}

// NotSubmitted lists the emails that still have pending proofs.
func (s *State) NotSubmitted() []string {
	out := make([]string, 0, len(s.pending))
	for e := range s.pending {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
