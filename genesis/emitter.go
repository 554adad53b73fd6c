package genesis

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"lukechampine.com/frand"

	"github.com/rony4d/witgen/utils/atomicfile"
)

// ErrConservation means the emitted block does not carry exactly the value
// the reconciliation accepted.
var ErrConservation = errors.New("genesis value does not match accepted total")

// Transfer is one output of the genesis block: Value nanowits to Address,
// spendable from Timelock (unix seconds, 0 when unlocked). Numbers are
// quoted in JSON, the way nodes read the block.
type Transfer struct {
	Address  string `json:"address"`
	Value    uint64 `json:"value,string"`
	Timelock uint64 `json:"timelock,string"`
}

// Block is the genesis block document. Every inner list groups the
// transfers sharing one timelock, in ascending timelock order.
type Block struct {
	Alloc [][]Transfer `json:"alloc"`
}

// Total sums the value of every transfer.
func (b *Block) Total() uint64 {
	var total uint64
	for _, group := range b.Alloc {
		for _, t := range group {
			total += t.Value
		}
	}
	return total
}

// Emitter builds genesis blocks. Transfers unlocking at the same time are
// interchangeable, so each group is shuffled to hide the order in which
// claims were submitted and processed.
type Emitter struct {
	rng *rand.Rand
}

// NewEmitter returns an emitter shuffling with a generator seeded with seed,
// so that runs can be reproduced.
func NewEmitter(seed int64) *Emitter {
	return &Emitter{rng: rand.New(rand.NewSource(seed))}
}

// NewRandomEmitter returns an emitter seeded from a cryptographic source.
func NewRandomEmitter() *Emitter {
	var seed [8]byte
	frand.Read(seed[:])
	return NewEmitter(int64(binary.LittleEndian.Uint64(seed[:])))
}

// Partition groups transfers by timelock, groups ordered by ascending
// timelock and transfers within a group kept in input order.
func Partition(transfers []Transfer) [][]Transfer {
	byTimelock := make(map[uint64][]Transfer)
	for _, t := range transfers {
		byTimelock[t.Timelock] = append(byTimelock[t.Timelock], t)
	}
	timelocks := make([]uint64, 0, len(byTimelock))
	for tl := range byTimelock {
		timelocks = append(timelocks, tl)
	}
	sort.Slice(timelocks, func(i, j int) bool {
		return timelocks[i] < timelocks[j]
	})

	groups := make([][]Transfer, len(timelocks))
	for i, tl := range timelocks {
		groups[i] = byTimelock[tl]
	}
	return groups
}

// Build partitions transfers by timelock and shuffles every group. The
// input slice is not modified.
func (em *Emitter) Build(transfers []Transfer) *Block {
	groups := Partition(transfers)
	for _, group := range groups {
		em.rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
	}
	return &Block{Alloc: groups}
}

// Emit builds the block and checks it carries exactly expected nanowits.
func (em *Emitter) Emit(transfers []Transfer, expected uint64) (*Block, error) {
	block := em.Build(transfers)
	if total := block.Total(); total != expected {
		return nil, errors.Wrapf(ErrConservation, "block carries %d nanowits, accepted %d", total, expected)
	}
	return block, nil
}

// Encode writes the block as indented JSON.
func (b *Block) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(b)
}

// WriteFile writes the block to path, replacing it only once fully written.
func (b *Block) WriteFile(path string) error {
	return atomicfile.Write(path, b.Encode)
}

// ReadBlock decodes a genesis block document.
func ReadBlock(r io.Reader) (*Block, error) {
	var b Block
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrap(err, "failed to decode genesis block")
	}
	return &b, nil
}
