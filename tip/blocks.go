package tip

import (
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/ledger"
)

// BlockCounts tallies the blocks mined during the incentive program.
type BlockCounts struct {
	ByAddress map[string]uint64
	ByID      map[string]uint64
	// Total counts every block in the input files.
	Total uint64
	// InProgram counts only blocks mined by addresses bound to a participant.
	InProgram uint64
}

func newBlockCounts() *BlockCounts {
	return &BlockCounts{
		ByAddress: make(map[string]uint64),
		ByID:      make(map[string]uint64),
	}
}

// ascribe adds blocks to address and, when the address was claimed, to its
// owner.
func (bc *BlockCounts) ascribe(l *ledger.Ledger, address string, blocks uint64) {
	bc.ByAddress[address] += blocks
	bc.Total += blocks
	if id, ok := l.Owner(address); ok {
		bc.ByID[id] += blocks
		bc.InProgram += blocks
	}
}

// loadBlocks reads every block count CSV (address, blocks, ...) in the
// blocks directory. A leading header row is tolerated.
func (p *Program) loadBlocks() error {
	entries, err := os.ReadDir(p.cfg.BlocksDir)
	if err != nil {
		return errors.Wrapf(err, "failed to list block counts in %s", p.cfg.BlocksDir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := forEachRow(filepath.Join(p.cfg.BlocksDir, name), false, 0, func(i int, row []string) error {
			address := strings.TrimSpace(column(row, 0))
			blocks, err := strconv.ParseUint(strings.TrimSpace(column(row, 1)), 10, 64)
			if err != nil {
				if i == 0 {
					return nil
				}
				return errors.Wrapf(err, "bad block count for %s", address)
			}
			p.blocks.ascribe(p.ledger, address, blocks)
			return nil
		})
		if err != nil {
			return err
		}
	}
	p.log.WithFields(logrus.Fields{
		"blocks":     p.blocks.Total,
		"in_program": p.blocks.InProgram,
	}).Info("Loaded block counts")
	return nil
}

// MiningReward returns round(blocks / inProgram * pool) computed exactly,
// with ties rounded to even.
func MiningReward(blocks, inProgram, pool uint64) uint64 {
	if inProgram == 0 {
		return 0
	}
	num := new(big.Int).Mul(new(big.Int).SetUint64(blocks), new(big.Int).SetUint64(pool))
	den := new(big.Int).SetUint64(inProgram)
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))

	twice := r.Lsh(r, 1)
	switch twice.Cmp(den) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}
	return q.Uint64()
}

// computeMiningRewards shares the pool among participants proportionally to
// the blocks they mined.
func (p *Program) computeMiningRewards() {
	ids := make([]string, 0, len(p.blocks.ByID))
	for id := range p.blocks.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pool := p.rules.TIPWits * genesis.NanowitsPerWit
	for _, id := range ids {
		blocks := p.blocks.ByID[id]
		reward := MiningReward(blocks, p.blocks.InProgram, pool)
		p.ledger.AddReward(id, ledger.Mining, reward)
		p.log.WithFields(logrus.Fields{
			"participant": id,
			"blocks":      blocks,
			"nanowits":    reward,
		}).Debug("Mining reward")
	}
}
