package tip

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/ledger"
)

// Direct assignment columns. The ones in between are notes of whoever
// curated the sheet.
const (
	directEmail   = 0
	directWitID   = 1
	directReward  = 9
	directColumns = 10
)

// loadDirectAssignments reads the hand-curated rewards sheet. Rewards are in
// whole wits and only granted to participants who passed KYC; the rest is
// withheld. The sign-up email listed here replaces any other.
func (p *Program) loadDirectAssignments() error {
	_, err := forEachRow(p.cfg.DirectCSV, false, 0, func(_ int, row []string) error {
		if len(row) < directColumns {
			return errors.Errorf("direct assignment has %d columns, want %d", len(row), directColumns)
		}
		email := strings.ToLower(strings.TrimSpace(row[directEmail]))
		id := strings.TrimSpace(row[directWitID])
		log := p.log.WithField("participant", id)

		if raw := strings.TrimSpace(row[directReward]); raw != "" {
			wits, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "bad reward for %s", id)
			}
			reward := wits * genesis.NanowitsPerWit
			if p.ledger.Reached(ledger.KYC, id) {
				p.ledger.AddReward(id, ledger.Direct, reward)
				log.WithField("nanowits", reward).Debug("Direct reward")
			} else {
				p.ledger.Withhold(id, reward)
				log.WithFields(logrus.Fields{"nanowits": reward}).Warn("Direct reward withheld for missing KYC")
			}
		}
		p.ledger.SetEmail(id, email)
		return nil
	})
	return err
}
