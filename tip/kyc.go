package tip

import (
	"strings"

	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/ledger"
)

// KYC whitelist columns.
const (
	kycFirstName = iota
	kycLastName
	kycEmail
	kycNationality
	kycWalletAddress
	kycEmailMatch
	kycCorrectEmail
	kycWitID
)

// kycID builds the participant identifier of a whitelist row. Old rows
// only carry the identifier suffix in the wallet address column.
func kycID(row []string) string {
	suffix := strings.TrimSpace(column(row, kycWitID))
	if suffix == "" {
		suffix = strings.TrimSpace(column(row, kycWalletAddress))
	}
	return "WIT_" + strings.TrimPrefix(suffix, "WIT_")
}

func fullName(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}

// loadKYC reads the KYC whitelist and records who passed, together with
// their name and, unless already known, their email.
func (p *Program) loadKYC() error {
	n, err := forEachRow(p.cfg.KYCCSV, true, 0, func(_ int, row []string) error {
		id := kycID(row)
		email := strings.TrimSpace(column(row, kycEmail))
		if !claim.IsIdentifier(id) {
			p.log.WithField("participant", id).Warn("Whitelisted identifier looks malformed")
		}

		p.ledger.RecordStage(ledger.KYC, id)
		p.ledger.RecordEmail(ledger.KYC, email)

		if email == "" {
			email = strings.TrimSpace(column(row, kycCorrectEmail))
		}
		p.ledger.SetDefaultEmail(id, email)
		p.ledger.SetName(id, fullName(strings.TrimSpace(column(row, kycFirstName)), strings.TrimSpace(column(row, kycLastName))))

		p.log.WithField("participant", id).Debug("Passed KYC")
		return nil
	})
	p.log.WithField("participants", n).Info("Loaded KYC whitelist")
	return err
}
