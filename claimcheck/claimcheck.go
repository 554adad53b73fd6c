// Package claimcheck validates node claim files, the documents with which
// testnet incentive program participants prove they own the address their
// node mined to. Every claim walks the same short-circuiting funnel:
//
//	parsed -> schema-valid -> signature-valid -> address-valid -> unclaimed -> accepted
//
// and each stage reached is recorded in the participant ledger before moving
// on, so the ledger holds the full audit trail even for rejected claims.
package claimcheck

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/ledger"
)

// UnknownID is used for claim files whose name carries no identifier.
const UnknownID = "unknown"

// ClaimFileExt is the extension of unpacked node claim files.
const ClaimFileExt = ".txt"

var (
	// ErrSignature means the signature does not verify over the identifier.
	ErrSignature = errors.New("invalid claim signature")
	// ErrAddress means the address is not derived from the public key.
	ErrAddress = errors.New("address does not match public key")
	// ErrAddressClaimed means another participant claimed the address first.
	ErrAddressClaimed = errors.New("address already claimed")
)

var fileIDPattern = regexp.MustCompile(`(WIT_.....)`)

// IDFromFileName extracts the participant identifier embedded in a claim
// file name, or returns UnknownID.
func IDFromFileName(name string) (string, bool) {
	m := fileIDPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return UnknownID, false
	}
	return m[1], true
}

// Validator runs node claims through the funnel, recording progress in a
// shared ledger.
type Validator struct {
	ledger *ledger.Ledger
	prefix string
	log    logrus.FieldLogger
}

// New returns a validator for addresses of the given network prefix.
func New(l *ledger.Ledger, prefix string, log logrus.FieldLogger) *Validator {
	return &Validator{
		ledger: l,
		prefix: prefix,
		log:    log,
	}
}

// Validate checks one claim document submitted on behalf of participant id.
// On success the claimed address is bound to the claim's own identifier,
// which from the signature stage on replaces id in the ledger.
func (v *Validator) Validate(data []byte, id string) (claim.NodeClaim, error) {
	log := v.log.WithField("participant", id)

	raw, err := claim.ParseNodeClaim(data)
	if err != nil {
		log.WithError(err).Info("Failed to parse claim")
		return claim.NodeClaim{}, err
	}
	v.ledger.RecordStage(ledger.Parsed, id)

	c, err := claim.ValidateNodeClaimSchema(raw, v.prefix)
	if err != nil {
		log.WithError(err).Info("Wrong claim schema")
		return claim.NodeClaim{}, err
	}
	v.ledger.RecordStage(ledger.Schema, id, c.Address)

	// Trust the identifier inside the claim over the one in the file name.
	id = c.Identifier
	log = v.log.WithFields(logrus.Fields{"participant": id, "address": c.Address})

	if !c.VerifySignature() {
		log.Info("Invalid claim signature")
		return c, ErrSignature
	}
	v.ledger.RecordStage(ledger.Signature, id, c.Address)

	if !c.VerifyAddress(v.prefix) {
		log.Info("Claimed address does not match public key")
		return c, ErrAddress
	}

	if owner, ok := v.ledger.Bind(c.Address, id); !ok {
		log.WithField("owner", owner).Warn("Address already claimed")
		return c, errors.Wrapf(ErrAddressClaimed, "%s is bound to %s", c.Address, owner)
	}
	v.ledger.RecordStage(ledger.Address, id, c.Address)

	log.Debug("Claim accepted")
	return c, nil
}

// ValidateFile reads and validates a claim file.
func (v *Validator) ValidateFile(path, id string) (claim.NodeClaim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return claim.NodeClaim{}, errors.Wrapf(err, "failed to read claim file %s", path)
	}
	return v.Validate(data, id)
}

// Outcome is the result of validating one file.
type Outcome struct {
	Path  string
	ID    string
	Claim claim.NodeClaim
	Err   error
}

// Accepted reports whether the claim made it through the whole funnel.
func (o Outcome) Accepted() bool {
	return o.Err == nil
}

// ValidateDir validates every claim file in dir, in name order. Files with
// an identifier in their name mark it as decompressed. An unreadable
// directory is returned as an error; failures of single claims are only
// reported in their outcome.
func (v *Validator) ValidateDir(dir string) ([]Outcome, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list claims in %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ClaimFileExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	outcomes := make([]Outcome, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		id, found := IDFromFileName(name)
		if found {
			v.ledger.RecordStage(ledger.Decompressed, id)
		} else {
			v.log.WithField("file", path).Warn("Cannot tell which participant submitted claim")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return outcomes, errors.Wrapf(err, "failed to read claim file %s", path)
		}
		c, err := v.Validate(data, id)
		outcomes = append(outcomes, Outcome{Path: path, ID: id, Claim: c, Err: err})
	}
	return outcomes, nil
}
