// Package proofs issues genesis participant proofs: signed statements that
// a participant is entitled to an amount from a given source, which they
// import into their wallet to produce a claim file.
package proofs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/utils/atomicfile"
)

// ErrOverAllocated is returned when assignments exceed the genesis allocation.
var ErrOverAllocated = errors.New("assignments exceed genesis allocation")

// FileSuffix ends the name of every proof file.
const FileSuffix = "_participant_proof.json"

// FileName returns the name of the proof file of an assignment. The source
// prefix is how the reconciliation tells proofs of one participant apart.
func FileName(source claim.Source, email, secret string) string {
	return string(source) + "_" + email + "_" + secret + FileSuffix
}

// Foundation describes who receives the part of the genesis allocation
// nobody else was assigned.
type Foundation struct {
	EmailAddress string
	Name         string
	Secret       string
}

// DefaultFoundation is the foundation entry used when none is configured.
var DefaultFoundation = Foundation{
	EmailAddress: "info@witnet.foundation",
	Name:         "Witnet Foundation",
	Secret:       "HvHGJKeOUmOdrZWoaM6LoVJsjNIY4sjq",
}

// Config lists the inputs and outputs of a proof issuance run.
type Config struct {
	// AssignmentsDir holds one or more assignment CSVs.
	AssignmentsDir string
	// OutputDir receives one proof file per assignment.
	OutputDir  string
	Foundation Foundation
}

// Issuer turns assignments into signed proofs.
type Issuer struct {
	cfg    Config
	rules  genesis.Rules
	signer Signer
	log    logrus.FieldLogger
}

// NewIssuer returns an issuer signing with signer.
func NewIssuer(cfg Config, rules genesis.Rules, signer Signer, log logrus.FieldLogger) *Issuer {
	if cfg.Foundation.EmailAddress == "" {
		cfg.Foundation = DefaultFoundation
	}
	return &Issuer{
		cfg:    cfg,
		rules:  rules,
		signer: signer,
		log:    log,
	}
}

// Proof builds and signs the proof of one assignment. Private sale
// assignments are converted from USD; any nanowit column is ignored for them.
func (is *Issuer) Proof(ctx context.Context, a claim.Assignment) (*claim.ParticipantProof, error) {
	nanowits := a.Nanowit
	usd := a.USD
	if rate := Rate(a.Source); rate != nil {
		nanowits = USDToNanowits(usd, rate)
	}
	data := claim.ProofData{
		EmailAddress: a.EmailAddress,
		Name:         a.Name,
		Source:       a.Source,
		USD:          usd,
		Wit:          nanowits,
		Vesting:      ComputeVesting(a.Source, nanowits),
		GenesisDate:  is.rules.Timestamp,
	}
	msg, err := data.SigningBytes()
	if err != nil {
		return nil, err
	}
	sig, err := is.signer.Sign(ctx, msg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign proof of %s", a.EmailAddress)
	}
	return &claim.ParticipantProof{Data: data, Signature: common.Bytes2Hex(sig)}, nil
}

// WriteProof writes a proof file into the output directory and returns its path.
func (is *Issuer) WriteProof(p *claim.ParticipantProof, secret string) (string, error) {
	out, err := claim.MarshalIndent(p, false)
	if err != nil {
		return "", err
	}
	path := filepath.Join(is.cfg.OutputDir, FileName(p.Data.Source, p.Data.EmailAddress, secret))
	err = atomicfile.Write(path, func(w io.Writer) error {
		if _, err := w.Write(out); err != nil {
			return err
		}
		_, err := w.Write([]byte("\n"))
		return err
	})
	return path, err
}

// LoadAssignments reads every CSV in the assignments directory, in name order.
func (is *Issuer) LoadAssignments() ([]claim.Assignment, error) {
	entries, err := os.ReadDir(is.cfg.AssignmentsDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list assignments in %s", is.cfg.AssignmentsDir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []claim.Assignment
	for _, name := range names {
		path := filepath.Join(is.cfg.AssignmentsDir, name)
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", path)
		}
		assignments, err := claim.ReadAssignments(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		is.log.WithFields(logrus.Fields{"file": path, "assignments": len(assignments)}).Info("Read assignments")
		all = append(all, assignments...)
	}
	return all, nil
}

// Run issues a proof for every assignment, then one for the foundation with
// whatever is left of the genesis allocation.
func (is *Issuer) Run(ctx context.Context) (*Stats, error) {
	assignments, err := is.LoadAssignments()
	if err != nil {
		return nil, err
	}

	stats := NewStats()
	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !a.Source.Known() {
			is.log.WithFields(logrus.Fields{"email": a.EmailAddress, "source": a.Source}).Warn("Assignment from unknown source")
		}
		p, err := is.Proof(ctx, a)
		if err != nil {
			return nil, err
		}
		path, err := is.WriteProof(p, a.Secret)
		if err != nil {
			return nil, err
		}
		is.log.WithField("file", path).Debug("Issued proof")
		stats.add(p.Data.Source, p.Data.Wit)
	}

	total := is.rules.TotalNanowits()
	assigned := stats.Total.Wits
	if assigned > total {
		return nil, errors.Wrapf(ErrOverAllocated, "%d nanowits assigned out of %d", assigned, total)
	}
	stats.seal()

	f := is.cfg.Foundation
	p, err := is.Proof(ctx, claim.Assignment{
		EmailAddress: f.EmailAddress,
		Name:         f.Name,
		Nanowit:      total - assigned,
		Source:       claim.SourceFoundation,
		Secret:       f.Secret,
	})
	if err != nil {
		return nil, err
	}
	if _, err := is.WriteProof(p, f.Secret); err != nil {
		return nil, err
	}
	stats.add(claim.SourceFoundation, p.Data.Wit)
	stats.computePercentages(is.rules.SupplyNanowits())

	is.log.WithFields(logrus.Fields{
		"proofs":   stats.Total.Identities,
		"nanowits": stats.Total.Wits,
	}).Info("Issued participant proofs")
	return stats, nil
}
