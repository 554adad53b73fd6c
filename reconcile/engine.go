// Package reconcile matches the claim files returned by participants with
// the participant proofs they were issued, cross-validates every pair and
// collects the outputs that go into the genesis block.
package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/inter/claimpk"
)

// DefaultTimeout bounds a single cross-validation.
const DefaultTimeout = 30 * time.Second

// Config lists the inputs of a reconciliation run.
type Config struct {
	// ProofsDir holds the issued `<source>_..._participant_proof.json` files.
	ProofsDir string
	// ClaimsDir holds the returned `*.json` claim files.
	ClaimsDir string
	Timeout   time.Duration
	// Prefix every genesis address must carry; empty accepts any.
	Prefix string
	// TotalNanowits is the genesis allocation, used to report what stays
	// unclaimed. Zero means the entitled total.
	TotalNanowits uint64
}

// Engine runs one reconciliation.
type Engine struct {
	cfg       Config
	validator CrossValidator
	state     *State
	log       logrus.FieldLogger

	malformedProofs []string
	claims          int
}

// NewEngine returns an engine checking claims with validator.
func NewEngine(cfg Config, validator CrossValidator, log logrus.FieldLogger) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Engine{
		cfg:       cfg,
		validator: validator,
		state:     NewState(),
		log:       log,
	}
}

// State exposes the reconciliation state.
func (e *Engine) State() *State {
	return e.state
}

func listJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// LoadProofs registers every proof in the proofs directory. The source is
// taken from the file name, the email from the document. Unreadable proofs
// are skipped and reported.
func (e *Engine) LoadProofs() error {
	paths, err := listJSON(e.cfg.ProofsDir)
	if err != nil {
		return errors.Wrapf(err, "failed to list proofs in %s", e.cfg.ProofsDir)
	}
	for _, path := range paths {
		p, err := readProof(path)
		if err != nil {
			e.log.WithError(err).WithField("file", path).Warn("Skipping malformed proof")
			e.malformedProofs = append(e.malformedProofs, path)
			continue
		}
		source := claim.SourceFromFileName(path)
		if !e.state.Expect(p.Data.EmailAddress, source, path, p.Data.Wit) {
			e.log.WithFields(logrus.Fields{"file": path, "email": p.Data.EmailAddress, "source": source}).Warn("Duplicate proof ignored")
		}
	}
	e.log.WithField("proofs", len(paths)-len(e.malformedProofs)).Info("Loaded participant proofs")
	return nil
}

func readProof(path string) (*claim.ParticipantProof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return claim.ParseParticipantProof(data)
}

// ProcessClaim classifies one claim file. Only the cancellation of ctx is
// returned as an error; everything else ends up in the state.
func (e *Engine) ProcessClaim(ctx context.Context, path string) (Class, Reason, error) {
	log := e.log.WithField("file", path)
	data, err := os.ReadFile(path)
	if err == nil {
		var c *claim.ClaimFile
		if c, err = claim.ParseClaimFile(data); err == nil {
			e.claims++
			return e.process(ctx, path, c, log.WithFields(logrus.Fields{"email": c.EmailAddress, "source": c.Source}))
		}
	}
	log.WithError(err).Warn("Skipping malformed claim")
	e.state.MarkMalformed(path)
	return Malformed, "", nil
}

func (e *Engine) process(ctx context.Context, path string, c *claim.ClaimFile, log logrus.FieldLogger) (Class, Reason, error) {
	s := e.state
	email := c.EmailAddress
	if !s.Expected(email) || !s.Issued(email, c.Source) {
		log.Warn("Unexpected claim")
		s.MarkUnexpected(email)
		return Unexpected, "", nil
	}
	proofPath, ok := s.Pop(email, c.Source)
	if !ok {
		log.Warn("Proof already claimed")
		s.MarkMultiple(email)
		return Multiple, "", nil
	}

	bad := func(reason Reason, err error) (Class, Reason, error) {
		log.WithError(err).WithField("reason", reason).Warn("Bad claim")
		s.MarkBad(email, reason)
		return Bad, reason, nil
	}

	proof, err := readProof(proofPath)
	if err != nil {
		return bad(ReasonUnreadableProof, err)
	}
	if _, err := claim.VerifyDisclaimers(c); err != nil {
		return bad(ReasonDisclaimer, err)
	}

	vctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	validated, err := e.validator.CrossValidate(vctx, Input{
		ProofPath: proofPath,
		ClaimPath: path,
		Proof:     proof,
		Claim:     c,
	})
	cancel()
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return Bad, "", ctx.Err()
		case errors.Cause(err) == context.DeadlineExceeded:
			return bad(ReasonTimeout, err)
		case errors.Cause(err) == ErrMalformedOutput:
			return bad(ReasonMalformedOutput, err)
		default:
			return bad(ReasonInvalid, err)
		}
	}

	transfers, err := e.transfers(validated)
	if err != nil {
		return bad(ReasonAddress, err)
	}
	s.MarkGood(email, transfers)
	log.WithField("outputs", len(transfers)).Debug("Good claim")
	return Good, "", nil
}

// transfers turns validated addresses into genesis outputs, checking each
// address decodes under the configured prefix.
func (e *Engine) transfers(c *claim.ClaimFile) ([]genesis.Transfer, error) {
	out := make([]genesis.Transfer, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		hrp, _, err := claimpk.DecodeAddress(a.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "address %q", a.Address)
		}
		if e.cfg.Prefix != "" && hrp != e.cfg.Prefix {
			return nil, errors.Errorf("address %q is not a %s address", a.Address, e.cfg.Prefix)
		}
		out = append(out, genesis.Transfer{
			Address:  a.Address,
			Value:    uint64(a.Amount),
			Timelock: uint64(a.Timelock),
		})
	}
	return out, nil
}

// ProcessClaims classifies every claim in the claims directory, in name order.
func (e *Engine) ProcessClaims(ctx context.Context) error {
	paths, err := listJSON(e.cfg.ClaimsDir)
	if err != nil {
		return errors.Wrapf(err, "failed to list claims in %s", e.cfg.ClaimsDir)
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, _, err := e.ProcessClaim(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// Run loads the proofs, processes the claims and reports.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if err := e.LoadProofs(); err != nil {
		return nil, err
	}
	if err := e.ProcessClaims(ctx); err != nil {
		return nil, err
	}
	r := e.Report()
	if len(r.NotSubmitted) > 0 {
		e.log.WithField("emails", r.NotSubmitted).Warn("Claims not submitted")
	}
	e.log.WithFields(r.Fields()).Info("Reconciled claims")
	return r, nil
}

// Report snapshots the outcome so far.
func (e *Engine) Report() *Report {
	s := e.state
	bad := make(map[string]Reason, len(s.bad))
	for email, reason := range s.bad {
		bad[email] = reason
	}
	total := e.cfg.TotalNanowits
	if total == 0 {
		total = s.entitled
	}
	var unclaimed uint64
	if total > s.emitted {
		unclaimed = total - s.emitted
	}
	return &Report{
		Claims:          e.claims,
		Good:            s.good.sorted(),
		Bad:             bad,
		Multiple:        s.multiple.sorted(),
		Unexpected:      s.unexpected.sorted(),
		NotSubmitted:    s.NotSubmitted(),
		Malformed:       append([]string(nil), s.malformed...),
		MalformedProofs: append([]string(nil), e.malformedProofs...),
		Buckets:         s.Buckets(),
		TotalEmitted:    s.emitted,
		TotalEntitled:   s.entitled,
		Unclaimed:       unclaimed,
	}
}

// Transfers returns the accepted outputs, by ascending timelock.
func (e *Engine) Transfers() []genesis.Transfer {
	return e.state.Transfers()
}
