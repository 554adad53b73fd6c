// Package tip computes the token assignments of the Testnet Incentives
// Program. It validates the node claims participants sent, ascribes the
// blocks mined by each claimed address to its owner, shares the program's
// pool proportionally, adds hand-curated direct rewards for participants
// who passed KYC, and writes the resulting assignments CSV that the proof
// issuance step consumes.
package tip

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/witgen/claimcheck"
	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/ledger"
	"github.com/rony4d/witgen/utils/atomicfile"
)

// Config lists the inputs and outputs of a program run.
type Config struct {
	// NodesCSV is the sign-up list: email, wit_id, claim_file_url, ...
	// Optional; without it the funnel starts at the claim files on disk.
	NodesCSV string
	// Limit caps how many sign-up rows are read (0 for all).
	Limit int
	// DirectCSV holds hand-curated rewards in wits. Optional.
	DirectCSV string
	// KYCCSV is the whitelist of participants who passed KYC.
	KYCCSV string
	// ClaimsDir holds the unpacked node claim files (*.txt).
	ClaimsDir string
	// BlocksDir holds block count CSVs (address, blocks).
	BlocksDir string
	// Output is where the assignments CSV is written.
	Output string
}

// Program is one run of the incentive program computation.
type Program struct {
	cfg        Config
	rules      genesis.Rules
	ledger     *ledger.Ledger
	blocks     *BlockCounts
	downloader Downloader
	log        logrus.FieldLogger

	// secret makes assignment secrets replaceable in tests.
	secret func() string
}

// New prepares a program run. Claim files are looked up locally; use
// SetDownloader to fetch them from elsewhere.
func New(cfg Config, rules genesis.Rules, log logrus.FieldLogger) *Program {
	return &Program{
		cfg:        cfg,
		rules:      rules,
		ledger:     ledger.New(),
		blocks:     newBlockCounts(),
		downloader: LocalFiles{},
		log:        log,
		secret:     claim.NewSecret,
	}
}

// SetDownloader replaces the claim file downloader.
func (p *Program) SetDownloader(d Downloader) {
	p.downloader = d
}

// Ledger exposes the participant ledger for reporting.
func (p *Program) Ledger() *ledger.Ledger {
	return p.ledger
}

// Blocks exposes the block counts loaded by Run.
func (p *Program) Blocks() *BlockCounts {
	return p.blocks
}

// Report summarises a run.
type Report struct {
	Attrition ledger.Attrition
	Totals    ledger.Totals
	Blocks    BlockCounts
	// Assignments lists every participant that will receive a proof.
	Assignments []claim.Assignment
	// Unreachable lists participants with rewards but no known email.
	Unreachable []string
}

// Run executes the whole computation and writes the assignments CSV.
func (p *Program) Run() (*Report, error) {
	if p.cfg.NodesCSV != "" {
		if err := p.loadNodes(); err != nil {
			return nil, err
		}
	}

	validator := claimcheck.New(p.ledger, p.rules.Prefix, p.log)
	outcomes, err := validator.ValidateDir(p.cfg.ClaimsDir)
	if err != nil {
		return nil, err
	}
	accepted := 0
	for _, o := range outcomes {
		if o.Accepted() {
			accepted++
		}
	}
	p.log.WithFields(logrus.Fields{"files": len(outcomes), "accepted": accepted}).Info("Validated node claims")

	if err := p.loadKYC(); err != nil {
		return nil, err
	}
	attrition := p.ledger.ComputeAttrition()

	if err := p.loadBlocks(); err != nil {
		return nil, err
	}
	if p.cfg.DirectCSV != "" {
		if err := p.loadDirectAssignments(); err != nil {
			return nil, err
		}
	}
	p.computeMiningRewards()

	assignments, unreachable := p.Assignments()
	if p.cfg.Output != "" {
		err := atomicfile.Write(p.cfg.Output, func(w io.Writer) error {
			return claim.WriteAssignments(w, assignments)
		})
		if err != nil {
			return nil, err
		}
	}

	return &Report{
		Attrition:   attrition,
		Totals:      p.ledger.Totals(),
		Blocks:      *p.blocks,
		Assignments: assignments,
		Unreachable: unreachable,
	}, nil
}

// Assignments turns every rewarded participant into an assignment with a
// fresh secret, sorted by participant. Participants whose email is unknown
// cannot receive a proof and are returned separately.
func (p *Program) Assignments() ([]claim.Assignment, []string) {
	var (
		out         []claim.Assignment
		unreachable []string
	)
	for _, e := range p.ledger.Entries() {
		total := e.Total()
		if total == 0 {
			continue
		}
		if e.Email == "" {
			p.log.WithFields(logrus.Fields{"participant": e.ID, "nanowits": total}).Warn("Cannot find email of rewarded participant")
			unreachable = append(unreachable, e.ID)
			continue
		}
		out = append(out, claim.Assignment{
			EmailAddress: e.Email,
			Name:         e.Name,
			Nanowit:      total,
			Source:       claim.SourceTIP,
			Secret:       p.secret(),
		})
	}
	sort.Strings(unreachable)
	return out, unreachable
}
