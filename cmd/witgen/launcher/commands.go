package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/witgen/claimcheck"
	"github.com/rony4d/witgen/flags"
	"github.com/rony4d/witgen/genesis"
	"github.com/rony4d/witgen/inter/claim"
	"github.com/rony4d/witgen/inter/claimpk"
	"github.com/rony4d/witgen/ledger"
	"github.com/rony4d/witgen/proofs"
	"github.com/rony4d/witgen/reconcile"
	"github.com/rony4d/witgen/tip"
)

var (
	tipCommand = cli.Command{
		Name:   "tip",
		Usage:  "Validate node claims and compute Testnet Incentives Program assignments",
		Flags:  flags.Merge(flags.CommonFlags(), flags.TIPFlags()),
		Action: runTIP,
	}
	proofsCommand = cli.Command{
		Name:   "proofs",
		Usage:  "Issue signed participant proofs from assignment CSVs",
		Flags:  flags.Merge(flags.CommonFlags(), flags.ProofsFlags()),
		Action: runProofs,
	}
	genesisCommand = cli.Command{
		Name:   "genesis",
		Usage:  "Reconcile claim files with participant proofs and write the genesis block",
		Flags:  flags.Merge(flags.CommonFlags(), flags.GenesisFlags()),
		Action: runGenesis,
	}
	verifyCommand = cli.Command{
		Name:      "verify",
		Usage:     "Check node claim files",
		ArgsUsage: "<claim file>...",
		Flags:     flags.CommonFlags(),
		Action:    runVerify,
	}
	dumpConfigCommand = cli.Command{
		Name:  "dumpconfig",
		Usage: "Show the configuration values",
		Flags: flags.Merge(
			flags.CommonFlags(),
			flags.TIPFlags(),
			flags.ProofsFlags(),
			flags.GenesisFlags(),
		),
		Action: runDumpConfig,
	}
)

func setup(ctx *cli.Context) (Config, *logrus.Logger, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return cfg, nil, err
	}
	log, err := NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// interruptible returns a context cancelled on SIGINT or SIGTERM.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func formatWits(nanowits uint64) string {
	return fmt.Sprintf("%d.%09d", nanowits/genesis.NanowitsPerWit, nanowits%genesis.NanowitsPerWit)
}

func runTIP(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	report, err := tip.New(cfg.TIP, cfg.Network.Rules, log).Run()
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	writeAttrition(w, report.Attrition)
	fmt.Fprintf(w, "Blocks: %d mined, %d by program participants\n", report.Blocks.Total, report.Blocks.InProgram)
	fmt.Fprintf(w, "Mining rewards: %s wit\n", formatWits(report.Totals.BySource[ledger.Mining]))
	fmt.Fprintf(w, "Direct rewards: %s wit\n", formatWits(report.Totals.BySource[ledger.Direct]))
	fmt.Fprintf(w, "Withheld (no KYC): %s wit\n", formatWits(report.Totals.Withheld))
	fmt.Fprintf(w, "Assignments: %d\n", len(report.Assignments))
	if len(report.Unreachable) > 0 {
		fmt.Fprintf(w, "Rewarded without email: %s\n", strings.Join(report.Unreachable, ", "))
	}
	return nil
}

func writeAttrition(w io.Writer, a ledger.Attrition) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Stage", "Ids", "Lost ids", "Addresses", "Lost addresses", "Emails", "Lost emails"})
	for _, s := range a {
		row := []string{s.Stage.String(), strconv.Itoa(s.IDs), strconv.Itoa(len(s.MissingIDs)), "-", "-", "-", "-"}
		if s.Stage.TracksAddresses() {
			row[3], row[4] = strconv.Itoa(s.Addresses), strconv.Itoa(len(s.MissingAddresses))
		}
		if s.Stage.TracksEmails() {
			row[5], row[6] = strconv.Itoa(s.Emails), strconv.Itoa(len(s.MissingEmails))
		}
		table.Append(row)
	}
	table.Render()
}

// makeSigner picks the signer for the configured issuer key: PEM files are
// signed through openssl, anything else must be a hex private key.
func makeSigner(cfg ProofsConfig) (proofs.Signer, error) {
	if cfg.Key == "" {
		return nil, errors.New("no issuer key configured, use --proofs.key")
	}
	if strings.HasSuffix(cfg.Key, ".pem") {
		return proofs.OpenSSLSigner{Binary: cfg.OpenSSL, KeyPath: cfg.Key}, nil
	}
	if info, err := os.Stat(cfg.Key); err == nil && !info.IsDir() {
		return proofs.OpenSSLSigner{Binary: cfg.OpenSSL, KeyPath: cfg.Key}, nil
	}
	key, err := claimpk.PrivKeyFromHex(cfg.Key)
	if err != nil {
		return nil, errors.Wrap(err, "issuer key is neither a file nor a hex private key")
	}
	return proofs.KeySigner{Key: key}, nil
}

func runProofs(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	signer, err := makeSigner(cfg.Proofs)
	if err != nil {
		return err
	}

	runCtx, cancel := interruptible()
	defer cancel()
	issuer := proofs.NewIssuer(proofs.Config{
		AssignmentsDir: cfg.Proofs.AssignmentsDir,
		OutputDir:      cfg.Proofs.OutputDir,
		Foundation:     cfg.Proofs.Foundation,
	}, cfg.Network.Rules, signer, log)
	stats, err := issuer.Run(runCtx)
	if err != nil {
		return err
	}
	writeStats(ctx.App.Writer, stats)
	return nil
}

func writeStats(w io.Writer, stats *proofs.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Source", "Identities", "Wit", "% supply", "% genesis", "% not foundation", "% unlocked"})
	row := func(name string, s *proofs.SourceStats) []string {
		return []string{
			name,
			strconv.Itoa(s.Identities),
			formatWits(s.Wits),
			strconv.FormatFloat(s.OverTotalSupply, 'f', 2, 64),
			strconv.FormatFloat(s.OverGenesis, 'f', 2, 64),
			strconv.FormatFloat(s.OverNotForFoundation, 'f', 2, 64),
			strconv.FormatFloat(s.OverUnlocked, 'f', 2, 64),
		}
	}
	for _, source := range claim.Sources {
		table.Append(row(string(source), stats.BySource[source]))
	}
	table.SetFooter(row("total", &stats.Total))
	table.Render()
}

func makeValidator(cfg ValidatorConfig) (reconcile.CrossValidator, error) {
	if cfg.Command != "" {
		return reconcile.ProcessValidator{Command: cfg.Command, Args: cfg.Args}, nil
	}
	v := reconcile.NativeValidator{}
	if cfg.Issuer != "" {
		issuer, err := claimpk.FromString(cfg.Issuer)
		if err != nil {
			return nil, errors.Wrap(err, "invalid issuer public key")
		}
		v.Issuer = &issuer
	}
	return v, nil
}

func runGenesis(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	validator, err := makeValidator(cfg.Genesis.Validator)
	if err != nil {
		return err
	}
	timeout, err := cfg.Network.Timeout()
	if err != nil {
		return err
	}

	runCtx, cancel := interruptible()
	defer cancel()
	engine := reconcile.NewEngine(reconcile.Config{
		ProofsDir:     cfg.Genesis.ProofsDir,
		ClaimsDir:     cfg.Genesis.ClaimsDir,
		Timeout:       timeout,
		Prefix:        cfg.Network.Rules.Prefix,
		TotalNanowits: cfg.Network.Rules.TotalNanowits(),
	}, validator, log)
	report, err := engine.Run(runCtx)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.App.Writer, report.Summary())

	emitter := genesis.NewRandomEmitter()
	if cfg.Genesis.Seed != 0 {
		emitter = genesis.NewEmitter(cfg.Genesis.Seed)
	}
	block, err := emitter.Emit(engine.Transfers(), report.TotalEmitted)
	if err != nil {
		return err
	}
	if err := block.WriteFile(cfg.Genesis.Output); err != nil {
		return errors.Wrap(err, "failed to write genesis block")
	}
	log.WithFields(logrus.Fields{
		"file":      cfg.Genesis.Output,
		"timelocks": len(block.Alloc),
		"nanowits":  block.Total(),
	}).Info("Genesis block written")
	return nil
}

func runVerify(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return errors.New("no claim file given")
	}
	v := claimcheck.New(ledger.New(), cfg.Network.Rules.Prefix, log)
	rejected := 0
	for _, path := range ctx.Args() {
		id, _ := claimcheck.IDFromFileName(path)
		c, err := v.ValidateFile(path, id)
		if err != nil {
			rejected++
			fmt.Fprintf(ctx.App.Writer, "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(ctx.App.Writer, "%s: %s owns %s\n", path, c.Identifier, c.Address)
	}
	if rejected > 0 {
		return errors.Errorf("%d of %d claims rejected", rejected, ctx.NArg())
	}
	return nil
}

func runDumpConfig(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	return WriteConfig(ctx.App.Writer, &cfg)
}
