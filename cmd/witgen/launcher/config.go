// This file maps CLI context and config file to the Config struct.

package launcher

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/witgen/integration"
	"github.com/rony4d/witgen/proofs"
	"github.com/rony4d/witgen/tip"
)

// Config aggregates the configuration of every pipeline step.
type Config struct {
	Network integration.PresetConfig
	Log     LoggingConfig
	TIP     tip.Config
	Proofs  ProofsConfig
	Genesis GenesisConfig
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	// Sentry is a DSN; error-level entries are reported there when set.
	Sentry string
}

type ProofsConfig struct {
	AssignmentsDir string
	OutputDir      string
	// Key is either a PEM file handed to openssl or a hex private key.
	Key        string
	OpenSSL    string
	Foundation proofs.Foundation
}

type GenesisConfig struct {
	ProofsDir string
	ClaimsDir string
	Output    string
	// Seed makes the output shuffle reproducible; 0 seeds it randomly.
	Seed      int64
	Validator ValidatorConfig
}

type ValidatorConfig struct {
	// Command runs an external validator; empty selects the in-process one.
	Command string
	Args    []string
	// Issuer is the hex public key proofs must be signed with. Optional.
	Issuer string
}

// These settings keep the TOML keys identical to the Go field names.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// MakeAllConfigs merges, in order: defaults, the --network preset, the
// optional config file and CLI flag overrides.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := DefaultConfig()

	if name := ctx.String("network"); name != "" {
		preset, err := integration.GetPresetByName(name)
		if err != nil {
			return cfg, err
		}
		integration.ApplyPreset(&cfg.Network, preset)
		cfg.Log.Verbosity = preset.LogVerbosity
	}

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, err
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if err := cfg.Network.Rules.Validate(); err != nil {
		return cfg, err
	}
	if _, err := cfg.Network.Timeout(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return errors.Wrapf(err, "failed to load config file %s", path)
}

// WriteConfig dumps cfg as TOML.
func WriteConfig(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("log.format") {
		cfg.Log.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Log.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Log.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("log.sentry") {
		cfg.Log.Sentry = ctx.String("log.sentry")
	}

	if ctx.IsSet("tip.nodes") {
		cfg.TIP.NodesCSV = resolvePath(ctx.String("tip.nodes"))
	}
	if ctx.IsSet("tip.limit") {
		cfg.TIP.Limit = ctx.Int("tip.limit")
	}
	if ctx.IsSet("tip.claims") {
		cfg.TIP.ClaimsDir = resolvePath(ctx.String("tip.claims"))
	}
	if ctx.IsSet("tip.kyc") {
		cfg.TIP.KYCCSV = resolvePath(ctx.String("tip.kyc"))
	}
	if ctx.IsSet("tip.blocks") {
		cfg.TIP.BlocksDir = resolvePath(ctx.String("tip.blocks"))
	}
	if ctx.IsSet("tip.direct") {
		cfg.TIP.DirectCSV = resolvePath(ctx.String("tip.direct"))
	}
	if ctx.IsSet("tip.output") {
		cfg.TIP.Output = resolvePath(ctx.String("tip.output"))
	}

	if ctx.IsSet("proofs.assignments") {
		cfg.Proofs.AssignmentsDir = resolvePath(ctx.String("proofs.assignments"))
	}
	if ctx.IsSet("proofs.output") {
		cfg.Proofs.OutputDir = resolvePath(ctx.String("proofs.output"))
	}
	if ctx.IsSet("proofs.key") {
		cfg.Proofs.Key = ctx.String("proofs.key")
	}
	if ctx.IsSet("proofs.openssl") {
		cfg.Proofs.OpenSSL = ctx.String("proofs.openssl")
	}

	if ctx.IsSet("genesis.proofs") {
		cfg.Genesis.ProofsDir = resolvePath(ctx.String("genesis.proofs"))
	}
	if ctx.IsSet("genesis.claims") {
		cfg.Genesis.ClaimsDir = resolvePath(ctx.String("genesis.claims"))
	}
	if ctx.IsSet("genesis.output") {
		cfg.Genesis.Output = resolvePath(ctx.String("genesis.output"))
	}
	if ctx.IsSet("genesis.seed") {
		cfg.Genesis.Seed = ctx.Int64("genesis.seed")
	}
	if ctx.IsSet("validator.command") {
		cfg.Genesis.Validator.Command = ctx.String("validator.command")
	}
	if ctx.IsSet("validator.args") {
		cfg.Genesis.Validator.Args = splitCSV(ctx.String("validator.args"))
	}
	if ctx.IsSet("validator.timeout") {
		cfg.Network.ValidatorTimeout = ctx.String("validator.timeout")
	}
	if ctx.IsSet("validator.issuer") {
		cfg.Genesis.Validator.Issuer = ctx.String("validator.issuer")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
