// Package integration provides network presets for the genesis tooling.
// Presets bundle the settings that differ between networks (genesis rules,
// address prefix, validator timeout, log verbosity) into named profiles
// (mainnet, testnet, dev) so operators can switch networks with a single
// --network flag instead of repeating every setting.
//
// Usage:
//
//	cfg := integration.MainnetPreset() // for the real genesis block
//	cfg := integration.TestnetPreset() // for rehearsals on testnet
//	cfg := integration.DevPreset()     // for local runs against fixtures
//
// Each preset returns a PresetConfig struct that the launcher merges into
// its main config before the config file and CLI flags are applied.
package integration

import (
	"fmt"
	"time"

	"github.com/rony4d/witgen/genesis"
)

// PresetConfig captures the parameters that vary across networks. It leaves
// out input and output paths, which depend on where the operator keeps the
// files rather than on the network.
type PresetConfig struct {
	Name  string        // human-readable identifier (e.g., "mainnet", "dev")
	Rules genesis.Rules // genesis timestamp, address prefix and allocation totals
	// ValidatorTimeout bounds each claim cross-validation, as a duration string.
	ValidatorTimeout string
	LogVerbosity     int // 0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace
}

// DefaultPreset is the testnet preset: rehearsals are the common case and
// nothing gets written with mainnet addresses by accident.
func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:             "default",
		Rules:            genesis.TestnetRules(),
		ValidatorTimeout: "30s", // long enough for a node.js validator to start
		LogVerbosity:     3,     // info
	}
}

// MainnetPreset returns the configuration used to build the real genesis
// block. Addresses must carry the "wit" prefix.
//
// Use cases:
//   - Issuing participant proofs for the token sale and TIP participants
//   - Building the mainnet genesis block from returned claims
func MainnetPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "mainnet"
	cfg.Rules = genesis.MainnetRules()
	return cfg
}

// TestnetPreset returns the configuration for testnet rehearsals. Addresses
// carry the "twit" prefix.
func TestnetPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "testnet"
	return cfg
}

// DevPreset returns a configuration for local runs against small fixtures.
// It uses testnet rules with a short timeout and debug logs.
//
// Trade-offs:
//   - A 5s timeout marks slow validators as bad; fine for fixtures, too
//     strict for a real run on a loaded machine
//   - Debug logs print one line per claim and per proof
func DevPreset() PresetConfig {
	cfg := TestnetPreset()
	cfg.Name = "dev"
	cfg.ValidatorTimeout = "5s"
	cfg.LogVerbosity = 4
	return cfg
}

// Timeout parses ValidatorTimeout.
func (p PresetConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(p.ValidatorTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid validator timeout %q: %v", p.ValidatorTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("validator timeout must be positive, got %s", d)
	}
	return d, nil
}

// GetPresetByName looks up a preset by its string identifier and returns the
// corresponding PresetConfig. Returns an error if the name is unrecognized.
// This helper enables CLI flags like --network=mainnet to select
// configurations dynamically.
//
// Example:
//
//	preset, err := integration.GetPresetByName("mainnet")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "mainnet":
		return MainnetPreset(), nil
	case "testnet":
		return TestnetPreset(), nil
	case "dev":
		return DevPreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown network: %q (valid: mainnet, testnet, dev, default)", name)
	}
}

// ApplyPreset merges a preset configuration into an existing config struct.
// Non-zero fields of the preset override the corresponding values in the
// target, so a preset can be applied on top of a config file without
// clobbering the settings it does not define.
//
// Example:
//
//	cfg := launcher.DefaultConfig()
//	preset := integration.MainnetPreset()
//	integration.ApplyPreset(&cfg.Network, preset)
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.Rules.Prefix != "" {
		target.Rules = preset.Rules
	}
	if preset.ValidatorTimeout != "" {
		target.ValidatorTimeout = preset.ValidatorTimeout
	}
	if preset.LogVerbosity > 0 {
		target.LogVerbosity = preset.LogVerbosity
	}
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
