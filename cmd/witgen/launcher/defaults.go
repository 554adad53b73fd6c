package launcher

import (
	"github.com/rony4d/witgen/integration"
	"github.com/rony4d/witgen/proofs"
	"github.com/rony4d/witgen/tip"
)

// DefaultConfig returns a fully populated Config: the default network
// preset plus the file layout the pipeline uses when run from a working
// directory holding its inputs.
func DefaultConfig() Config {
	network := integration.DefaultPreset()
	return Config{
		Network: network,
		Log: LoggingConfig{
			Verbosity: network.LogVerbosity,
			Format:    "text",
		},
		TIP: tip.Config{
			ClaimsDir: "node_claims",
			KYCCSV:    "kyc.csv",
			BlocksDir: "blocks",
			Output:    "assignments/tip.csv",
		},
		Proofs: ProofsConfig{
			AssignmentsDir: "assignments",
			OutputDir:      "proofs",
			OpenSSL:        "openssl",
			Foundation:     proofs.DefaultFoundation,
		},
		Genesis: GenesisConfig{
			ProofsDir: "proofs",
			ClaimsDir: "claims",
			Output:    "genesis_block.json",
		},
	}
}
