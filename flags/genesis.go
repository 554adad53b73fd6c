package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// ProofsFlags configure participant proof issuance.
func ProofsFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "proofs.assignments",
			Usage: "Directory of assignment CSVs",
			Value: "assignments",
		},
		cli.StringFlag{
			Name:  "proofs.output",
			Usage: "Directory receiving the participant proofs",
			Value: "proofs",
		},
		cli.StringFlag{
			Name:  "proofs.key",
			Usage: "Issuer key: a PEM file signed through openssl, or a hex private key",
		},
		cli.StringFlag{
			Name:  "proofs.openssl",
			Usage: "openssl executable used with PEM keys",
			Value: "openssl",
		},
	}
}

// GenesisFlags configure claim reconciliation and the genesis block output.
func GenesisFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "genesis.proofs",
			Usage: "Directory of issued participant proofs",
			Value: "proofs",
		},
		cli.StringFlag{
			Name:  "genesis.claims",
			Usage: "Directory of returned claim files (*.json)",
			Value: "claims",
		},
		cli.StringFlag{
			Name:  "genesis.output",
			Usage: "Genesis block file to write",
			Value: "genesis_block.json",
		},
		cli.Int64Flag{
			Name:  "genesis.seed",
			Usage: "Seed of the output shuffle, for reproducible blocks (random when unset)",
		},
		cli.StringFlag{
			Name:  "validator.command",
			Usage: "External cross-validator run as <command> <args> <proof> <claim> (in-process when empty)",
		},
		cli.StringFlag{
			Name:  "validator.args",
			Usage: "Comma-separated arguments passed before the proof and claim paths",
		},
		cli.StringFlag{
			Name:  "validator.timeout",
			Usage: "Maximum duration of one cross-validation",
		},
		cli.StringFlag{
			Name:  "validator.issuer",
			Usage: "Hex public key the in-process validator checks proof signatures against",
		},
	}
}
