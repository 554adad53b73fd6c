package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// TIPFlags locate the inputs and output of the Testnet Incentives Program run.

func TIPFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "tip.nodes",
			Usage: "Sign-up CSV (email, wit_id, claim_file_url, ...)",
		},
		cli.IntFlag{
			Name:  "tip.limit",
			Usage: "Read at most this many sign-up rows (0 for all)",
		},
		cli.StringFlag{
			Name:  "tip.claims",
			Usage: "Directory of node claim files (*.txt)",
			Value: "node_claims",
		},
		cli.StringFlag{
			Name:  "tip.kyc",
			Usage: "CSV of participants who passed KYC",
			Value: "kyc.csv",
		},
		cli.StringFlag{
			Name:  "tip.blocks",
			Usage: "Directory of block count CSVs (address, blocks)",
			Value: "blocks",
		},
		cli.StringFlag{
			Name:  "tip.direct",
			Usage: "CSV of direct rewards in wits",
		},
		cli.StringFlag{
			Name:  "tip.output",
			Usage: "Assignments CSV to write",
			Value: "assignments/tip.csv",
		},
	}
}
