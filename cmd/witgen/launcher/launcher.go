package launcher

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/witgen/flags"
)

// Version of the genesis tooling.
const Version = "0.1.0"

// NewApp assembles the command line application.
func NewApp() *cli.App {
	app := flags.NewApp(Version, "Witnet genesis block tooling")
	app.Commands = []cli.Command{
		tipCommand,
		proofsCommand,
		genesisCommand,
		verifyCommand,
		dumpConfigCommand,
	}
	return app
}

// Launch parses the command line and runs the selected command.
func Launch(args []string) error {
	return NewApp().Run(args)
}
