// Command smtree builds sparse Merkle trees from YAML batches of mutations,
// prints their roots and proofs, and verifies JSON proofs.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v2"
	"github.com/vocdoni/poseidon-smt/hash"
	"github.com/vocdoni/poseidon-smt/smt"
	"go.vocdoni.io/dvote/log"
)

var logLevels = []string{"debug", "info", "warn", "error"}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:  "smtree",
		Usage: "sparse Merkle tree tool over the BN254 scalar field",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "depth",
				Usage:   "number of levels below the root",
				Value:   smt.DefaultDepth,
				EnvVars: []string{"SMT_DEPTH"},
			},
			&cli.StringFlag{
				Name:    "hasher",
				Usage:   fmt.Sprintf("compression function, one of %v", hash.Names()),
				Value:   hash.Default().Type(),
				EnvVars: []string{"SMT_HASHER"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   fmt.Sprintf("log level, one of %v", logLevels),
				Value:   "error",
				EnvVars: []string{"SMT_LOG_LEVEL"},
			},
		},
		Before: func(cctx *cli.Context) error {
			level := cctx.String("log-level")
			if !slices.Contains(logLevels, level) {
				return fmt.Errorf("invalid log level %q, must be one of %v", level, logLevels)
			}
			log.Init(level, "stderr", nil)
			return nil
		},
	}
	app.Commands = []*cli.Command{
		cmdRoot,
		cmdProve,
		cmdVerify,
		cmdShow,
	}
	return app
}
