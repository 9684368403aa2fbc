package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/vocdoni/poseidon-smt/field"
	"github.com/vocdoni/poseidon-smt/hash"
	"github.com/vocdoni/poseidon-smt/smt"
	"github.com/vocdoni/poseidon-smt/visual"
)

// ErrInvalidProof is returned by the verify command when the proof does not
// match its root.
var ErrInvalidProof = errors.New("invalid proof")

var cmdRoot = &cli.Command{
	Name:      "root",
	Usage:     "apply a batch to an empty tree and print its root",
	ArgsUsage: "<batch.yaml>",
	Action: func(cctx *cli.Context) error {
		tree, err := treeFromBatch(cctx)
		if err != nil {
			return err
		}
		root, err := tree.Root()
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, root.String())
		return nil
	},
}

var cmdProve = &cli.Command{
	Name:      "prove",
	Usage:     "apply a batch to an empty tree and print the JSON proof of a path",
	ArgsUsage: "<batch.yaml> <path>",
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 2 {
			return fmt.Errorf("expected a batch file and a path")
		}
		path, err := field.FromString(cctx.Args().Get(1))
		if err != nil {
			return err
		}
		tree, err := treeFromBatch(cctx)
		if err != nil {
			return err
		}
		proof, err := tree.GenerateProof(path)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(proof, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, string(out))
		return nil
	},
}

var cmdVerify = &cli.Command{
	Name:      "verify",
	Usage:     "verify a JSON proof with the selected hasher",
	ArgsUsage: "<proof.json>",
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected a proof file")
		}
		h, err := hash.ByName(cctx.String("hasher"))
		if err != nil {
			return err
		}
		data, err := os.ReadFile(cctx.Args().First())
		if err != nil {
			return err
		}
		var proof smt.Proof
		if err := json.Unmarshal(data, &proof); err != nil {
			return fmt.Errorf("cannot decode proof: %w", err)
		}
		ok, err := proof.Verify(h)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidProof
		}
		fmt.Fprintln(cctx.App.Writer, "valid")
		return nil
	},
}

var cmdShow = &cli.Command{
	Name:      "show",
	Usage:     "apply a batch to an empty tree and draw it",
	ArgsUsage: "<batch.yaml>",
	Action: func(cctx *cli.Context) error {
		tree, err := treeFromBatch(cctx)
		if err != nil {
			return err
		}
		return visual.Render(cctx.App.Writer, tree)
	},
}

// treeFromBatch creates a tree with the global flags and applies the batch
// file given as first argument.
func treeFromBatch(cctx *cli.Context) (*smt.Tree, error) {
	if cctx.Args().Len() < 1 {
		return nil, fmt.Errorf("expected a batch file")
	}
	h, err := hash.ByName(cctx.String("hasher"))
	if err != nil {
		return nil, err
	}
	tree, err := smt.New(cctx.Int("depth"), smt.WithHasher(h))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cctx.Args().First())
	if err != nil {
		return nil, err
	}
	defer f.Close()
	batch, err := LoadBatch(f)
	if err != nil {
		return nil, err
	}
	if err := batch.Apply(tree); err != nil {
		return nil, err
	}
	return tree, nil
}
