package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fraud-screen/internal/model"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a decision tree artifact",
		Long: `Reads a decision tree artifact, validates it, and writes it in the format implied
by the output extension (.json, .msgpack or .mpk).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			tree, err := model.LoadTree(in)
			if err != nil {
				return err
			}
			format, err := model.FormatFromPath(out)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := model.WriteTree(f, tree, format); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %d nodes)\n",
				legitColor.Sprint("wrote"), out, format, len(tree.Nodes.ChildrenLeft))
			return nil
		},
	}
}
