package cmd

import (
	"bytes"
	_ "embed"
	"errors"
	"os"

	"github.com/ezerfernandes/unfence/internal/code"
	"github.com/ezerfernandes/unfence/internal/mdblock"
	"github.com/spf13/cobra"
)

//go:embed help/clean.md
var cleanHelp string

var errWriteNeedsFile = errors.New("--write requires a file input")

func cleanCmd(opts *options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "clean [flags] [input]",
		Short: "Strip comments from code blocks inside the document",
		Long:  cleanHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			filename := source(args)
			if write && filename == "" {
				return errWriteNeedsFile
			}

			src, err := readInput(cmd, filename)
			if err != nil {
				return err
			}

			cleaned := 0

			changed, result, err := walkMatched(src, opts.lang, func(block *mdblock.Block) error {
				stripped := []byte(code.StripComments(string(block.Code), block.Lang))

				if !bytes.Equal(stripped, block.Code) {
					cleaned++
				}

				block.Code = stripped

				return nil
			})
			if err != nil {
				return err
			}

			if !changed {
				result = src
			}

			if write {
				if changed {
					if err := os.WriteFile(filename, result, fileMode); err != nil {
						return err
					}
				}

				opts.status("cleaned %d block(s) in %s\n", cleaned, filename)

				return nil
			}

			_, err = cmd.OutOrStdout().Write(result)

			return err
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)
	quietFlag(cmd, opts)

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the input file in place")

	return cmd
}
