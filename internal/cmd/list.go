package cmd

import (
	_ "embed"
	"fmt"

	"github.com/ezerfernandes/unfence/internal/fence"
	"github.com/ezerfernandes/unfence/internal/mdblock"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [input]",
		Aliases: []string{"ls"},
		Short:   "List code blocks found in the input",
		Long:    listHelp,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, source(args))
			if err != nil {
				return err
			}

			blocks, err := mdblock.Parse(src)
			if err != nil {
				return err
			}

			tbl := table.New("#", "LANG", "FILE", "LINES", "BYTES").WithWriter(cmd.OutOrStdout())

			for i, block := range blocks {
				if !fence.Match(opts.lang, block.Lang) {
					continue
				}

				tbl.AddRow(i, blockLang(block.Lang), block.Meta.Get(metaFile),
					fmt.Sprintf("%d-%d", block.StartLine, block.EndLine), len(block.Code))
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)

	return cmd
}

// blockLang names untagged blocks in listings.
func blockLang(lang string) string {
	if lang == "" {
		return "text"
	}

	return lang
}
