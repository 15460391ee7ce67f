// Package cmd implements the unfence command line interface. The commands
// are thin: they read input, hand it to the extraction and stripping
// packages, and print the result.
package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/ezerfernandes/unfence/internal/code"
	"github.com/ezerfernandes/unfence/internal/fence"
	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

// Execute runs the unfence CLI with the given arguments and streams, and
// exits the process when a command fails.
func Execute(args []string, stdout, stderr io.Writer) {
	if err := run(args, stdout, stderr, nil); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, stdin io.Reader) error {
	root := rootCmd()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if stdin != nil {
		root.SetIn(stdin)
	}

	return root.Execute()
}

func rootCmd() *cobra.Command {
	opts := &options{} //nolint:exhaustruct

	var (
		all     bool
		strip   bool
		shebang bool
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "unfence [flags] [input]",
		Short: "Extract fenced code blocks from markdown output",
		Long:  rootHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			text, err := readInput(cmd, source(args))
			if err != nil {
				return err
			}

			out, lang := extract(string(text), opts.lang, all, opts.status)

			if shebang {
				out = code.EnsureShebang(out, lang)
			}

			if strip {
				out = code.StripComments(out, lang)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)

			return nil
		},

		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)
	quietFlag(cmd, opts)

	cmd.Flags().BoolVarP(&all, "all", "a", false, "concatenate every matching block instead of the first")
	cmd.Flags().BoolVarP(&strip, "strip-comments", "s", false, "remove comments from the extracted code")
	cmd.Flags().BoolVarP(&shebang, "shebang", "b", false, "prepend an interpreter line when missing")

	cmd.AddCommand(listCmd(opts), dumpCmd(opts), execCmd(opts), cleanCmd(opts))

	return cmd
}

func extract(text, lang string, all bool, status statusFunc) (string, string) {
	if all {
		return fence.ExtractAll(text, lang, fence.StatusFunc(status))
	}

	return fence.Extract(text, lang, fence.StatusFunc(status))
}
