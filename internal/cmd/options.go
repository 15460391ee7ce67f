package cmd

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"
)

const (
	metaFile = "file"

	fileMode fs.FileMode = 0o644
	dirMode  fs.FileMode = 0o755
)

type statusFunc func(format string, args ...interface{})

// options carries the flag state shared between the commands.
type options struct {
	lang  string
	quiet bool
	dir   string
	keep  bool

	status statusFunc
}

// createStatus routes status messages to the command's error stream, so
// stdout stays reserved for extracted code. --quiet swallows them.
func (o *options) createStatus(w io.Writer) {
	if o.quiet {
		o.status = func(string, ...interface{}) {}

		return
	}

	o.status = func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
	}
}

func langFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "only blocks with a matching language tag (glob patterns ok)")
}

func quietFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")
}

func dirFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.dir, "dir", ".", "target directory")
}
