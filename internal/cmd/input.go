package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// source returns the input filename from the positional arguments; empty
// means standard input.
func source(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return ""
}

// readInput buffers the whole input up front: the named file, or the
// command's input stream when filename is empty.
func readInput(cmd *cobra.Command, filename string) ([]byte, error) {
	if filename == "" {
		return io.ReadAll(cmd.InOrStdin())
	}

	return os.ReadFile(filename)
}
