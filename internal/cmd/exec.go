package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezerfernandes/unfence/internal/code"
	"github.com/ezerfernandes/unfence/internal/fence"
	"github.com/ezerfernandes/unfence/internal/mdblock"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

//go:embed help/exec.md
var execHelp string

var errMissingCommand = fmt.Errorf("command is required after '--'")

type blockInfo struct {
	index     int
	lang      string
	file      string
	tempPath  string
	startLine int
	endLine   int
}

func execCmd(opts *options) *cobra.Command {
	var strip bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "exec [flags] [input] [-- command]",
		Aliases: []string{"e"},
		Short:   "Run a shell command on each code block",
		Long:    execHelp,
		Args:    checkargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			scr, args := script(cmd, args)
			if len(scr) == 0 {
				return errMissingCommand
			}

			if !cmd.Flag("dir").Changed {
				dir, err := os.MkdirTemp(".", "unfence-exec-")
				if err != nil {
					return err
				}

				opts.dir = dir

				if !opts.keep {
					defer os.RemoveAll(dir)
				}
			}

			src, err := readInput(cmd, source(args))
			if err != nil {
				return err
			}

			return execBlocks(cmd, src, opts, scr, strip)
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)
	quietFlag(cmd, opts)
	dirFlag(cmd, opts)

	cmd.Flags().BoolVarP(&opts.keep, "keep", "k", false, "don't remove the temporary directory")
	cmd.Flags().BoolVarP(&strip, "strip-comments", "s", false, "strip comments before running the command")

	return cmd
}

func execBlocks(cmd *cobra.Command, src []byte, opts *options, scr string, strip bool) error {
	blocks, err := mdblock.Parse(src)
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(opts.dir)
	if err != nil {
		return err
	}

	index := 0

	var failures int

	for _, block := range blocks {
		if !fence.Match(opts.lang, block.Lang) {
			continue
		}

		info := writeBlockToTemp(block, index, absDir, strip, opts.status)
		index++

		if info == nil {
			continue
		}

		expanded := expandCommand(scr, info, absDir)

		opts.status("--- block %d (%s%s) : L%d-%d ---\n", info.index, blockLang(info.lang), fileLabel(info.file), info.startLine, info.endLine)

		exitCode, execErr := runScript(cmd.Context(), expanded, absDir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if execErr != nil {
			return execErr
		}

		if exitCode != 0 {
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d block(s) failed", failures)
	}

	return nil
}

func writeBlockToTemp(block *mdblock.Block, index int, dir string, strip bool, status statusFunc) *blockInfo {
	body := block.Code
	if strip {
		body = []byte(code.StripComments(string(body), block.Lang))
	}

	info := &blockInfo{
		index:     index,
		lang:      block.Lang,
		file:      block.Meta.Get(metaFile),
		tempPath:  filepath.Join(dir, tempFilename(block, index)),
		startLine: block.StartLine,
		endLine:   block.EndLine,
	}

	if err := os.MkdirAll(filepath.Dir(info.tempPath), dirMode); err != nil {
		status("warning: failed to create directory for block %d: %v\n", index, err)

		return nil
	}

	if err := os.WriteFile(info.tempPath, body, fileMode); err != nil {
		status("warning: failed to write block %d: %v\n", index, err)

		return nil
	}

	return info
}

// tempFilename keeps file= names apart by prefixing the block index, so two
// blocks naming the same file don't clobber each other in the temp directory.
func tempFilename(block *mdblock.Block, index int) string {
	if file := block.Meta.Get(metaFile); len(file) != 0 {
		return fmt.Sprintf("%d_%s", index, filepath.Base(filepath.FromSlash(file)))
	}

	return fmt.Sprintf("block_%d%s", index, langExtension(block.Lang))
}

func expandCommand(scr string, info *blockInfo, dir string) string {
	expanded := strings.ReplaceAll(scr, "{}", info.tempPath)
	expanded = strings.ReplaceAll(expanded, "{lang}", info.lang)
	expanded = strings.ReplaceAll(expanded, "{index}", fmt.Sprint(info.index))
	expanded = strings.ReplaceAll(expanded, "{dir}", dir)

	return expanded
}

func runScript(ctx context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(os.Stdin, stdout, stderr))
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}

func fileLabel(file string) string {
	if len(file) != 0 {
		return ", file=" + file
	}

	return ""
}

// script splits the argument list at the "--" separator into the shell
// command and the remaining positional arguments.
func script(cmd *cobra.Command, args []string) (string, []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return "", args
	}

	return strings.Join(args[dash:], " "), args[:dash]
}

func checkargs(cmd *cobra.Command, args []string) error {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		dash = len(args)
	}

	if dash > 1 {
		return fmt.Errorf("accepts at most 1 input file, received %d", dash)
	}

	return nil
}
