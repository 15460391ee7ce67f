package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ezerfernandes/unfence/internal/fence"
	"github.com/ezerfernandes/unfence/internal/mdblock"
	"github.com/liamg/memoryfs"
	"github.com/spf13/cobra"
)

//go:embed help/dump.md
var dumpHelp string

// errUnsafePath guards dump targets: a file= path in untrusted markdown must
// not climb out of the target directory.
var errUnsafePath = errors.New("file path escapes the target directory")

// writeFS is the destination of a dump. The OS directory and the in-memory
// dry-run filesystem both satisfy it.
type writeFS interface {
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

type osFS struct {
	root string
}

func (o *osFS) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(filepath.Join(o.root, filepath.FromSlash(name)), perm)
}

func (o *osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(filepath.Join(o.root, filepath.FromSlash(name)), data, perm)
}

func dumpCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "dump [flags] [input]",
		Short: "Write code blocks to files",
		Long:  dumpHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			src, err := readInput(cmd, source(args))
			if err != nil {
				return err
			}

			blocks, err := mdblock.Parse(src)
			if err != nil {
				return err
			}

			if dryRun {
				memfs := memoryfs.New()

				if err := dumpBlocks(memfs, blocks, opts.lang, func(string, ...interface{}) {}); err != nil {
					return err
				}

				return reportDryRun(memfs, opts.status)
			}

			if err := os.MkdirAll(opts.dir, dirMode); err != nil {
				return err
			}

			return dumpBlocks(&osFS{root: opts.dir}, blocks, opts.lang, opts.status)
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)
	quietFlag(cmd, opts)
	dirFlag(cmd, opts)

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be written without touching the disk")

	return cmd
}

func dumpBlocks(dest writeFS, blocks mdblock.Blocks, lang string, status statusFunc) error {
	index := 0

	for _, block := range blocks {
		if !fence.Match(lang, block.Lang) {
			continue
		}

		name, err := blockFilename(block, index)
		if err != nil {
			return err
		}

		index++

		if dir := path.Dir(name); dir != "." {
			if err := dest.MkdirAll(dir, dirMode); err != nil {
				return err
			}
		}

		if err := dest.WriteFile(name, block.Code, fileMode); err != nil {
			return err
		}

		status("wrote %s (%d bytes)\n", name, len(block.Code))
	}

	return nil
}

func reportDryRun(memfs fs.FS, status statusFunc) error {
	return fs.WalkDir(memfs, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		status("would write %s (%d bytes)\n", name, info.Size())

		return nil
	})
}

// blockFilename names the output file for a block: the file= metadata when
// present, otherwise a synthesized name from the block's position and
// language.
func blockFilename(block *mdblock.Block, index int) (string, error) {
	if file := block.Meta.Get(metaFile); file != "" {
		name := path.Clean(filepath.ToSlash(file))

		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return "", fmt.Errorf("%q: %w", file, errUnsafePath)
		}

		return name, nil
	}

	return fmt.Sprintf("block_%d%s", index, langExtension(block.Lang)), nil
}

func langExtension(lang string) string {
	switch strings.ToLower(lang) {
	case "python", "py":
		return ".py"
	case "bash", "sh", "shell":
		return ".sh"
	case "javascript", "js", "node":
		return ".js"
	case "typescript", "ts":
		return ".ts"
	case "ruby", "rb":
		return ".rb"
	case "go", "golang":
		return ".go"
	case "":
		return ".txt"
	}

	return "." + strings.ToLower(lang)
}
