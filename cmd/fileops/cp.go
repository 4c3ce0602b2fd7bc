package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moltenform/fileops/internal/config"
	"github.com/moltenform/fileops/stats"
	"github.com/moltenform/fileops/transfer"
	"github.com/moltenform/fileops/walk"
)

func newCpCmd(cfg config.Config) *cobra.Command {
	var (
		recursive     bool
		overwrite     bool
		parents       bool
		keepDestMtime bool
	)

	cmd := &cobra.Command{
		Use:   "cp [flags] <source> <destination>",
		Short: "Copy a file or directory tree atomically",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("overwrite") && cfg.Defaults.Overwrite != nil {
				overwrite = *cfg.Defaults.Overwrite
			}

			src, dst := args[0], args[1]
			info, err := os.Stat(src)
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}

			if info.IsDir() {
				if !recursive {
					return fmt.Errorf("source %s is a directory (use -r)", src)
				}
				return runTreeCopy(src, dst, overwrite, parents, keepDestMtime)
			}

			return transfer.Copy(transfer.Request{
				Src:                 src,
				Dst:                 dst,
				Overwrite:           overwrite,
				CreateParents:       parents,
				PreserveDestModTime: keepDestMtime,
			})
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "copy directories recursively")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing destination")
	cmd.Flags().BoolVar(&parents, "parents", false, "create missing destination parent directories")
	cmd.Flags().
		BoolVar(&keepDestMtime, "keep-dest-mtime", false, "restore the destination's prior mtime after an overwriting copy")
	return cmd
}

// runTreeCopy composes the traversal and transfer engines: the walker
// produces paths, the transfer engine copies each one. Unreadable
// subtrees are skipped and counted rather than aborting the batch.
func runTreeCopy(src, dst string, overwrite, parents, keepDestMtime bool) error {
	collector := stats.NewCollector()

	if parents {
		if err := transfer.MakeDirs(filepath.Dir(dst)); err != nil {
			return err
		}
	}
	if err := transfer.MakeDirs(dst); err != nil {
		return err
	}

	f := walk.Filter{
		IncludeFiles: true,
		IncludeDirs:  true,
		OnError: func(path string, err error) {
			slog.Warn("skipping unreadable entry", "path", path, "error", err)
			collector.AddFilesFailed(1)
		},
	}

	var firstErr error
	w := walk.Walk(src, f)
	for entry := range w.Entries() {
		rel, err := filepath.Rel(src, entry.Path)
		if err != nil {
			collector.AddFilesFailed(1)
			continue
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir {
			if err := transfer.MakeDirs(target); err != nil {
				slog.Error("mkdir failed", "path", target, "error", err)
				collector.AddFilesFailed(1)
				if firstErr == nil {
					firstErr = err
				}
			} else {
				collector.AddDirsCreated(1)
			}
			continue
		}

		err = transfer.Copy(transfer.Request{
			Src:                 entry.Path,
			Dst:                 target,
			Overwrite:           overwrite,
			PreserveDestModTime: keepDestMtime,
		})
		if err != nil {
			slog.Error("copy failed", "path", entry.Path, "error", err)
			collector.AddFilesFailed(1)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		collector.AddFilesCopied(1)
		if size, err := entry.Size(); err == nil {
			collector.AddBytesCopied(size)
		}
	}

	snap := collector.Snapshot()
	slog.Info("copy complete", "summary", snap.String())

	if firstErr != nil {
		if snap.FilesCopied > 0 {
			return &exitError{code: 1} // partial failure
		}
		return &exitError{code: 2} // total failure
	}
	return nil
}
