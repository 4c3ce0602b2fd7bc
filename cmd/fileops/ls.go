package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moltenform/fileops/stats"
	"github.com/moltenform/fileops/walk"
)

func newLsCmd() *cobra.Command {
	var (
		recursive bool
		exts      []string
		dirsOnly  bool
		long      bool
	)

	cmd := &cobra.Command{
		Use:   "ls [flags] <path>",
		Short: "List directory contents, optionally recursively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			f := walk.Filter{AllowedExts: exts}

			if !recursive {
				if dirsOnly {
					f.IncludeDirs = true
				} else {
					f.IncludeFiles = true
					f.IncludeDirs = true
				}
				entries, err := walk.ListChildren(root, f)
				if err != nil {
					return err
				}
				for _, e := range entries {
					printEntry(e, long)
				}
				return nil
			}

			var w *walk.Walker
			if dirsOnly {
				w = walk.Dirs(root, f)
			} else {
				w = walk.Files(root, f)
			}
			for e := range w.Entries() {
				printEntry(e, long)
			}
			return w.Err()
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().
		StringSliceVar(&exts, "ext", nil, "only list entries with these extensions (e.g. txt,png)")
	cmd.Flags().BoolVar(&dirsOnly, "dirs", false, "list directories instead of files")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "include size and modification time")
	return cmd
}

func printEntry(e walk.Entry, long bool) {
	if !long {
		fmt.Fprintln(os.Stdout, e.Path)
		return
	}

	size, err := e.Size()
	if err != nil {
		fmt.Fprintf(os.Stdout, "%-10s  %s\n", "?", e.Path)
		return
	}
	mtime, _ := e.ModTime()
	fmt.Fprintf(os.Stdout, "%-10s  %s  %s\n",
		stats.FormatBytes(size), mtime.Format("2006-01-02 15:04:05"), e.Path)
}
