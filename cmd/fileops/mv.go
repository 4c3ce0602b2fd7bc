package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/moltenform/fileops/internal/config"
	"github.com/moltenform/fileops/stats"
	"github.com/moltenform/fileops/transfer"
)

func newMvCmd(cfg config.Config) *cobra.Command {
	var (
		overwrite bool
		parents   bool
	)

	cmd := &cobra.Command{
		Use:   "mv [flags] <source> <destination>",
		Short: "Move a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("overwrite") && cfg.Defaults.Overwrite != nil {
				overwrite = *cfg.Defaults.Overwrite
			}

			collector := stats.NewCollector()
			err := transfer.Move(transfer.Request{
				Src:           args[0],
				Dst:           args[1],
				Overwrite:     overwrite,
				AllowDirs:     true,
				CreateParents: parents,
			})
			if err != nil {
				collector.AddFilesFailed(1)
				return err
			}

			collector.AddFilesMoved(1)
			slog.Info("move complete", "summary", collector.Snapshot().String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing destination")
	cmd.Flags().BoolVar(&parents, "parents", false, "create missing destination parent directories")
	return cmd
}
