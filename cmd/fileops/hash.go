package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/moltenform/fileops/hashing"
	"github.com/moltenform/fileops/internal/config"
	"github.com/moltenform/fileops/stats"
)

// algoValue is a pflag.Value that validates the algorithm at flag-parse
// time, so an unknown identifier fails before any file is opened.
type algoValue struct {
	alg *hashing.Algorithm
}

func (v *algoValue) String() string { return string(*v.alg) }
func (v *algoValue) Type() string   { return "algorithm" }

func (v *algoValue) Set(s string) error {
	alg, err := hashing.ParseAlgorithm(s)
	if err != nil {
		return err
	}
	*v.alg = alg
	return nil
}

func newHashCmd(cfg config.Config) *cobra.Command {
	alg := hashing.SHA256
	if cfg.Defaults.Algorithm != nil {
		if parsed, err := hashing.ParseAlgorithm(*cfg.Defaults.Algorithm); err == nil {
			alg = parsed
		}
	}
	var bufStr string

	cmd := &cobra.Command{
		Use:   "hash [flags] <path>...",
		Short: "Compute content digests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []hashing.Option
			if bufStr == "" && cfg.Defaults.BufferSize != nil {
				bufStr = *cfg.Defaults.BufferSize
			}
			if bufStr != "" {
				n, err := parseSize(bufStr)
				if err != nil {
					return fmt.Errorf("invalid --buffer: %w", err)
				}
				opts = append(opts, hashing.WithBufferSize(int(n)))
			}

			collector := stats.NewCollector()
			failed := 0
			for _, path := range args {
				digest, err := hashing.HashFile(path, alg, opts...)
				if err != nil {
					slog.Error("hash failed", "path", path, "error", err)
					collector.AddFilesFailed(1)
					failed++
					continue
				}
				collector.AddFilesHashed(1)
				fmt.Fprintf(os.Stdout, "%s  %s\n", digest, path)
			}
			slog.Info("hash complete", "summary", collector.Snapshot().String())

			if failed == len(args) {
				return &exitError{code: 2}
			}
			if failed > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().Var(&algoValue{alg: &alg}, "algo", "digest algorithm (e.g. sha256, blake3, crc32)")
	cmd.Flags().StringVar(&bufStr, "buffer", "", "read chunk size (e.g. 64K, 1M)")
	return cmd
}
