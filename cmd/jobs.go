package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"psn-value/core/logger"
	"psn-value/feature/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// lockDir holds the per-library lock files shared by every process.
var lockDir string

func newJobCmd(kind library.JobKind, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind) + " <library>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd.Context(), kind, args[0])
		},
	}
}

func init() {
	syncCmd := newJobCmd(library.JobSync,
		"Sync a library with the storefront catalog",
		`Fetches the full catalog of a library, inserts new titles, refreshes
prices and ratings of known titles and recomputes their value.

The library is given by id or name. Only one job per library runs at a
time across every process sharing the lock directory.`)
	weightsCmd := newJobCmd(library.JobWeights,
		"Recompute weighted ratings of a library",
		`Recomputes the library rating statistics and rewrites the weighted
rating and value of every stored title without contacting the storefront.`)
	thumbnailsCmd := newJobCmd(library.JobThumbnails,
		"Refresh stored thumbnails of a library",
		`Re-reads the catalog and rewrites the thumbnail of every stored title,
mirroring it to object storage when storage is enabled.`)

	for _, c := range []*cobra.Command{syncCmd, weightsCmd, thumbnailsCmd} {
		c.Flags().StringVar(&lockDir, "lock-dir", "", "Directory holding per-library lock files (default SYNC_LOCK_DIR or the OS temp dir)")
		RootCmd.AddCommand(c)
	}
}

func runJob(ctx context.Context, kind library.JobKind, ref string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	lib, err := a.service.FindLibrary(ctx, ref)
	if err != nil {
		return err
	}
	l := logger.WithLibrary(a.log, lib.ID).With(zap.String("library", lib.Name))

	runner, err := a.newRunner(l, lockDir)
	if err != nil {
		return err
	}
	status, err := runner.Execute(ctx, lib.ID, kind)
	if err != nil {
		return err
	}

	l.Info("Job complete", zap.String("job_id", status.ID), zap.Any("summary", status.Summary))
	return nil
}
