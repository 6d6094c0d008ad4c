package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/pdf-structurer/constants"
	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/async"
	"github.com/joseph-ayodele/pdf-structurer/internal/ingest"
	"github.com/joseph-ayodele/pdf-structurer/internal/pipeline"
)

// batchReport tallies queue results; the hook runs on worker goroutines.
type batchReport struct {
	mu        sync.Mutex
	succeeded int
	rows      int
	failed    []async.Result
}

func (r *batchReport) add(res async.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.Status == constants.JobStatusSucceeded {
		r.succeeded++
		r.rows += res.Summary.Rows
		return
	}
	r.failed = append(r.failed, res)
}

func newBatchCmd(c *cli) *cobra.Command {
	var (
		outDir    string
		workers   int
		recursive bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Convert every PDF in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers > 0 {
				c.cfg.Batch.Workers = workers
			}
			if outDir != "" {
				c.cfg.Output.Dir = outDir
			}
			if err := c.requireValid(); err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), cmd, args[0], recursive)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory or gs:// prefix (default: next to each input)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent documents (default from config)")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Descend into subdirectories")
	return cmd
}

func (c *cli) runBatch(ctx context.Context, cmd *cobra.Command, dir string, recursive bool) error {
	paths, stats, err := ingest.ScanDirectory(dir, ingest.ScanOptions{SkipHidden: true, Recursive: recursive})
	if err != nil {
		return err
	}
	c.logger.Info("batch.scan.ok", "dir", dir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
	if len(paths) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no PDF files found")
		return nil
	}

	proc, closeFn, err := app.NewProcessor(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	store := app.NewStore(c.cfg, c.logger)
	defer func() { _ = store.Close() }()

	report := &batchReport{}
	q := async.NewProcessorQueue(pipeline.NewJobHandler(proc, store, c.cfg.Extract.MaxBytes, c.logger), c.logger,
		async.WithWorkers(c.cfg.Batch.Workers),
		async.WithQueueSize(c.cfg.Batch.QueueSize),
		async.WithProcessTimeout(c.cfg.Batch.ProcessTimeout),
		async.WithResultHook(report.add),
		async.WithBaseContext(ctx),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, p := range paths {
			if err := q.Enqueue(gctx, async.NewJob(p, pipeline.ArtifactPath(p, c.cfg.Output.Dir))); err != nil {
				return err
			}
		}
		return nil
	})
	enqueueErr := g.Wait()
	q.Shutdown(context.Background())

	out := cmd.OutOrStdout()
	for _, f := range report.failed {
		_, _ = fmt.Fprintf(out, "FAILED\t%s\t%v\n", f.Job.Source, f.Err)
	}
	_, _ = fmt.Fprintf(out, "processed %d files: %d succeeded (%d rows), %d failed\n",
		len(report.failed)+report.succeeded, report.succeeded, report.rows, len(report.failed))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted, %d of %d documents succeeded: %w", report.succeeded, len(paths), err)
	}
	if enqueueErr != nil {
		return enqueueErr
	}
	if len(report.failed) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(report.failed), len(paths))
	}
	return nil
}
