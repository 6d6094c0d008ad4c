package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/async"
	"github.com/joseph-ayodele/pdf-structurer/internal/ingest"
	"github.com/joseph-ayodele/pdf-structurer/internal/pipeline"
	"github.com/joseph-ayodele/pdf-structurer/internal/server"
)

func newWatchCmd(c *cli) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Convert PDFs as they appear in directories, until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				c.cfg.Output.Dir = outDir
			}
			if err := c.requireValid(); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory or gs:// prefix (default: next to each input)")
	return cmd
}

func (c *cli) runWatch(ctx context.Context, roots []string) error {
	proc, closeFn, err := app.NewProcessor(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	store := app.NewStore(c.cfg, c.logger)
	defer func() { _ = store.Close() }()

	q := async.NewProcessorQueue(pipeline.NewJobHandler(proc, store, c.cfg.Extract.MaxBytes, c.logger), c.logger,
		async.WithWorkers(c.cfg.Batch.Workers),
		async.WithQueueSize(c.cfg.Batch.QueueSize),
		async.WithProcessTimeout(c.cfg.Batch.ProcessTimeout),
		async.WithBaseContext(ctx),
	)
	defer func() {
		// jobs observe ctx, so after an interrupt this only waits for them to unwind
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.Batch.ProcessTimeout)
		defer cancel()
		q.Shutdown(shutdownCtx)
	}()

	g, gctx := errgroup.WithContext(ctx)

	events, errs, err := ingest.StartWatcher(gctx, ingest.WatchConfig{
		Roots:       roots,
		InitialScan: c.cfg.Watch.InitialScan,
		Debounce:    c.cfg.Watch.Debounce,
		SkipHidden:  true,
	}, c.logger)
	if err != nil {
		return err
	}

	health := server.NewHealthServer(c.logger)
	g.Go(func() error {
		return health.ListenAndServe(gctx, c.cfg.Server.HealthAddr)
	})
	health.SetServing(true)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				c.logger.Warn("watch.fs_error", "error", err)
			case path, ok := <-events:
				if !ok {
					return nil
				}
				job := async.NewJob(path, pipeline.ArtifactPath(path, c.cfg.Output.Dir))
				if err := q.Enqueue(gctx, job); err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, async.ErrQueueClosed) {
						return nil
					}
					return err
				}
			}
		}
	})

	c.logger.Info("watch.start", "roots", roots, "health_addr", c.cfg.Server.HealthAddr, "workers", c.cfg.Batch.Workers)
	start := time.Now()
	err = g.Wait()
	c.logger.Info("watch.stop", "error", err, "uptime_ms", time.Since(start).Milliseconds())
	return err
}
