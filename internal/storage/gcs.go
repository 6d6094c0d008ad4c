package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

const (
	uploadAttempts = 4
	uploadBackoff  = 1 * time.Second
	uploadTimeout  = 50 * time.Second
)

// GCS is a Store over Cloud Storage objects.
type GCS struct {
	client    *gcs.Client
	overwrite bool
	backoff   time.Duration
	logger    *slog.Logger
}

// NewGCS opens a client with Application Default Credentials.
func NewGCS(ctx context.Context, overwrite bool, logger *slog.Logger) (*GCS, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GCS{client: client, overwrite: overwrite, backoff: uploadBackoff, logger: logger}, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

// Read streams the object into memory.
func (g *GCS) Read(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for %s: %w", uri, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", uri, err)
	}
	g.logger.Info("storage.gcs.read.ok", "uri", uri, "bytes", len(data))
	return data, nil
}

// Write uploads data with retries. Without overwrite the upload is conditional on the
// object not existing, and an existing object fails with ErrObjectExists.
func (g *GCS) Write(ctx context.Context, uri string, data []byte) error {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return err
	}
	obj := g.client.Bucket(bucket).Object(object)
	if !g.overwrite {
		obj = obj.If(gcs.Conditions{DoesNotExist: true})
	}

	err = withRetry(ctx, uploadAttempts, g.backoff, g.logger, uri, func() error {
		writeCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
		defer cancel()

		w := obj.NewWriter(writeCtx)
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			_ = w.Close()
			return classifyWriteError(uri, err)
		}
		if err := w.Close(); err != nil {
			return classifyWriteError(uri, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	g.logger.Info("storage.gcs.write.ok", "uri", uri, "bytes", len(data))
	return nil
}

func classifyWriteError(uri string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%s: %w", uri, ErrObjectExists)
	}
	return err
}

// withRetry runs op up to attempts times, doubling the wait between tries.
// ErrObjectExists is final.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, logger *slog.Logger, target string, op func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrObjectExists) {
			return err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		logger.Warn("storage.write.retry",
			"target", target,
			"attempt", i+1,
			"max_attempts", attempts,
			"backoff", backoff.String(),
			"error", err,
		)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			logger.Error("storage.write.canceled", "target", target, "error", ctx.Err())
			return ctx.Err()
		}
	}
	logger.Error("storage.write.failed", "target", target, "error", lastErr)
	return fmt.Errorf("write %s failed after %d attempts: %w", target, attempts, lastErr)
}
