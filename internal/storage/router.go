package storage

import (
	"context"
	"fmt"
	"sync"
)

// GCSFactory builds the Cloud Storage store on first use.
type GCSFactory func(ctx context.Context) (Store, error)

// Router sends gs:// URIs to Cloud Storage and everything else to the local file system.
// The Cloud Storage client is only created when a gs:// URI is seen.
type Router struct {
	local   Store
	factory GCSFactory

	mu  sync.Mutex
	gcs Store
}

func NewRouter(local Store, factory GCSFactory) *Router {
	return &Router{local: local, factory: factory}
}

func (r *Router) Read(ctx context.Context, uri string) ([]byte, error) {
	s, err := r.pick(ctx, uri)
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, uri)
}

func (r *Router) Write(ctx context.Context, uri string, data []byte) error {
	s, err := r.pick(ctx, uri)
	if err != nil {
		return err
	}
	return s.Write(ctx, uri, data)
}

func (r *Router) pick(ctx context.Context, uri string) (Store, error) {
	if !IsGCSURI(uri) {
		return r.local, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gcs != nil {
		return r.gcs, nil
	}
	if r.factory == nil {
		return nil, fmt.Errorf("no cloud storage configured for %s", uri)
	}
	s, err := r.factory(ctx)
	if err != nil {
		return nil, err
	}
	r.gcs = s
	return s, nil
}

// Close releases the Cloud Storage client if one was created.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.gcs.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
