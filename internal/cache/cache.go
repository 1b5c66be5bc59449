package cache

import "context"

// SnapshotCache holds the most recent full-state snapshot for the render
// layer. The engine refreshes it best-effort after every mutation; a miss
// just means the reader falls back to the engine itself.
type SnapshotCache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, payload []byte) error
}

type NoopSnapshotCache struct{}

func (NoopSnapshotCache) Get(_ context.Context) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopSnapshotCache) Set(_ context.Context, _ []byte) error {
	return nil
}
