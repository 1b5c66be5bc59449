package cache

import (
	"context"
	"testing"
)

func TestNoopSnapshotCacheAlwaysMisses(t *testing.T) {
	c := NoopSnapshotCache{}
	ctx := context.Background()

	if err := c.Set(ctx, []byte("payload")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	payload, ok, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || payload != nil {
		t.Fatalf("noop cache must always miss, got ok=%v payload=%q", ok, payload)
	}
}
