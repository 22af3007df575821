package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingPipelineHooks struct {
	mu     sync.Mutex
	files  int
	sealed int
}

func (h *countingPipelineHooks) OnFileStart(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files++
}

func (h *countingPipelineHooks) OnFileComplete(context.Context, string, int, time.Duration, error) {
}

func (h *countingPipelineHooks) OnBatchSealed(context.Context, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sealed++
}

func (h *countingPipelineHooks) OnBatchArchived(context.Context, int, string, time.Duration, error) {
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Should not panic.
	ctx := context.Background()
	Pipeline().OnFileStart(ctx, "a.png")
	Pipeline().OnBatchSealed(ctx, 0, 10)
	Cache().OnCacheHit(ctx, "normalize")
	HTTP().OnRequest(ctx, "GET", "/preview")
}

func TestSetPipelineHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	h := &countingPipelineHooks{}
	SetPipelineHooks(h)

	ctx := context.Background()
	Pipeline().OnFileStart(ctx, "a.png")
	Pipeline().OnFileStart(ctx, "b.png")
	Pipeline().OnBatchSealed(ctx, 0, 2)

	if h.files != 2 {
		t.Errorf("files = %d, want 2", h.files)
	}
	if h.sealed != 1 {
		t.Errorf("sealed = %d, want 1", h.sealed)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	h := &countingPipelineHooks{}
	SetPipelineHooks(h)
	SetPipelineHooks(nil)

	Pipeline().OnFileStart(context.Background(), "a.png")
	if h.files != 1 {
		t.Errorf("nil registration should not replace hooks, files = %d", h.files)
	}
}

func TestReset(t *testing.T) {
	h := &countingPipelineHooks{}
	SetPipelineHooks(h)
	Reset()

	Pipeline().OnFileStart(context.Background(), "a.png")
	if h.files != 0 {
		t.Errorf("after Reset custom hooks should not receive events, files = %d", h.files)
	}
}
