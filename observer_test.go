package serialworker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu          sync.Mutex
	started     []TaskInfo
	finished    []TaskInfo
	faults      []error
	transitions []string
	depths      []int
}

var _ Observer = &recordingObserver{}

func (o *recordingObserver) OnTaskStart(_ context.Context, info TaskInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, info)
}

func (o *recordingObserver) OnTaskDone(_ context.Context, info TaskInfo, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, info)
}

func (o *recordingObserver) OnTaskFault(_ context.Context, _ TaskInfo, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.faults = append(o.faults, err)
}

func (o *recordingObserver) OnStateChange(_ context.Context, _ string, from, to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, fmt.Sprintf("%s->%s", from, to))
}

func (o *recordingObserver) OnQueueDepth(_ context.Context, _ string, depth int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.depths = append(o.depths, depth)
}

func (o *recordingObserver) faultList() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]error(nil), o.faults...)
}

func (o *recordingObserver) transitionList() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.transitions...)
}

func (o *recordingObserver) finishedList() []TaskInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]TaskInfo(nil), o.finished...)
}

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	var o Observer = NoopObserver{}
	ctx := context.Background()

	o.OnTaskStart(ctx, TaskInfo{})
	o.OnTaskDone(ctx, TaskInfo{}, time.Millisecond)
	o.OnTaskFault(ctx, TaskInfo{}, nil)
	o.OnStateChange(ctx, "w", NotStarted, Running)
	o.OnQueueDepth(ctx, "w", 1)
}

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver(nil)
	_, ok := o.(NoopObserver)
	assert.True(t, ok, "expected NoopObserver, got %T", o)
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &recordingObserver{}
	o := NewCompositeObserver(single, nil)

	got, ok := o.(*recordingObserver)
	require.True(t, ok)
	assert.Same(t, single, got)
}

func TestNewCompositeObserver_FanOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	w := newTestWorker(t, &Config{Name: "fan", Observer: NewCompositeObserver(a, b)})

	done := make(chan struct{})
	id := w.EnqueueNamed("job", func() {})
	w.Enqueue(func() { close(done) })
	waitClosed(t, done, "tasks")

	for _, o := range []*recordingObserver{a, b} {
		require.Eventually(t, func() bool {
			return len(o.finishedList()) == 2
		}, waitTimeout, 5*time.Millisecond)

		first := o.finishedList()[0]
		assert.Equal(t, id, first.ID)
		assert.Equal(t, "job", first.Name)
		assert.Equal(t, "fan", first.Worker)
	}
}
