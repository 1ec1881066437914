package serialworker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Worker executes tasks one at a time, in enqueue order, on a single
// dedicated goroutine.
//
// The queue and the started/paused/cancelled flags are guarded by mu and
// cond. Tasks always run with mu released, so a task may call back into
// its own Worker (Enqueue, Pause, Cancel, ...) without deadlocking.
type Worker struct {
	conf *Config

	mu        sync.Mutex
	cond      *sync.Cond
	queue     taskQueue
	started   bool
	paused    bool
	cancelled bool
	err       error // 任务 panic 导致 worker 退出时的错误

	lastTaskName string
	lastTaskAt   time.Time

	executed atomic.Int64
	faulted  atomic.Int64
	dropped  atomic.Int64

	done     chan struct{}
	doneOnce sync.Once
}

var _ Runner = &Worker{}

// New creates a Worker pre-loaded with initial, in order. Unless
// conf.ManualStart is set the worker goroutine is started before New returns.
func New(conf *Config, initial ...Task) (*Worker, error) {
	conf = conf.withDefaults()

	w := &Worker{
		conf:  conf,
		queue: newSegmentedTaskQueue(conf.SegmentSize),
		done:  make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)

	// goroutine 尚未启动,无需唤醒
	for _, task := range initial {
		if err := w.queue.Push(newTaskItem("", task)); err != nil {
			return nil, err
		}
	}

	if !conf.ManualStart {
		if err := w.Start(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Name returns the configured worker name.
func (w *Worker) Name() string {
	return w.conf.Name
}

func (w *Worker) Enqueue(task Task) {
	w.EnqueueNamed("", task)
}

// EnqueueNamed appends task to the back of the queue. The name only shows up
// in logs, observer events and Stats. Tasks enqueued after Cancel are dropped.
func (w *Worker) EnqueueNamed(name string, task Task) TaskID {
	ctx := w.conf.NewContext()
	item := newTaskItem(name, task)

	w.mu.Lock()
	if w.cancelled {
		w.mu.Unlock()
		w.dropped.Add(1)
		w.conf.Logger.Warn(ctx, "worker %s cancelled, dropping task %s", w.conf.Name, item.id)
		return item.id
	}
	err := w.queue.Push(item)
	depth := w.queue.Len()
	w.cond.Signal()
	w.mu.Unlock()

	if err != nil {
		w.dropped.Add(1)
		w.conf.Logger.Error(ctx, "worker %s enqueue task %s error: %v", w.conf.Name, item.id, err)
		return item.id
	}
	w.conf.Observer.OnQueueDepth(ctx, w.conf.Name, depth)
	return item.id
}

// Start launches the worker goroutine. It fails with ErrInvalidTransition
// if the worker was already started or has been cancelled.
func (w *Worker) Start() error {
	w.mu.Lock()
	if w.cancelled {
		w.mu.Unlock()
		return invalidTransition("start", ErrCancelled)
	}
	if w.started {
		w.mu.Unlock()
		return invalidTransition("start", ErrAlreadyStarted)
	}
	from := w.stateLocked()
	w.started = true
	to := w.stateLocked()
	go w.run()
	w.cond.Signal()
	w.mu.Unlock()

	w.notifyState(from, to)
	w.conf.Logger.Info(w.conf.NewContext(), "worker %s started", w.conf.Name)
	return nil
}

// Pause stops the worker from dequeuing further tasks. The task currently
// executing, if any, runs to completion. Pausing a cancelled worker does nothing.
func (w *Worker) Pause() {
	w.mu.Lock()
	if w.cancelled {
		w.mu.Unlock()
		return
	}
	from := w.stateLocked()
	w.paused = true
	to := w.stateLocked()
	w.cond.Signal()
	w.mu.Unlock()

	w.notifyState(from, to)
}

func (w *Worker) Resume() error {
	w.mu.Lock()
	if w.cancelled {
		w.mu.Unlock()
		return invalidTransition("resume", ErrCancelled)
	}
	from := w.stateLocked()
	w.paused = false
	to := w.stateLocked()
	w.cond.Signal()
	w.mu.Unlock()

	w.notifyState(from, to)
	return nil
}

// Cancel permanently stops the worker. Cancellation is observed before the
// next dequeue; a running task is never interrupted. Pending tasks stay in
// the queue but will never run.
func (w *Worker) Cancel() {
	w.mu.Lock()
	if w.cancelled {
		w.mu.Unlock()
		return
	}
	from := w.stateLocked()
	w.cancelled = true
	started := w.started
	w.cond.Signal()
	w.mu.Unlock()

	if !started {
		// 没有 goroutine 会关闭 done
		w.closeDone()
	}
	w.notifyState(from, Cancelled)
	w.conf.Logger.Info(w.conf.NewContext(), "worker %s cancelled", w.conf.Name)
}

// EmptyQueue discards every pending task. A task already handed to the
// worker goroutine is not affected.
func (w *Worker) EmptyQueue() {
	w.mu.Lock()
	n := w.queue.Clear()
	w.cond.Signal()
	w.mu.Unlock()

	w.dropped.Add(int64(n))
	ctx := w.conf.NewContext()
	w.conf.Logger.Info(ctx, "worker %s queue emptied, %d tasks discarded", w.conf.Name, n)
	w.conf.Observer.OnQueueDepth(ctx, w.conf.Name, 0)
}

// PendingCount is advisory: the value may be stale as soon as it returns.
func (w *Worker) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.Len()
}

// IsPaused is advisory: the value may be stale as soon as it returns.
func (w *Worker) IsPaused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paused
}

func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Worker) stateLocked() State {
	switch {
	case w.cancelled:
		return Cancelled
	case !w.started:
		return NotStarted
	case w.paused:
		return Paused
	default:
		return Running
	}
}

// Done is closed once the worker goroutine has exited, or immediately on
// Cancel if the worker was never started.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the worker goroutine exits or ctx is done. It returns
// the *TaskPanicError that terminated a FailFast worker, nil after a plain
// Cancel, or ctx's error.
func (w *Worker) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.err
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

// Shutdown cancels the worker and waits up to ShutdownTimeout for the
// current task to finish.
func (w *Worker) Shutdown() error {
	w.Cancel()

	ctx, cancel := context.WithTimeout(w.conf.NewContext(), w.conf.ShutdownTimeout)
	defer cancel()

	err := w.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		w.conf.Logger.Warn(ctx, "worker %s graceful shutdown timeout after %v", w.conf.Name, w.conf.ShutdownTimeout)
		return errors.WithStack(ErrShutdownTimeout)
	}
	return err
}

func (w *Worker) run() {
	defer w.closeDone()

	for {
		item, depth, ok := w.next()
		if !ok {
			w.conf.Logger.Debug(w.conf.NewContext(), "worker %s exited", w.conf.Name)
			return
		}

		ctx := w.conf.NewContext()
		w.conf.Observer.OnQueueDepth(ctx, w.conf.Name, depth)

		err := w.execute(ctx, item)
		if err != nil && w.conf.FaultPolicy == FailFast {
			w.fail(ctx, err)
			return
		}
	}
}

// next blocks until a task may run and removes it from the queue. It
// returns false once the worker is cancelled.
func (w *Worker) next() (taskItem, int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for {
		for (w.queue.Len() == 0 || w.paused) && !w.cancelled {
			w.cond.Wait()
		}
		if w.cancelled {
			return taskItem{}, 0, false
		}

		item, ok := w.queue.Pop()
		if !ok {
			continue
		}
		w.lastTaskName = item.name
		w.lastTaskAt = time.Now()
		return item, w.queue.Len(), true
	}
}

// execute runs item with the lock released. A panic is recovered into a
// *TaskPanicError and reported.
func (w *Worker) execute(ctx context.Context, item taskItem) (err error) {
	info := item.info(w.conf.Name)
	w.conf.Observer.OnTaskStart(ctx, info)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			perr := newTaskPanicError(item, r)
			w.faulted.Add(1)
			w.conf.Logger.Error(ctx, "worker %s task %s panicked: %+v", w.conf.Name, item.id, perr)
			w.conf.Observer.OnTaskFault(ctx, info, perr)
			err = perr
			return
		}
		w.executed.Add(1)
		w.conf.Observer.OnTaskDone(ctx, info, time.Since(start))
	}()

	item.task()
	return nil
}

// fail terminates the worker after a task fault under FailFast.
func (w *Worker) fail(ctx context.Context, err error) {
	w.mu.Lock()
	from := w.stateLocked()
	w.cancelled = true
	w.err = err
	w.mu.Unlock()

	if from != Cancelled {
		w.notifyState(from, Cancelled)
	}
	w.conf.Logger.Warn(ctx, "worker %s stopped after task fault", w.conf.Name)
}

func (w *Worker) closeDone() {
	w.doneOnce.Do(func() {
		close(w.done)
	})
}

func (w *Worker) notifyState(from, to State) {
	if from == to {
		return
	}
	ctx := w.conf.NewContext()
	w.conf.Logger.Debug(ctx, "worker %s state %s -> %s", w.conf.Name, from, to)
	w.conf.Observer.OnStateChange(ctx, w.conf.Name, from, to)
}
