package serialworker

import "context"

// Runner is the control surface of a single serial worker.
type Runner interface {
	Enqueue(task Task)
	EnqueueNamed(name string, task Task) TaskID
	Start() error
	Pause()
	Resume() error
	Cancel()
	EmptyQueue()
	PendingCount() int
	IsPaused() bool
	State() State
	Wait(ctx context.Context) error
}

// taskQueue 任务队列,调用方负责加锁
type taskQueue interface {
	// Push 入队
	Push(item taskItem) error
	// Pop 出队,队列为空时返回 false
	Pop() (taskItem, bool)
	Len() int
	// Clear 清空队列,返回被丢弃的任务数
	Clear() int
}

type Logger interface {
	Debug(ctx context.Context, format string, args ...any)
	Info(ctx context.Context, format string, args ...any)
	Warn(ctx context.Context, format string, args ...any)
	Error(ctx context.Context, format string, args ...any)
}
