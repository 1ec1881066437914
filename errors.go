package serialworker

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidTransition 非法的状态迁移,Start/Resume 被误用时返回此错误
	ErrInvalidTransition = errors.New("invalid worker state transition")
	// ErrAlreadyStarted Start 被调用第二次
	ErrAlreadyStarted = errors.New("worker already started")
	// ErrCancelled worker 已被取消,无法再次运行
	ErrCancelled = errors.New("worker cancelled")
	// ErrShutdownTimeout Shutdown 在 ShutdownTimeout 内未等到 worker 退出
	ErrShutdownTimeout = errors.New("graceful shutdown timeout")
)

// transitionError marks cause as an invalid transition while keeping cause
// reachable through errors.Is.
type transitionError struct {
	op    string
	cause error
}

func (e *transitionError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.op, ErrInvalidTransition, e.cause)
}

func (e *transitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func (e *transitionError) Unwrap() error {
	return e.cause
}

func invalidTransition(op string, cause error) error {
	return errors.WithStack(&transitionError{op: op, cause: cause})
}

// TaskPanicError is reported when a task panics on the worker goroutine.
type TaskPanicError struct {
	TaskID TaskID
	Name   string
	Value  any

	cause error
}

func newTaskPanicError(item taskItem, r any) *TaskPanicError {
	var cause error
	if e, ok := r.(error); ok {
		cause = errors.WithStack(e)
	} else {
		cause = errors.Errorf("panic recovered: %v", r)
	}
	return &TaskPanicError{
		TaskID: item.id,
		Name:   item.name,
		Value:  r,
		cause:  cause,
	}
}

func (e *TaskPanicError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("task %s (%s) panicked: %v", e.Name, e.TaskID, e.Value)
	}
	return fmt.Sprintf("task %s panicked: %v", e.TaskID, e.Value)
}

func (e *TaskPanicError) Unwrap() error {
	return e.cause
}

// Format prints the recovery stack with %+v.
func (e *TaskPanicError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", e.Error(), e.cause)
		return
	}
	fmt.Fprint(s, e.Error())
}
