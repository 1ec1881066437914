// Package serialworker runs submitted tasks strictly in FIFO order on one
// dedicated goroutine.
//
// Any number of goroutines may Enqueue tasks concurrently; tasks run one at
// a time in the order their Enqueue calls completed. A Worker can be paused
// and resumed, and cancelled for good. Tasks run without the worker lock
// held, so a task may pause, cancel or enqueue onto its own Worker.
//
//	w, err := serialworker.New(&serialworker.Config{Name: "io"})
//	if err != nil {
//		return err
//	}
//	w.Enqueue(func() { fmt.Println("first") })
//	w.Enqueue(func() { fmt.Println("second") })
//	...
//	err = w.Shutdown()
//
// A task that panics is recovered. Under FailFast (the default) the worker
// stops and Wait returns a *TaskPanicError; under Resilient the fault is
// reported to the Logger and Observer and the next task runs.
package serialworker
