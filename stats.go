package serialworker

import "time"

// Stats is an advisory snapshot of a Worker.
type Stats struct {
	Name         string
	State        State
	Pending      int
	Executed     int64
	Faulted      int64
	Dropped      int64
	LastTaskName string
	LastTaskAt   time.Time
}

func (w *Worker) Stats() Stats {
	w.mu.Lock()
	s := Stats{
		Name:         w.conf.Name,
		State:        w.stateLocked(),
		Pending:      w.queue.Len(),
		LastTaskName: w.lastTaskName,
		LastTaskAt:   w.lastTaskAt,
	}
	w.mu.Unlock()

	s.Executed = w.executed.Load()
	s.Faulted = w.faulted.Load()
	s.Dropped = w.dropped.Load()
	return s
}
