package serialworker

// State is the lifecycle state of a Worker.
type State int32

const (
	NotStarted State = iota
	Running
	Paused
	Cancelled
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no transition can leave s.
func (s State) IsTerminal() bool {
	return s == Cancelled
}

// FaultPolicy decides what the worker does after a task panics.
type FaultPolicy int

const (
	// FailFast 任务 panic 后上报错误并终止 worker,Wait 返回该错误
	FailFast FaultPolicy = iota
	// Resilient 任务 panic 后上报错误,丢弃该任务并继续执行后续任务
	Resilient
)

func (p FaultPolicy) String() string {
	if p == Resilient {
		return "resilient"
	}
	return "fail_fast"
}
