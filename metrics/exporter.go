// Package metrics exports serialworker events as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/simplely77/serialworker"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// Exporter is a serialworker.Observer backed by Prometheus collectors.
type Exporter struct {
	taskDurationSeconds *prom.HistogramVec
	taskFaultTotal      *prom.CounterVec
	queueDepth          *prom.GaugeVec
	workerState         *prom.GaugeVec
}

var _ serialworker.Observer = (*Exporter)(nil)

var allStates = []serialworker.State{
	serialworker.NotStarted,
	serialworker.Running,
	serialworker.Paused,
	serialworker.Cancelled,
}

// NewExporter creates and registers the collectors. Collectors already
// registered on reg under the same names are reused.
func NewExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*Exporter, error) {
	if namespace == "" {
		namespace = "serialworker"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"worker"})
	faultVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_fault_total",
		Help:      "Total number of tasks that panicked.",
	}, []string{"worker"})
	depthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Number of tasks waiting in the queue.",
	}, []string{"worker"})
	stateVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_state",
		Help:      "1 for the worker's current state, 0 otherwise.",
	}, []string{"worker", "state"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if faultVec, err = registerCollector(reg, faultVec); err != nil {
		return nil, err
	}
	if depthVec, err = registerCollector(reg, depthVec); err != nil {
		return nil, err
	}
	if stateVec, err = registerCollector(reg, stateVec); err != nil {
		return nil, err
	}

	return &Exporter{
		taskDurationSeconds: durationVec,
		taskFaultTotal:      faultVec,
		queueDepth:          depthVec,
		workerState:         stateVec,
	}, nil
}

func (m *Exporter) OnTaskStart(context.Context, serialworker.TaskInfo) {}

func (m *Exporter) OnTaskDone(_ context.Context, info serialworker.TaskInfo, d time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(normalizeLabel(info.Worker)).Observe(d.Seconds())
}

func (m *Exporter) OnTaskFault(_ context.Context, info serialworker.TaskInfo, _ error) {
	if m == nil {
		return
	}
	m.taskFaultTotal.WithLabelValues(normalizeLabel(info.Worker)).Inc()
}

func (m *Exporter) OnStateChange(_ context.Context, worker string, _, to serialworker.State) {
	if m == nil {
		return
	}
	worker = normalizeLabel(worker)
	for _, s := range allStates {
		v := 0.0
		if s == to {
			v = 1
		}
		m.workerState.WithLabelValues(worker, s.String()).Set(v)
	}
}

func (m *Exporter) OnQueueDepth(_ context.Context, worker string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(normalizeLabel(worker)).Set(float64(depth))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
