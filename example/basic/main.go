package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "go.uber.org/automaxprocs"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/simplely77/serialworker"
	"github.com/simplely77/serialworker/metrics"
)

type requestIDKey struct{}

func main() {
	exporter, err := metrics.NewExporter("example", prom.NewRegistry(), metrics.ExporterOptions{})
	if err != nil {
		log.Fatal(err)
	}

	w, err := serialworker.New(&serialworker.Config{
		Name:        "example",
		ManualStart: true,
		Logger:      serialworker.NewStdLogger(true),
		NewContext: func() context.Context {
			return context.WithValue(context.Background(), requestIDKey{}, "example")
		},
		Observer:    exporter,
		FaultPolicy: serialworker.Resilient,
	},
		func() { fmt.Println("preloaded task 1") },
		func() { fmt.Println("preloaded task 2") },
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("pending before start: %d\n", w.PendingCount())

	if err := w.Start(); err != nil {
		log.Fatal(err)
	}

	resumed := make(chan struct{})
	w.EnqueueNamed("pause-self", func() {
		fmt.Println("pausing from inside a task")
		w.Pause()
	})
	w.EnqueueNamed("after-resume", func() {
		fmt.Println("runs after resume")
		close(resumed)
	})

	time.Sleep(100 * time.Millisecond)
	fmt.Printf("paused=%v pending=%d\n", w.IsPaused(), w.PendingCount())
	if err := w.Resume(); err != nil {
		log.Fatal(err)
	}
	<-resumed

	w.EnqueueNamed("panics", func() { panic("recovered by the worker") })
	w.EnqueueNamed("cancel-self", func() {
		fmt.Println("cancelling from inside a task")
		w.Cancel()
	})
	w.EnqueueNamed("never-runs", func() { fmt.Println("unreachable") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Wait(ctx); err != nil {
		log.Fatal(err)
	}

	s := w.Stats()
	fmt.Printf("state=%s executed=%d faulted=%d pending=%d\n", s.State, s.Executed, s.Faulted, s.Pending)
}
