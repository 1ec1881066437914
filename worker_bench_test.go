package serialworker

import (
	"testing"
)

// BenchmarkWorker_Enqueue 测试任务提交性能
func BenchmarkWorker_Enqueue(b *testing.B) {
	w, err := New(&Config{Logger: NewNopLogger()})
	if err != nil {
		b.Fatal(err)
	}
	defer w.Shutdown()

	task := func() {}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			w.Enqueue(task)
		}
	})
}

// BenchmarkWorker_EnqueuePaused 测试暂停状态下入队性能(任务只积压不执行)
func BenchmarkWorker_EnqueuePaused(b *testing.B) {
	w, err := New(&Config{Logger: NewNopLogger()})
	if err != nil {
		b.Fatal(err)
	}
	w.Pause()
	defer w.Shutdown()

	task := func() {}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			w.Enqueue(task)
		}
	})
	b.StopTimer()
	// 不停丢弃避免OOM
	w.EmptyQueue()
}
