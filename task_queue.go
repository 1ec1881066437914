package serialworker

import (
	"github.com/pkg/errors"

	"github.com/hedzr/go-ringbuf/v2"
	"github.com/hedzr/go-ringbuf/v2/mpmc"
)

const (
	defaultSegmentSize = 256
	// maxSegmentSize 环形缓冲区容量会向上取整到 2 的幂,过大会溢出
	maxSegmentSize = 1 << 20
)

// segmentedTaskQueue 无界 FIFO 队列,由若干定长环形缓冲区串联而成。
// 不自带锁,所有访问都必须持有 Worker 的锁。
//
// 环形缓冲区出队时不会清空槽位,所以槽位里存放指针,出队后清空指向的
// taskItem,已执行任务的闭包不会被队列继续引用。
type segmentedTaskQueue struct {
	segments    []mpmc.RingBuffer[*taskItem]
	segmentSize uint32
	length      int
}

var _ taskQueue = &segmentedTaskQueue{}

func newSegmentedTaskQueue(segmentSize uint32) *segmentedTaskQueue {
	return &segmentedTaskQueue{
		segmentSize: clampSegmentSize(segmentSize),
	}
}

func clampSegmentSize(size uint32) uint32 {
	switch {
	case size == 0:
		return defaultSegmentSize
	case size > maxSegmentSize:
		return maxSegmentSize
	default:
		return size
	}
}

func (q *segmentedTaskQueue) grow() mpmc.RingBuffer[*taskItem] {
	// 环形缓冲区总会空出一个槽位
	seg := ringbuf.New[*taskItem](q.segmentSize + 1)
	q.segments = append(q.segments, seg)
	return seg
}

func (q *segmentedTaskQueue) Push(item taskItem) error {
	var tail mpmc.RingBuffer[*taskItem]
	if n := len(q.segments); n > 0 {
		tail = q.segments[n-1]
	} else {
		tail = q.grow()
	}

	p := &item
	err := tail.Enqueue(p)
	if errors.Is(err, mpmc.ErrQueueFull) {
		err = q.grow().Enqueue(p)
	}
	if err != nil {
		return errors.WithStack(err)
	}
	q.length++
	return nil
}

func (q *segmentedTaskQueue) Pop() (taskItem, bool) {
	for len(q.segments) > 0 {
		p, err := q.segments[0].Dequeue()
		if err == nil {
			q.length--
			item := *p
			*p = taskItem{}
			return item, true
		}
		if !errors.Is(err, mpmc.ErrQueueEmpty) || len(q.segments) == 1 {
			// 最后一个分段保留复用
			return taskItem{}, false
		}
		// 头部分段已耗尽,后续分段才会有数据
		q.segments[0] = nil
		q.segments = q.segments[1:]
	}
	return taskItem{}, false
}

func (q *segmentedTaskQueue) Len() int {
	return q.length
}

func (q *segmentedTaskQueue) Clear() int {
	n := q.length
	q.segments = nil
	q.length = 0
	return n
}
