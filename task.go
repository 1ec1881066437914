package serialworker

import (
	"github.com/google/uuid"
)

// Task is a unit of work executed on the worker goroutine.
type Task func()

// TaskID identifies one accepted task.
type TaskID string

// TaskInfo describes a task to observers.
type TaskInfo struct {
	ID     TaskID
	Name   string
	Worker string
}

type taskItem struct {
	id   TaskID
	name string
	task Task
}

func newTaskItem(name string, task Task) taskItem {
	return taskItem{
		id:   TaskID(uuid.New().String()),
		name: name,
		task: task,
	}
}

func (t taskItem) info(worker string) TaskInfo {
	return TaskInfo{ID: t.id, Name: t.name, Worker: worker}
}
