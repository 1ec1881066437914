package serialworker

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTaskPanicError_Format(t *testing.T) {
	item := taskItem{id: "id-1", name: "job"}
	err := newTaskPanicError(item, "boom")

	assert.Equal(t, "task job (id-1) panicked: boom", err.Error())
	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))
	assert.Contains(t, fmt.Sprintf("%+v", err), "panic recovered: boom")
	assert.Contains(t, fmt.Sprintf("%+v", err), "newTaskPanicError")
}

func TestTaskPanicError_UnwrapsErrorValue(t *testing.T) {
	cause := errors.New("root cause")
	err := newTaskPanicError(taskItem{id: "id-2"}, cause)

	assert.Equal(t, "task id-2 panicked: root cause", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestInvalidTransition_MatchesBothSentinels(t *testing.T) {
	err := invalidTransition("start", ErrAlreadyStarted)

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.True(t, errors.Is(err, ErrAlreadyStarted))
	assert.False(t, errors.Is(err, ErrCancelled))
	assert.Contains(t, err.Error(), "start")
}
