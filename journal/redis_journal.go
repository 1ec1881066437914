// Package journal keeps a capped history of executed tasks in Redis.
package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/simplely77/serialworker"
)

const (
	StatusDone  = "done"
	StatusFault = "fault"

	defaultKey   = "serialworker:journal"
	defaultLimit = 1000
)

// Record is one finished task.
type Record struct {
	TaskID     string        `json:"task_id"`
	Name       string        `json:"name,omitempty"`
	Worker     string        `json:"worker"`
	Status     string        `json:"status"`
	Duration   time.Duration `json:"duration,omitempty"`
	Error      string        `json:"error,omitempty"`
	FinishedAt time.Time     `json:"finished_at"`
}

type Options struct {
	// Key Redis list 的键,默认值为 "serialworker:journal"
	Key string
	// Limit 保留的最大记录数,默认值为 1000
	Limit int64
	// Logger 写入失败时记录日志,默认不输出
	Logger serialworker.Logger
}

// RedisJournal is a serialworker.Observer that appends a Record for every
// finished or faulted task to a capped Redis list, newest first.
//
// Writes happen on the worker goroutine; a Redis failure is logged and never
// reaches the worker.
type RedisJournal struct {
	serialworker.NoopObserver

	rdb    redis.UniversalClient
	key    string
	limit  int64
	logger serialworker.Logger
}

var _ serialworker.Observer = &RedisJournal{}

func NewRedisJournal(rdb redis.UniversalClient, opts Options) *RedisJournal {
	if opts.Key == "" {
		opts.Key = defaultKey
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = serialworker.NewNopLogger()
	}
	return &RedisJournal{
		rdb:    rdb,
		key:    opts.Key,
		limit:  opts.Limit,
		logger: opts.Logger,
	}
}

func (j *RedisJournal) OnTaskDone(ctx context.Context, info serialworker.TaskInfo, d time.Duration) {
	j.record(ctx, Record{
		TaskID:     string(info.ID),
		Name:       info.Name,
		Worker:     info.Worker,
		Status:     StatusDone,
		Duration:   d,
		FinishedAt: time.Now(),
	})
}

func (j *RedisJournal) OnTaskFault(ctx context.Context, info serialworker.TaskInfo, err error) {
	rec := Record{
		TaskID:     string(info.ID),
		Name:       info.Name,
		Worker:     info.Worker,
		Status:     StatusFault,
		FinishedAt: time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	j.record(ctx, rec)
}

func (j *RedisJournal) record(ctx context.Context, rec Record) {
	if err := j.Append(ctx, rec); err != nil {
		j.logger.Warn(ctx, "journal append task %s error: %v", rec.TaskID, err)
	}
}

// Append pushes rec and trims the list to the configured limit.
func (j *RedisJournal) Append(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = j.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, j.key, data)
		pipe.LTrim(ctx, j.key, 0, j.limit-1)
		return nil
	})
	return errors.WithStack(err)
}

// Recent returns up to n records, newest first.
func (j *RedisJournal) Recent(ctx context.Context, n int64) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := j.rdb.LRange(ctx, j.key, 0, n-1).Result()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, errors.WithStack(err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Len returns the number of stored records.
func (j *RedisJournal) Len(ctx context.Context) (int64, error) {
	n, err := j.rdb.LLen(ctx, j.key).Result()
	return n, errors.WithStack(err)
}

// Reset deletes every stored record.
func (j *RedisJournal) Reset(ctx context.Context) error {
	return errors.WithStack(j.rdb.Del(ctx, j.key).Err())
}
