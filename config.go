package serialworker

import (
	"context"
	"time"
)

type Config struct {
	// Name 用于日志与监控标签,默认值为 "serialworker"
	Name string
	// ManualStart 为 true 时 New 不会自动启动,需要显式调用 Start
	ManualStart bool
	// Logger 日志记录器,如果没传则默认使用 StdLogger 标准日志记录器
	Logger Logger
	// NewContext 创建新的上下文,如果没传则默认使用 context.Background()
	//  传给 Logger 与 Observer,可用于携带 request_id 或其他元数据
	NewContext func() context.Context
	// Observer 任务与状态事件观察者,默认不做任何事
	Observer Observer
	// FaultPolicy 任务 panic 后的处理策略,默认 FailFast
	FaultPolicy FaultPolicy
	// SegmentSize 队列单个环形分段的容量,默认值为 256,最大值为 1<<20
	SegmentSize uint32
	// ShutdownTimeout Shutdown 等待 worker 退出的超时时间,默认值为 5 秒
	ShutdownTimeout time.Duration
}

// withDefaults returns a copy of conf with zero fields filled in.
func (conf *Config) withDefaults() *Config {
	c := Config{}
	if conf != nil {
		c = *conf
	}

	if c.Name == "" {
		c.Name = "serialworker"
	}
	if c.Logger == nil {
		c.Logger = NewStdLogger(false)
	}
	if c.NewContext == nil {
		c.NewContext = func() context.Context {
			return context.Background()
		}
	}
	if c.Observer == nil {
		c.Observer = NoopObserver{}
	}
	c.SegmentSize = clampSegmentSize(c.SegmentSize)
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	return &c
}
