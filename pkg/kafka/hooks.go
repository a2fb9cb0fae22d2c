package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling. OnError fires once per failed attempt.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, km kafka.Message) context.Context
	AfterHandle(ctx context.Context, km kafka.Message, err error)
	OnError(ctx context.Context, km kafka.Message, attempt int, err error)
}

// NoopHook is a default hook that does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, km kafka.Message) context.Context { return ctx }

func (NoopHook) AfterHandle(ctx context.Context, km kafka.Message, err error) {}

func (NoopHook) OnError(ctx context.Context, km kafka.Message, attempt int, err error) {}

// HookFuncs is an adapter that implements ConsumerHook from plain functions.
// All functions are optional; nil functions are treated as no-ops.
type HookFuncs struct {
	Before func(context.Context, kafka.Message) context.Context
	After  func(context.Context, kafka.Message, error)
	Err    func(context.Context, kafka.Message, int, error)
}

func (h HookFuncs) BeforeHandle(ctx context.Context, km kafka.Message) context.Context {
	if h.Before == nil {
		return ctx
	}
	return h.Before(ctx, km)
}

func (h HookFuncs) AfterHandle(ctx context.Context, km kafka.Message, err error) {
	if h.After != nil {
		h.After(ctx, km, err)
	}
}

func (h HookFuncs) OnError(ctx context.Context, km kafka.Message, attempt int, err error) {
	if h.Err != nil {
		h.Err(ctx, km, attempt, err)
	}
}

// safeCall runs a hook callback and swallows panics so hooks cannot crash a worker.
func safeCall(f func()) {
	defer func() { _ = recover() }()
	f()
}
