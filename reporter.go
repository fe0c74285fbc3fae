package keepalive

import (
	"context"
	"errors"
	"fmt"
)

// Reporter receives the outcome of every step of a cycle.
type Reporter interface {
	Type() string
	WriteCycle(ctx context.Context, cycle Cycle) error
	WriteHeartbeat(ctx context.Context, cycle Cycle, result HeartbeatResult) error
	WriteWarmup(ctx context.Context, cycle Cycle, result WarmupResult) error
}

type MultiReporter []Reporter

func (this MultiReporter) Type() string {
	return "multi"
}

func (this MultiReporter) WriteCycle(ctx context.Context, cycle Cycle) error {
	return this.each(func(reporter Reporter) error {
		return reporter.WriteCycle(ctx, cycle)
	})
}

func (this MultiReporter) WriteHeartbeat(ctx context.Context, cycle Cycle, result HeartbeatResult) error {
	return this.each(func(reporter Reporter) error {
		return reporter.WriteHeartbeat(ctx, cycle, result)
	})
}

func (this MultiReporter) WriteWarmup(ctx context.Context, cycle Cycle, result WarmupResult) error {
	return this.each(func(reporter Reporter) error {
		return reporter.WriteWarmup(ctx, cycle, result)
	})
}

func (this MultiReporter) each(fn func(reporter Reporter) error) error {

	var errs []error

	for _, reporter := range this {
		if err := fn(reporter); err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", reporter.Type(), err))
		}
	}

	return errors.Join(errs...)
}
