//
// Tencent is pleased to support the open source community by making trpc-flux-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-flux-go is licensed under the Apache License Version 2.0.
//
//

// Package loadgen drives a dispatcher with batches of actions through a
// fixed-size worker pool. It exercises the store's dispatch serialization
// under concurrent callers.
package loadgen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	itelemetry "trpc.group/trpc-go/trpc-flux-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flux-go/log"
	"trpc.group/trpc-go/trpc-flux-go/store"
)

// ErrNilDispatcher is returned by Run when the dispatch target is nil.
var ErrNilDispatcher = errors.New("dispatcher is nil")

// defaultParallelism is used when New is given a non-positive worker count.
const defaultParallelism = 4

// Driver submits dispatch workloads to a worker pool.
type Driver struct {
	pool *ants.Pool
}

// New creates a Driver with the given number of workers. A non-positive
// count falls back to defaultParallelism.
func New(parallelism int) (*Driver, error) {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	pool, err := ants.NewPool(parallelism)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch worker pool: %w", err)
	}
	return &Driver{pool: pool}, nil
}

// Release shuts the worker pool down.
func (d *Driver) Release() {
	d.pool.Release()
}

// Run dispatches every action to target, one pool task per action, and
// waits for all of them to finish. The first dispatch or submit error is
// returned; remaining actions still run.
func (d *Driver) Run(ctx context.Context, target store.Dispatcher, actions []store.Action) error {
	if target == nil {
		return fmt.Errorf("loadgen: %w", ErrNilDispatcher)
	}
	if len(actions) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(actions))

	for _, action := range actions {
		wg.Add(1)
		err := d.pool.Submit(func() {
			defer wg.Done()
			if err := target.Dispatch(ctx, action); err != nil {
				errCh <- err
			}
		})
		if err != nil {
			wg.Done()
			errCh <- fmt.Errorf("failed to submit dispatch task: %w", err)
		}
	}

	wg.Wait()
	close(errCh)

	itelemetry.RecordLoadgenBatchSize(ctx, int64(len(actions)))
	log.Debugf("loadgen: ran %d action(s)", len(actions))

	if err := <-errCh; err != nil {
		return err
	}
	return nil
}
