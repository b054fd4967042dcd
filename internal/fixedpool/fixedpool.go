// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fixedpool runs a fixed set of long lived tasks side by side.
package fixedpool

import (
	"context"
	"errors"
	"sync"

	"github.com/z5labs/tinyhttp/internal/try"
)

// Task is one unit of work handed to [Wait].
type Task func(context.Context) error

// Wait starts every task in its own goroutine and blocks until all of them
// return. The first task to fail cancels the context shared by the others.
// Panics are recovered and reported as errors.
func Wait(ctx context.Context, tasks ...Task) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	errCh := make(chan error, len(tasks))

	for _, task := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()

			err := run(ctx, t)
			if err != nil {
				errCh <- err
				cancel(err)
			}
		}(task)
	}

	wg.Wait()
	close(errCh)

	var jerr error
	for err := range errCh {
		jerr = errors.Join(jerr, err)
	}
	return jerr
}

func run(ctx context.Context, t Task) (err error) {
	defer try.Recover(&err)

	return t(ctx)
}
