// Package batch runs one entry point over many saved pages concurrently.
// It reads each page, performs the boundary call through an ehparse.Caller
// and reports ordered results with a digest of each output.
package batch

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/ehviewer/ehparse"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is used when Runner.Concurrency is not positive.
	DefaultConcurrency = 8

	// DefaultHeadroom is added to the input length when Runner.Capacity is
	// not positive.
	DefaultHeadroom = 64 * 1024

	// MaxCapacity bounds the buffer growth after a too-large status.
	MaxCapacity = 64 * 1024 * 1024
)

// Runner performs the same boundary call over a list of files.
type Runner struct {
	Caller      ehparse.Caller
	Name        string
	Capacity    int
	Concurrency int

	// Grow retries a too-large call with a doubled buffer up to MaxCapacity.
	Grow bool

	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Result is the outcome of one file.
type Result struct {
	Position int
	Path     string
	Status   ehparse.Status
	Capacity int
	Output   []byte
	Digest   string
	Err      error
}

// Summary counts results by status.
type Summary struct {
	OK            int
	NotApplicable int
	Fault         int
	TooLarge      int
	Failed        int
	Bytes         int
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Status    ehparse.Status
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Run calls the entry point for every path and returns the results in the
// order of paths. A failure on one file never stops the others; the returned
// error is only set when ctx ends the run early.
func (r *Runner) Run(ctx context.Context, paths []string, progress ProgressFunc) ([]Result, error) {
	if r.Caller == nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "batch runner requires a caller")
	}
	if r.Name == "" {
		return nil, ehparse.Errorf(ehparse.EINVALID, "batch runner requires an entry point name")
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan Result, len(paths))

	var completed atomic.Int64
	total := len(paths)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				resultCh <- r.process(gctx, i, path)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]Result, len(paths))
	for result := range resultCh {
		completed.Add(1)
		results[result.Position] = result

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			Path:      result.Path,
			Status:    result.Status,
		}
		if result.Err != nil {
			event.Type = ProgressFailed
			event.Error = result.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return results, ctx.Err()
}

func (r *Runner) process(ctx context.Context, position int, path string) Result {
	result := Result{Position: position, Path: path, Status: ehparse.StatusFault}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	readFile := r.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	input, err := readFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	capacity := r.Capacity
	if capacity <= 0 {
		capacity = len(input) + DefaultHeadroom
	}
	capacity = max(capacity, len(input))

	for {
		status, out, err := r.Caller.Call(ctx, r.Name, input, capacity)
		result.Status = status
		result.Capacity = capacity
		if err != nil {
			result.Err = err
			return result
		}
		if status == ehparse.StatusTooLarge && r.Grow && capacity < MaxCapacity {
			capacity = min(max(capacity*2, 1), MaxCapacity)
			continue
		}
		if status.OK() {
			result.Output = out
			result.Digest = ComputeHash(out)
		}
		return result
	}
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Status.OK():
			s.OK++
			s.Bytes += len(r.Output)
		case r.Status == ehparse.StatusNotApplicable:
			s.NotApplicable++
		case r.Status == ehparse.StatusTooLarge:
			s.TooLarge++
		default:
			s.Fault++
		}
	}
	return s
}
