package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/batch"
	"github.com/ehviewer/ehparse/fs"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	_, name, err := entryPoint(c.Kind)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ehparse.ErrorMessage(err))
		return err
	}

	runner := &batch.Runner{
		Caller:      deps.Caller,
		Name:        name,
		Capacity:    c.Capacity,
		Concurrency: c.Concurrency,
		Grow:        c.Grow,
	}

	results, err := runner.Run(deps.Ctx, c.Files, func(e batch.ProgressEvent) {
		if e.Type == batch.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %v\n", e.Completed, e.Total, batch.TruncatePath(e.Path, 60), e.Error)
		}
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		digest := r.Digest
		if digest == "" {
			digest = "-"
		}
		fmt.Fprintf(deps.Stdout, "%-16s %-16s %s\n", r.Status, digest, r.Path)
	}

	if c.Out != "" {
		if err := saveResults(deps.Ctx, c.Out, results); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ehparse.ErrorMessage(err))
			return err
		}
	}

	s := batch.Summarize(results)
	fmt.Fprintf(deps.Stdout, "\n%d ok (%s), %d not applicable, %d fault, %d too large, %d unreadable\n",
		s.OK, batch.FormatBytes(s.Bytes), s.NotApplicable, s.Fault, s.TooLarge, s.Failed)

	if s.Failed > 0 {
		return fmt.Errorf("%d of %d files could not be parsed", s.Failed, len(results))
	}
	return nil
}

// saveResults writes every successful result into dir and commits them together.
func saveResults(ctx context.Context, dir string, results []batch.Result) error {
	dir = filepath.Clean(dir)
	var store ehparse.ResultStore = fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))
	for _, r := range results {
		if !r.Status.OK() || r.Err != nil {
			continue
		}
		if err := store.Save(ctx, fs.ResultName(r.Position, r.Path), r.Output); err != nil {
			_ = store.Abort()
			return err
		}
	}
	return store.Commit()
}
