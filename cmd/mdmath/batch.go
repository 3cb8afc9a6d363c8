package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/log"
	"github.com/alnah/go-mdmath/internal/pipeline"
	"github.com/reconquest/karma-go"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FragmentRenderer renders markdown with math into a fragment.
type FragmentRenderer interface {
	Render(ctx context.Context, input string) (mdmath.Fragment, error)
}

// Compile-time interface implementation check.
var _ FragmentRenderer = (*mdmath.Renderer)(nil)

// RenderResult holds the outcome of a single file.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	// Fallback is set when rendering failed but the escaped source was written.
	Fallback error
	Duration time.Duration
}

// renderBatch processes files concurrently, one presenter per worker.
func renderBatch(ctx context.Context, pool Pool, files []FileToRender, renderer FragmentRenderer) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			presenter := pool.Acquire()
			if presenter == nil {
				for idx := range jobs {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ErrPresenterInit,
					}
				}
				return
			}
			defer pool.Release(presenter)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, renderer, presenter, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders and presents a single file and writes the result.
func renderFile(ctx context.Context, renderer FragmentRenderer, presenter Presenter, f FileToRender) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}

	frag, err := renderer.Render(ctx, string(content))
	if err != nil {
		var renderErr *mdmath.RenderError
		if frag == "" || !errors.As(err, &renderErr) {
			return done(err)
		}
		result.Fallback = err
	}

	rebased, err := pipeline.RebasePaths(string(frag), filepath.Dir(f.InputPath), filepath.Dir(f.OutputPath))
	if err != nil {
		return done(fmt.Errorf("rewriting relative paths: %w", err))
	}
	frag = mdmath.Fragment(rebased)

	out, err := presenter.Present(ctx, frag)
	if err != nil {
		return done(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("creating output directory: %w", err))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(out), filePermissions); err != nil {
		return done(fmt.Errorf("%w: %w", ErrWriteHTML, err))
	}

	log.Tracef(
		karma.Describe("input", f.InputPath).
			Describe("output", f.OutputPath).
			Describe("bytes", len(out)),
		"file written",
	)
	return done(nil)
}

// ResultSummary holds the count of succeeded, fallback and failed files.
type ResultSummary struct {
	Succeeded int
	Fallbacks int
	Failed    int
}

// countResults tallies the results. Fallbacks also count as succeeded.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Fallback != nil:
			summary.Fallbacks++
			summary.Succeeded++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the first failure, in input order.
func firstError(results []RenderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResultsWithWriter outputs results using the provided writers and
// returns the number of failures.
func printResultsWithWriter(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if r.Fallback != nil {
			fmt.Fprintf(env.Stderr, "FALLBACK %s: %v%s\n", r.InputPath, r.Fallback, hintFor(r.Fallback))
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded (%d fallback), %d failed\n",
			summary.Succeeded, summary.Fallbacks, summary.Failed)
	}

	return summary.Failed
}
