package runner

import (
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"roundtrip/internal/compare"
	"roundtrip/internal/errors"
	"roundtrip/internal/metrics"
	"roundtrip/internal/parser"
	"roundtrip/internal/unparser"
)

var log = commonlog.GetLogger("roundtrip.runner")

// Options control a corpus run.
type Options struct {
	// Jobs bounds the number of files processed at once. Zero or one runs
	// sequentially.
	Jobs    int
	Include []string
	Exclude []string
	Unparse unparser.Options
	// Compare configures the comparator. Its Unparse options are taken
	// from Unparse.
	Compare compare.Options
	// Metrics, when set, observes every file.
	Metrics *metrics.Collector
	// Debounce is how long Watch waits for changes to settle.
	Debounce time.Duration
}

// Runner drives parse, unparse, reparse and compare over a corpus.
type Runner struct {
	opts       Options
	comparator *compare.Comparator
}

func New(opts Options) *Runner {
	if len(opts.Include) == 0 {
		opts.Include = DefaultInclude
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	opts.Compare.Unparse = opts.Unparse
	return &Runner{opts: opts, comparator: compare.New(opts.Compare)}
}

// Run processes every file under root. Setup failures are returned as a
// HarnessError; per-file failures only ever show up as entries. When ctx
// is cancelled the report covers the files finished so far and has
// Interrupted set.
func (r *Runner) Run(ctx context.Context, root string) (*Report, error) {
	files, err := Discover(root, r.opts.Include, r.opts.Exclude)
	if err != nil {
		return nil, err
	}
	log.Infof("checking %d files under %s", len(files), root)
	return r.RunFiles(ctx, root, files), nil
}

// RunFiles processes the given files and aggregates them into a report.
func (r *Runner) RunFiles(ctx context.Context, root string, files []string) *Report {
	report := &Report{RunID: uuid.NewString(), Root: root, Start: time.Now()}

	results := make(chan Entry)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for e := range results {
			report.add(e)
		}
	}()

	r.dispatch(ctx, files, results)
	close(results)
	<-collected

	report.sort()
	report.End = time.Now()
	if ctx.Err() != nil && len(report.Entries) < len(files) {
		report.Interrupted = true
		log.Warningf("run interrupted after %d of %d files", len(report.Entries), len(files))
		if r.opts.Metrics != nil {
			r.opts.Metrics.Interrupted()
		}
	}
	return report
}

func (r *Runner) dispatch(ctx context.Context, files []string, out chan<- Entry) {
	if r.opts.Jobs <= 1 {
		for _, path := range files {
			if ctx.Err() != nil {
				return
			}
			out <- r.Check(ctx, path)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)
	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			out <- r.Check(gctx, path)
			return nil
		})
	}
	_ = g.Wait()
}

// Check runs the round trip for one file on disk.
func (r *Runner) Check(ctx context.Context, path string) Entry {
	if r.opts.Metrics != nil {
		r.opts.Metrics.Start()
	}
	e := r.check(ctx, path)
	if r.opts.Metrics != nil {
		r.opts.Metrics.Observe(e.Verdict, e.Duration)
	}
	log.Debugf("%s: %s", path, e.Verdict)
	return e
}

func (r *Runner) check(ctx context.Context, path string) Entry {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warningf("skipping %s: %s", path, err)
		return Entry{
			Path:     path,
			Verdict:  compare.ParseFailure,
			Detail:   "cannot read file: " + err.Error(),
			Err:      err,
			Duration: time.Since(start),
		}
	}
	return r.CheckSource(ctx, path, string(data))
}

// CheckSource runs the round trip for source text. Panics anywhere in the
// pipeline are recovered and reported as a crash.
func (r *Runner) CheckSource(ctx context.Context, path, source string) (e Entry) {
	start := time.Now()
	e = Entry{Path: path, Original: source}
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("panic while checking %s: %v\n%s", path, p, debug.Stack())
			e.Verdict = compare.Crash
			e.Detail = fmt.Sprintf("internal error: %v", p)
			e.Err = fmt.Errorf("panic: %v", p)
		}
		e.Duration = time.Since(start)
	}()

	if !utf8.ValidString(source) {
		e.Verdict = compare.ParseFailure
		e.Detail = "source is not valid UTF-8"
		e.Err = &errors.ParseError{Filename: path, Message: e.Detail}
		log.Warningf("skipping %s: %s", path, e.Detail)
		return e
	}

	module, err := parser.ParseSource(path, source)
	if err != nil {
		e.Verdict = compare.ParseFailure
		e.Detail = err.Error()
		e.Err = err
		log.Warningf("skipping %s: %s", path, err)
		return e
	}

	regenerated, err := unparser.New(r.opts.Unparse).Unparse(module)
	if err != nil {
		var unsupported *errors.UnsupportedNodeError
		e.Verdict = compare.Crash
		if goerrors.As(err, &unsupported) {
			e.Verdict = compare.Unsupported
		}
		e.Detail = err.Error()
		e.Err = err
		return e
	}

	res := r.comparator.Compare(ctx, source, module, regenerated)
	e.Verdict = res.Verdict
	e.Regenerated = res.Regenerated
	e.Detail = res.Detail
	e.DivergencePath = res.Path
	e.Position = res.Position
	e.Diff = res.Diff
	e.Err = res.Err
	return e
}
