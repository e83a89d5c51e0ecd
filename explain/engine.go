package explain

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codexplain/codexplain/analyzer"
	"github.com/codexplain/codexplain/cache"
	"github.com/codexplain/codexplain/providers/contracts"
	"github.com/codexplain/codexplain/tokens"
)

// Explanation modes. Architecture and onboarding are codebase-level modes
// driven by RunCodebase; summary is the internal phase-1 variant.
const (
	ModeExplain      = "explain"
	ModeSummary      = "summary"
	ModeArchitecture = "architecture"
	ModeOnboarding   = "onboarding"
)

const (
	// DefaultConcurrency bounds simultaneous provider calls per batch.
	DefaultConcurrency = 3
	// MaxConcurrency is the hard ceiling regardless of configuration.
	MaxConcurrency = 10
	// DefaultAttempts is the retry budget after the initial provider call.
	DefaultAttempts = 3
	// DefaultDelay is the base backoff delay; it doubles per failure.
	DefaultDelay = time.Second

	// gcHintBatches triggers a collection hint every few batches, keeping
	// peak memory bounded on large projects after contents are released.
	gcHintBatches = 4
)

// IsCodebaseMode reports whether a mode explains the whole project rather
// than individual files.
func IsCodebaseMode(mode string) bool {
	return mode == ModeArchitecture || mode == ModeOnboarding
}

// Prompter builds the (system, user) message pair for one file. The
// concrete implementation lives in the prompts package.
type Prompter interface {
	Build(fd *analyzer.FileDescriptor, mode string, level string) (system string, user string, err error)
}

// Options configures one Engine. Values are normalized by NewEngine.
type Options struct {
	Mode        string
	Level       string
	Concurrency int
	Attempts    int
	Delay       time.Duration
}

// Result is one output slot. A file whose retries were exhausted still
// yields a Result: Explanation carries a human-readable error text and Err
// the underlying cause. The run itself never aborts for one file.
type Result struct {
	File        *analyzer.FileDescriptor
	Explanation string
	Cached      bool
	Err         error
}

// ProgressFunc is invoked exactly once per file when its task settles,
// success or failure. Calls from tasks within a batch may arrive in any
// order; completed is cumulative across batches.
type ProgressFunc func(identifier string, completed, total int, percent float64, cached bool)

// Engine is the concurrent, retrying, cache-aware explanation scheduler.
type Engine struct {
	provider contracts.ChatProvider
	cache    *cache.Cache
	prompter Prompter
	opts     Options
}

// NewEngine creates an Engine. A nil cache disables caching entirely.
func NewEngine(provider contracts.ChatProvider, fileCache *cache.Cache, prompter Prompter, opts Options) *Engine {
	if opts.Mode == "" {
		opts.Mode = ModeExplain
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Concurrency > MaxConcurrency {
		opts.Concurrency = MaxConcurrency
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	return &Engine{
		provider: provider,
		cache:    fileCache,
		prompter: prompter,
		opts:     opts,
	}
}

// Run explains every file and returns one Result per input descriptor, in
// input order, plus the run's token usage.
func (e *Engine) Run(ctx context.Context, files []*analyzer.FileDescriptor, onProgress ProgressFunc) ([]Result, tokens.RunUsage) {
	accountant := tokens.NewAccountant()
	results := e.run(ctx, files, e.opts.Mode, accountant, onProgress)
	return results, accountant.Snapshot()
}

// RunOne explains a single file.
func (e *Engine) RunOne(ctx context.Context, fd *analyzer.FileDescriptor) (Result, tokens.RunUsage) {
	accountant := tokens.NewAccountant()
	result := e.processFile(ctx, fd, e.opts.Mode, accountant)
	return result, accountant.Snapshot()
}

// run partitions files into consecutive batches of the configured
// concurrency and awaits each whole batch before starting the next. The
// batch barrier is a deliberate backpressure choice: at most Concurrency
// provider calls are ever in flight. Tasks capture their own outcome into
// their result slot and always return nil, so one failure never cancels
// its siblings.
func (e *Engine) run(ctx context.Context, files []*analyzer.FileDescriptor, mode string, accountant *tokens.Accountant, onProgress ProgressFunc) []Result {
	results := make([]Result, len(files))
	total := len(files)
	var completed atomic.Int64

	batches := 0
	for start := 0; start < len(files); start += e.opts.Concurrency {
		end := min(start+e.opts.Concurrency, len(files))

		var group errgroup.Group
		for i := start; i < end; i++ {
			i := i
			group.Go(func() error {
				result := e.processFile(ctx, files[i], mode, accountant)
				results[i] = result

				done := int(completed.Add(1))
				if onProgress != nil {
					onProgress(files[i].RelativePath, done, total, float64(done)/float64(total)*100, result.Cached)
				}
				return nil
			})
		}
		_ = group.Wait()

		batches++
		if batches%gcHintBatches == 0 {
			runtime.GC()
		}
	}

	return results
}

// processFile drives one file through cache lookup, prompt construction,
// the retried provider call, accounting, and the cache write. mode is a
// per-call parameter rather than shared engine state so the summary
// sub-pass cannot leak its override into concurrent tasks.
func (e *Engine) processFile(ctx context.Context, fd *analyzer.FileDescriptor, mode string, accountant *tokens.Accountant) Result {
	// The content buffer is released once the file settles, success or
	// failure, so peak memory stays independent of project size.
	defer func() { fd.Content = "" }()

	keyCfg := e.keyConfig(mode)
	if e.cache != nil {
		if explanation, ok := e.cache.Lookup(fd.Path, keyCfg); ok {
			accountant.RecordCacheHit()
			return Result{File: fd, Explanation: explanation, Cached: true}
		}
	}

	system, user, err := e.prompter.Build(fd, mode, e.opts.Level)
	if err != nil {
		return Result{File: fd, Explanation: failureText(fd, err), Err: err}
	}
	messages := []contracts.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	completion, err := retryWithBackoff(ctx, e.opts.Attempts, e.opts.Delay, func() (*contracts.Completion, error) {
		return e.provider.Complete(ctx, messages)
	})
	if err != nil {
		return Result{File: fd, Explanation: failureText(fd, err), Err: err}
	}

	input, output, totalTokens := tokens.ResolveCounts(completion, e.provider, system+user)
	accountant.RecordCompletion(input, output, totalTokens)

	if e.cache != nil {
		e.cache.Store(fd.Path, keyCfg, completion.Content)
	}
	return Result{File: fd, Explanation: completion.Content}
}

func (e *Engine) keyConfig(mode string) cache.KeyConfig {
	return cache.KeyConfig{
		Mode:     mode,
		Level:    e.opts.Level,
		Provider: e.provider.Name(),
		Model:    e.provider.Model(),
	}
}

func failureText(fd *analyzer.FileDescriptor, err error) string {
	return fmt.Sprintf("Explanation unavailable for %s: %v", fd.RelativePath, err)
}
