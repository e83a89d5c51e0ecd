package tokens

import "sync"

// RunUsage aggregates token counters for exactly one scheduler run.
type RunUsage struct {
	InputTokens    int
	OutputTokens   int
	TotalTokens    int
	CachedFiles    int
	ProcessedFiles int
}

// Accountant accumulates RunUsage. One Accountant is created per run and
// never shared across runs, so repeated or concurrent runs cannot
// cross-contaminate counts. It is mutex-guarded because tasks inside a
// batch record concurrently.
type Accountant struct {
	mutex sync.Mutex
	usage RunUsage
}

// NewAccountant creates a zeroed accountant for one run.
func NewAccountant() *Accountant {
	return &Accountant{}
}

// RecordCacheHit counts a file served from the fingerprint cache.
func (a *Accountant) RecordCacheHit() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.usage.CachedFiles++
}

// RecordCompletion counts a freshly processed file and its token usage.
func (a *Accountant) RecordCompletion(inputTokens, outputTokens, totalTokens int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.usage.InputTokens += inputTokens
	a.usage.OutputTokens += outputTokens
	a.usage.TotalTokens += totalTokens
	a.usage.ProcessedFiles++
}

// Snapshot returns the accumulated usage by value.
func (a *Accountant) Snapshot() RunUsage {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.usage
}
