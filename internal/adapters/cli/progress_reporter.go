package cli

import (
	"sync"

	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
	"github.com/madstone-tech/fabric-ontology/internal/ui"
)

// Compile-time interface check
var _ usecases.ProgressReporter = (*ProgressReporter)(nil)

// ProgressReporter renders usecases.ProgressReporter phase callbacks
// (streaming extraction, §4.L; LRO polling, §4.M) to the terminal.
type ProgressReporter struct {
	out *ui.Output

	mu      sync.Mutex
	phase   string
	total   int
	current int
}

// NewProgressReporter creates a console-backed ProgressReporter.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{out: ui.NewOutput()}
}

func (r *ProgressReporter) Start(phase string, total int) {
	r.mu.Lock()
	r.phase, r.total, r.current = phase, total, 0
	r.mu.Unlock()
	r.out.Progress(0, total, phase+"...")
}

func (r *ProgressReporter) Advance(n int) {
	r.mu.Lock()
	r.current += n
	phase, total, current := r.phase, r.total, r.current
	r.mu.Unlock()
	r.out.Progress(current, total, phase)
}

func (r *ProgressReporter) Done(phase string) {
	r.out.Success(phase + " done")
}

func (r *ProgressReporter) Message(msg string) {
	r.out.Info(msg)
}
