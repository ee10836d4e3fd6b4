package tree

import (
	"sync"

	"github.com/foomo/dxtree/pkg/metrics"
	"go.uber.org/multierr"
)

// Kind of a skipped branch
type Kind string

const (
	KindHub     Kind = "hub"
	KindProject Kind = "project"
	KindFolder  Kind = "folder"
)

type (
	// Skip a branch that was left out of the output
	Skip struct {
		Kind     Kind
		ID       string
		ParentID string
		Err      error
	}
	// Report collects skipped branches. It is safe for concurrent use and a
	// nil report drops everything.
	Report struct {
		lock    sync.Mutex
		skipped []Skip
	}
)

func NewReport() *Report {
	return &Report{}
}

// Add records a skipped branch
func (r *Report) Add(s Skip) {
	metrics.SkippedBranchesCounter.WithLabelValues(string(s.Kind)).Inc()
	if r == nil {
		return
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.skipped = append(r.skipped, s)
}

// Skipped returns a copy of all recorded branches
func (r *Report) Skipped() []Skip {
	if r == nil {
		return nil
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Skip{}, r.skipped...)
}

func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.skipped)
}

// Err combines the errors of all skipped branches, nil if there are none
func (r *Report) Err() error {
	var err error
	for _, s := range r.Skipped() {
		err = multierr.Append(err, s.Err)
	}
	return err
}
