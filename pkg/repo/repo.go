package repo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/tree"
	"github.com/foomo/dxtree/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// Repo holds the most recently collected hierarchy
type (
	Collector interface {
		Collect(ctx context.Context, token string) (content.Hierarchy, *tree.Report, error)
	}
	Repo struct {
		l                       *zap.Logger
		collector               Collector
		tokenSource             oauth2.TokenSource
		poll                    bool
		pollInterval            time.Duration
		onLoaded                func()
		loaded                  *atomic.Bool
		history                 *History
		updateInProgressChannel chan chan updateResponse
		updateLock              sync.Mutex
		hierarchy               content.Hierarchy
		report                  *tree.Report
		hierarchyLock           sync.RWMutex
		jsonBuffer              *bytes.Buffer
		jsonBufferLock          sync.RWMutex
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, collector Collector, tokenSource oauth2.TokenSource, history *History, opts ...Option) *Repo {
	inst := &Repo{
		l:                       l.Named("repo"),
		collector:               collector,
		tokenSource:             tokenSource,
		poll:                    false,
		loaded:                  &atomic.Bool{},
		pollInterval:            10 * time.Minute,
		history:                 history,
		hierarchy:               content.Hierarchy{},
		updateInProgressChannel: make(chan chan updateResponse),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithPoll(v bool) Option {
	return func(o *Repo) {
		o.poll = v
	}
}

func WithPollInterval(v time.Duration) Option {
	return func(o *Repo) {
		o.pollInterval = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

func (r *Repo) Hierarchy() content.Hierarchy {
	r.hierarchyLock.RLock()
	defer r.hierarchyLock.RUnlock()
	return r.hierarchy
}

// Report returns the skipped branches of the last collection
func (r *Repo) Report() *tree.Report {
	r.hierarchyLock.RLock()
	defer r.hierarchyLock.RUnlock()
	return r.report
}

func (r *Repo) SetHierarchy(h content.Hierarchy, report *tree.Report) {
	r.hierarchyLock.Lock()
	defer r.hierarchyLock.Unlock()
	r.hierarchy = h
	r.report = report
}

func (r *Repo) JSONBufferBytes() []byte {
	r.jsonBufferLock.RLock()
	defer r.jsonBufferLock.RUnlock()
	if r.jsonBuffer == nil {
		return nil
	}
	return r.jsonBuffer.Bytes()
}

func (r *Repo) SetJSONBuffer(v *bytes.Buffer) {
	r.jsonBufferLock.Lock()
	defer r.jsonBufferLock.Unlock()
	r.jsonBuffer = v
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) OnLoaded(fn func()) {
	r.onLoaded = fn
}

// HierarchyBytes returns the serialized hierarchy. It serves from the
// in-memory buffer, falling back to storage only when empty.
func (r *Repo) HierarchyBytes(ctx context.Context) ([]byte, error) {
	if data := r.JSONBufferBytes(); len(data) > 0 {
		return data, nil
	}
	// cold start or not yet loaded
	var buf bytes.Buffer
	if err := r.history.GetCurrent(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to read hierarchy from storage: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHierarchyBytes writes the serialized hierarchy to the provided writer.
// The result is wrapped as service response, e.g: {"reply": <hierarchyData>}
func (r *Repo) WriteHierarchyBytes(ctx context.Context, w io.Writer) error {
	data, err := r.HierarchyBytes(ctx)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(`{"reply":`)); err != nil {
		return fmt.Errorf("failed to write hierarchy JSON prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write hierarchy JSON data: %w", err)
	}
	if _, err := w.Write([]byte(`}`)); err != nil {
		return fmt.Errorf("failed to write hierarchy JSON suffix: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context) (updateResponse *responses.Update) {
	floatSeconds := func(nanoSeconds int64) float64 {
		return float64(nanoSeconds) / float64(1000000000)
	}

	r.l.Info("Update triggered")

	start := time.Now()
	collectRuntime, err := r.tryUpdate(ctx)
	updateResponse = &responses.Update{}
	updateResponse.Stats.CollectRuntime = floatSeconds(collectRuntime)

	if err != nil {
		updateResponse.Success = false
		updateResponse.Stats.NumberOfHubs = -1
		updateResponse.Stats.NumberOfProjects = -1
		updateResponse.Stats.NumberOfFolders = -1
		updateResponse.Stats.NumberOfItems = -1
		updateResponse.Stats.NumberOfExchanges = -1
		updateResponse.ErrorMessage = err.Error()
		if !errors.Is(err, ErrUpdateRejected) {
			r.l.Error("Failed to update hierarchy", zap.Error(err))
		}
	} else {
		updateResponse.Success = true
		counts := r.Hierarchy().Count()
		updateResponse.Stats.NumberOfHubs = counts.Hubs
		updateResponse.Stats.NumberOfProjects = counts.Projects
		updateResponse.Stats.NumberOfFolders = counts.Folders
		updateResponse.Stats.NumberOfItems = counts.Items
		updateResponse.Stats.NumberOfExchanges = counts.Exchanges
		updateResponse.Stats.NumberOfSkipped = r.Report().Len()
	}
	updateResponse.Stats.OwnRuntime = floatSeconds(time.Since(start).Nanoseconds()) - updateResponse.Stats.CollectRuntime
	return updateResponse
}

func (r *Repo) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	l := r.l.Named("start")

	up := make(chan bool, 1)
	g.Go(func() error {
		l.Debug("starting update routine")
		up <- true
		return r.UpdateRoutine(gCtx)
	})
	l.Debug("waiting for UpdateRoutine")
	<-up

	l.Debug("trying to restore previous hierarchy")
	if err := r.tryToRestoreCurrent(ctx); errors.Is(err, os.ErrNotExist) {
		l.Info("previous hierarchy snapshot does not exist")
	} else if err != nil {
		l.Warn("could not restore previous hierarchy", zap.Error(err))
	} else {
		l.Info("restored previous hierarchy")
	}

	if r.poll {
		g.Go(func() error {
			l.Debug("starting poll routine")
			return r.PollRoutine(gCtx)
		})
	}

	if !r.Loaded() {
		l.Debug("trying to collect initial state")
		if resp := r.Update(ctx); !resp.Success {
			l.Error("failed to collect initial state",
				zap.String("error", resp.ErrorMessage),
				zap.Float64("own_runtime", resp.Stats.OwnRuntime),
				zap.Float64("collect_runtime", resp.Stats.CollectRuntime),
			)
		}
	}

	return g.Wait()
}
