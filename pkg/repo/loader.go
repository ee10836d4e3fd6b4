package repo

import (
	"bytes"
	"context"
	"time"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/metrics"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	json              = jsoniter.ConfigCompatibleWithStandardLibrary
	ErrUpdateRejected = errors.New("update rejected: update in progress")
)

type updateResponse struct {
	collectRuntime int64
	err            error
}

func (r *Repo) PollRoutine(ctx context.Context) error {
	l := r.l.Named("routine.poll")
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			chanReponse := make(chan updateResponse)
			select {
			case r.updateInProgressChannel <- chanReponse:
			case <-ctx.Done():
				return nil
			}
			response := <-chanReponse
			if response.err == nil {
				l.Info("update success")
			} else {
				l.Error("update failed", zap.Error(response.err))
			}
		}
	}
}

func (r *Repo) UpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.update")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case resChan := <-r.updateInProgressChannel:
			start := time.Now()
			l := l.With(zap.String("run_id", uuid.New().String()))

			l.Info("update started")

			collectRuntime, err := r.update(context.WithoutCancel(ctx), l)
			if err != nil {
				l.Error("update failed", zap.Error(err))
				metrics.UpdatesFailedCounter.WithLabelValues().Inc()
			} else {
				if !r.Loaded() {
					r.loaded.Store(true)
					l.Info("initial update success")
					if r.onLoaded != nil {
						r.onLoaded()
					}
				} else {
					l.Info("update success")
				}
				metrics.UpdatesCompletedCounter.WithLabelValues().Inc()
			}

			resChan <- updateResponse{
				collectRuntime: collectRuntime,
				err:            err,
			}

			metrics.UpdateDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}
	}
}

// do not call directly, but only through the update routine
func (r *Repo) update(ctx context.Context, l *zap.Logger) (collectRuntime int64, err error) {
	start := time.Now()

	token, err := r.tokenSource.Token()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get access token")
	}

	h, report, err := r.collector.Collect(ctx, token.AccessToken)
	collectRuntime = time.Since(start).Nanoseconds()
	if err != nil {
		return collectRuntime, errors.Wrap(err, "failed to collect hierarchy")
	}
	for _, s := range report.Skipped() {
		l.Warn("skipped branch",
			zap.String("kind", string(s.Kind)),
			zap.String("id", s.ID),
			zap.String("parent_id", s.ParentID),
			zap.Error(s.Err),
		)
	}

	data, err := json.Marshal(content.SerializeHierarchy(h))
	if err != nil {
		return collectRuntime, errors.Wrap(err, "failed to serialize hierarchy")
	}
	r.SetHierarchy(h, report)
	r.SetJSONBuffer(bytes.NewBuffer(data))

	if err := r.history.Add(ctx, data); err != nil {
		l.Error("Could not persist current hierarchy in history", zap.Error(err))
		metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
	} else {
		l.Info("Successfully persisted current hierarchy to history")
	}
	return collectRuntime, nil
}

// limit resources and allow only one update request at once
func (r *Repo) tryUpdate(ctx context.Context) (collectRuntime int64, err error) {
	if !r.updateLock.TryLock() {
		r.l.Info("update request rejected, another update is in progress")
		return 0, ErrUpdateRejected
	}
	defer r.updateLock.Unlock()

	c := make(chan updateResponse)
	select {
	case r.updateInProgressChannel <- c:
		r.l.Debug("update request added to queue")
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	ur := <-c
	return ur.collectRuntime, ur.err
}

func (r *Repo) tryToRestoreCurrent(ctx context.Context) error {
	buffer := &bytes.Buffer{}
	if err := r.history.GetCurrent(ctx, buffer); err != nil {
		return err
	}
	var snapshot content.HierarchyJSON
	if err := json.Unmarshal(buffer.Bytes(), &snapshot); err != nil {
		return errors.Wrap(err, "failed to deserialize hierarchy snapshot")
	}
	r.SetHierarchy(snapshot.ToHierarchy(), nil)
	r.SetJSONBuffer(buffer)
	return nil
}
