package repo

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	HistoryJSONPrefix = "dxtree-hierarchy-"
	HistoryJSONSuffix = ".json"
	CurrentKey        = HistoryJSONPrefix + "current" + HistoryJSONSuffix
	// fixed width so that backup keys sort by time
	historyTimeFormat = "20060102T150405.000000000Z"
)

type (
	// History keeps the current hierarchy snapshot plus a limited number of
	// timestamped backups in a Storage
	History struct {
		l            *zap.Logger
		storage      Storage
		historyDir   string // directory used for default filesystem storage
		historyLimit int
		mu           sync.RWMutex
	}
	HistoryOption func(*History)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HistoryWithHistoryLimit(v int) HistoryOption {
	return func(o *History) {
		o.historyLimit = v
	}
}

func HistoryWithHistoryDir(v string) HistoryOption {
	return func(o *History) {
		o.historyDir = v
	}
}

func HistoryWithStorage(s Storage) HistoryOption {
	return func(o *History) {
		o.storage = s
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewHistory(l *zap.Logger, opts ...HistoryOption) (*History, error) {
	inst := &History{
		l:            l.Named("history"),
		historyDir:   "/var/lib/dxtree",
		historyLimit: 2,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.storage == nil {
		storage, err := NewFilesystemStorage(inst.historyDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create default filesystem storage: %w", err)
		}
		inst.storage = storage
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Add stores a serialized hierarchy as a new backup and as the current
// snapshot, then drops backups beyond the history limit
func (h *History) Add(ctx context.Context, snapshot []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	backupKey := HistoryJSONPrefix + time.Now().UTC().Format(historyTimeFormat) + HistoryJSONSuffix
	h.l.Debug("writing snapshot",
		zap.String("backup", backupKey),
		zap.String("current", CurrentKey),
		zap.Int("size", len(snapshot)),
	)

	if err := h.storage.Write(ctx, backupKey, snapshot); err != nil {
		return errors.Wrap(err, "failed to write hierarchy backup")
	}
	if err := h.storage.Write(ctx, CurrentKey, snapshot); err != nil {
		return errors.Wrap(err, "failed to write current hierarchy")
	}
	if err := h.cleanup(ctx); err != nil {
		return errors.Wrap(err, "failed to clean up hierarchy history")
	}
	return nil
}

// GetCurrent reads the current snapshot into buf. It returns os.ErrNotExist
// if nothing has been stored yet.
func (h *History) GetCurrent(ctx context.Context, buf *bytes.Buffer) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data, err := h.storage.Read(ctx, CurrentKey)
	if err != nil {
		return err
	}
	_, err = buf.Write(data)
	return err
}

// Close releases resources held by the history storage.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.storage != nil {
		return h.storage.Close()
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

// backups lists backup keys, newest first
func (h *History) backups(ctx context.Context) ([]string, error) {
	keys, err := h.storage.List(ctx, HistoryJSONPrefix)
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, key := range keys {
		if key != CurrentKey && strings.HasSuffix(key, HistoryJSONSuffix) {
			ret = append(ret, key)
		}
	}
	return ret, nil
}

func (h *History) cleanup(ctx context.Context) error {
	backups, err := h.backups(ctx)
	if err != nil {
		return errors.Wrap(err, "could not list backups")
	}
	if len(backups) <= h.historyLimit {
		return nil
	}
	for _, key := range backups[h.historyLimit:] {
		h.l.Debug("removing outdated backup", zap.String("key", key))
		if err := h.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("could not remove backup %s: %w", key, err)
		}
	}
	return nil
}
