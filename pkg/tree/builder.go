package tree

import (
	"context"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mode how child folders are expanded
type Mode string

const (
	// ModeSequential expands one child after the other, depth first
	ModeSequential Mode = "sequential"
	// ModeConcurrent expands all children of a folder at once
	ModeConcurrent Mode = "concurrent"
)

type (
	// FolderFetcher fetches the content of a single folder with shallow child
	// folders, nil means there is no such folder
	FolderFetcher interface {
		GetFolder(ctx context.Context, token, folderID string) (*content.FolderNode, error)
	}
	// Builder expands folder references into full folder trees
	Builder struct {
		l       *zap.Logger
		fetcher FolderFetcher
		mode    Mode
	}
	Option func(*Builder)
)

// ParseMode validates a mode name
func ParseMode(v string) (Mode, error) {
	switch Mode(v) {
	case ModeSequential, ModeConcurrent:
		return Mode(v), nil
	default:
		return "", errors.Errorf("unknown tree mode %q (supported: %s, %s)", v, ModeSequential, ModeConcurrent)
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewBuilder(l *zap.Logger, fetcher FolderFetcher, opts ...Option) *Builder {
	inst := &Builder{
		l:       l.Named("tree"),
		fetcher: fetcher,
		mode:    ModeConcurrent,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithMode(v Mode) Option {
	return func(o *Builder) {
		o.mode = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (b *Builder) Mode() Mode {
	return b.mode
}

// Expand fetches a folder and recursively all of its sub folders.
//
// It returns nil, nil if the folder does not exist. An error is only returned
// if the folder itself can not be fetched; sub folders that fail or do not
// exist are left out of the tree and failures are added to report.
func (b *Builder) Expand(ctx context.Context, token, folderID string, report *Report) (*content.FolderNode, error) {
	node, err := b.fetcher.GetFolder(ctx, token, folderID)
	if err != nil {
		metrics.FolderExpansionCounter.WithLabelValues(string(b.mode), "error").Inc()
		return nil, err
	}
	if node == nil {
		metrics.FolderExpansionCounter.WithLabelValues(string(b.mode), "absent").Inc()
		return nil, nil
	}
	metrics.FolderExpansionCounter.WithLabelValues(string(b.mode), "success").Inc()

	node.Folders = b.ExpandRefs(ctx, token, node.ID, node.Folders, report)
	return node, nil
}

// ExpandRefs expands shallow folder references. References without an id
// are ignored, the result only contains successfully expanded folders in
// the order of refs.
func (b *Builder) ExpandRefs(ctx context.Context, token, parentID string, refs []*content.FolderNode, report *Report) []*content.FolderNode {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			ids = append(ids, ref.ID)
		}
	}

	var expanded []*content.FolderNode
	switch b.mode {
	case ModeSequential:
		expanded = b.expandSequential(ctx, token, parentID, ids, report)
	default:
		expanded = b.expandConcurrent(ctx, token, parentID, ids, report)
	}

	ret := make([]*content.FolderNode, 0, len(expanded))
	for _, node := range expanded {
		if node != nil {
			ret = append(ret, node)
		}
	}
	return ret
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (b *Builder) expandSequential(ctx context.Context, token, parentID string, ids []string, report *Report) []*content.FolderNode {
	ret := make([]*content.FolderNode, len(ids))
	for i, id := range ids {
		ret[i] = b.expandChild(ctx, token, parentID, id, report)
	}
	return ret
}

func (b *Builder) expandConcurrent(ctx context.Context, token, parentID string, ids []string, report *Report) []*content.FolderNode {
	var (
		g   errgroup.Group
		ret = make([]*content.FolderNode, len(ids))
	)
	for i, id := range ids {
		g.Go(func() error {
			ret[i] = b.expandChild(ctx, token, parentID, id, report)
			return nil
		})
	}
	// failures are reported per child and never cancel siblings
	_ = g.Wait()
	return ret
}

// expandChild turns any failure into a nil node
func (b *Builder) expandChild(ctx context.Context, token, parentID, id string, report *Report) *content.FolderNode {
	node, err := b.Expand(ctx, token, id, report)
	if err != nil {
		b.l.Warn("skipping folder",
			zap.String("folder_id", id),
			zap.String("parent_id", parentID),
			zap.Error(err),
		)
		report.Add(Skip{Kind: KindFolder, ID: id, ParentID: parentID, Err: err})
		return nil
	}
	if node == nil {
		b.l.Debug("folder does not exist", zap.String("folder_id", id), zap.String("parent_id", parentID))
	}
	return node
}
