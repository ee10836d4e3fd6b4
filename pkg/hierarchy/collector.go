package hierarchy

import (
	"context"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/tree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// Source lists hubs, projects and top folders
	Source interface {
		GetHubs(ctx context.Context, token string) ([]content.Hub, error)
		GetProjects(ctx context.Context, token, hubID string) ([]content.Project, error)
		GetTopFolders(ctx context.Context, token, projectID string) ([]*content.FolderNode, error)
	}
	// TreeFunc is called for every expanded top folder tree
	TreeFunc func(hub content.Hub, project content.Project, root *content.FolderNode)
	// Collector walks hubs, projects and their folder trees
	Collector struct {
		l       *zap.Logger
		source  Source
		builder *tree.Builder
		onTree  TreeFunc
	}
	Option func(*Collector)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, source Source, builder *tree.Builder, opts ...Option) *Collector {
	inst := &Collector{
		l:       l.Named("hierarchy"),
		source:  source,
		builder: builder,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithOnTree(v TreeFunc) Option {
	return func(o *Collector) {
		o.onTree = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Collect fetches all hubs, their projects and the expanded folder trees of
// every project.
//
// Only a failure to list the hubs fails the collection. A hub whose projects
// can not be listed keeps an empty project map and a project whose top
// folders can not be listed keeps an empty folder tree, all other branches
// are collected regardless. Everything that was left out is recorded in the
// returned report.
func (c *Collector) Collect(ctx context.Context, token string) (content.Hierarchy, *tree.Report, error) {
	report := tree.NewReport()

	hubs, err := c.source.GetHubs(ctx, token)
	if err != nil {
		return nil, report, errors.Wrap(err, "failed to collect hubs")
	}

	ret := make(content.Hierarchy, len(hubs))
	for _, hub := range hubs {
		hubData := content.NewHubData(hub.Name)
		ret[hub.ID] = hubData

		projects, err := c.source.GetProjects(ctx, token, hub.ID)
		if err != nil {
			c.l.Warn("skipping hub", zap.String("hub_id", hub.ID), zap.Error(err))
			report.Add(tree.Skip{Kind: tree.KindHub, ID: hub.ID, Err: err})
			continue
		}

		for _, project := range projects {
			projectData := content.NewProjectData(project.Name)
			hubData.Projects[project.ID] = projectData

			if err := c.collectProject(ctx, token, hub, project, projectData, report); err != nil {
				c.l.Warn("skipping project",
					zap.String("hub_id", hub.ID),
					zap.String("project_id", project.ID),
					zap.Error(err),
				)
				report.Add(tree.Skip{Kind: tree.KindProject, ID: project.ID, ParentID: hub.ID, Err: err})
			}
		}
	}

	c.l.Info("collected hierarchy", zap.Int("hubs", len(ret)), zap.Int("skipped", report.Len()))
	return ret, report, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Collector) collectProject(ctx context.Context, token string, hub content.Hub, project content.Project, projectData *content.ProjectData, report *tree.Report) error {
	topFolders, err := c.source.GetTopFolders(ctx, token, project.ID)
	if err != nil {
		return err
	}
	for _, root := range c.builder.ExpandRefs(ctx, token, project.ID, topFolders, report) {
		if c.onTree != nil {
			c.onTree(hub, project, root)
		}
		projectData.FolderTree = append(projectData.FolderTree, root)
	}
	return nil
}
