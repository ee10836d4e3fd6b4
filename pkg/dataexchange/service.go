package dataexchange

import (
	"context"

	"github.com/foomo/dxtree/content"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// Executor runs a graphql document and returns its data field
	Executor interface {
		Execute(ctx context.Context, query, token string, variables map[string]interface{}) (jsoniter.RawMessage, error)
	}
	// Service typed access to the data exchange api
	Service struct {
		l        *zap.Logger
		executor Executor
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewService(l *zap.Logger, executor Executor) *Service {
	return &Service{
		l:        l.Named("dataexchange"),
		executor: executor,
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// GetHubs returns all hubs the token has access to
func (s *Service) GetHubs(ctx context.Context, token string) ([]content.Hub, error) {
	data, err := s.executor.Execute(ctx, QueryGetHubs, token, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get hubs")
	}
	return ParseHubs(data)
}

// GetProjects returns all projects of a hub
func (s *Service) GetProjects(ctx context.Context, token, hubID string) ([]content.Project, error) {
	data, err := s.executor.Execute(ctx, QueryGetProjects, token, map[string]interface{}{VariableHubID: hubID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get projects of hub %q", hubID)
	}
	return ParseProjects(data)
}

// GetTopFolders returns shallow references to the top folders of a project
func (s *Service) GetTopFolders(ctx context.Context, token, projectID string) ([]*content.FolderNode, error) {
	data, err := s.executor.Execute(ctx, QueryGetTopFolders, token, map[string]interface{}{VariableProjectID: projectID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get top folders of project %q", projectID)
	}
	return ParseTopFolders(data)
}

// GetFolder returns the content of a single folder with shallow child
// folders, or nil if there is no such folder
func (s *Service) GetFolder(ctx context.Context, token, folderID string) (*content.FolderNode, error) {
	s.l.Debug("get folder", zap.String("folder_id", folderID))
	data, err := s.executor.Execute(ctx, QueryGetFolderContent, token, map[string]interface{}{VariableFolderID: folderID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get folder %q", folderID)
	}
	return ParseFolder(data)
}
