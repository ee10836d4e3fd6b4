package dataexchange

import (
	"bytes"

	"github.com/foomo/dxtree/content"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Wire types keep nullable strings so that a missing or null field can be told
// apart from an empty one. Only missing and null are rejected.
type (
	// results a paginated list, a missing list reads as empty
	results[T any] struct {
		Results []T `json:"results"`
	}
	entity struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	}
	leaf struct {
		ID       *string `json:"id"`
		Name     *string `json:"name"`
		TypeName *string `json:"__typename"`
	}
	ref struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	}
	hubsData struct {
		Hubs *results[entity] `json:"hubs"`
	}
	projectsData struct {
		Projects *results[entity] `json:"projects"`
	}
	topFoldersData struct {
		Project *struct {
			Folders *results[ref] `json:"folders"`
		} `json:"project"`
	}
	folderData struct {
		Folder jsoniter.RawMessage `json:"folder"`
	}
	folderContent struct {
		ID        *string        `json:"id"`
		Name      *string        `json:"name"`
		Items     *results[leaf] `json:"items"`
		Exchanges *results[leaf] `json:"exchanges"`
		Folders   *results[ref]  `json:"folders"`
	}
)

func (r *results[T]) list() []T {
	if r == nil || r.Results == nil {
		return []T{}
	}
	return r.Results
}

func (e entity) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.NotNil),
		validation.Field(&e.Name, validation.NotNil),
	)
}

func (l leaf) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ID, validation.NotNil),
		validation.Field(&l.Name, validation.NotNil),
	)
}

// Validate a folder id may be absent, its name may not
func (r ref) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NotNil),
	)
}

func (f folderContent) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.NotNil),
	)
}

// ParseHubs parses the data of a GetHubs query
func ParseHubs(data []byte) ([]content.Hub, error) {
	var d hubsData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "failed to decode hubs")
	}
	entities := d.Hubs.list()
	hubs := make([]content.Hub, 0, len(entities))
	for i, e := range entities {
		if err := e.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid hub at index %d", i)
		}
		hubs = append(hubs, content.Hub{ID: *e.ID, Name: *e.Name})
	}
	return hubs, nil
}

// ParseProjects parses the data of a GetProjects query
func ParseProjects(data []byte) ([]content.Project, error) {
	var d projectsData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "failed to decode projects")
	}
	entities := d.Projects.list()
	projects := make([]content.Project, 0, len(entities))
	for i, e := range entities {
		if err := e.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid project at index %d", i)
		}
		projects = append(projects, content.Project{ID: *e.ID, Name: *e.Name})
	}
	return projects, nil
}

// ParseTopFolders parses the data of a GetTopFolders query into shallow
// folder references
func ParseTopFolders(data []byte) ([]*content.FolderNode, error) {
	var d topFoldersData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "failed to decode top folders")
	}
	var refs []ref
	if d.Project != nil {
		refs = d.Project.Folders.list()
	}
	return shallowFolders(refs)
}

// ParseFolder parses the data of a GetFolderContent query. It returns nil if
// the folder is missing. Child folders are shallow references, expanding them
// is up to the caller.
func ParseFolder(data []byte) (*content.FolderNode, error) {
	var d folderData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "failed to decode folder")
	}
	if isEmpty(d.Folder) {
		return nil, nil
	}

	var raw folderContent
	if err := json.Unmarshal(d.Folder, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode folder content")
	}
	id := deref(raw.ID)
	if err := raw.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid folder %q", id)
	}

	items, err := leaves(raw.Items.list())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid item of folder %q", id)
	}
	exchanges, err := leaves(raw.Exchanges.list())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid exchange of folder %q", id)
	}
	children, err := shallowFolders(raw.Folders.list())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid child of folder %q", id)
	}

	node := &content.FolderNode{
		ID:        id,
		Name:      *raw.Name,
		Items:     make([]content.Item, 0, len(items)),
		Exchanges: make([]content.Exchange, 0, len(exchanges)),
		Folders:   children,
	}
	for _, l := range items {
		node.Items = append(node.Items, content.Item{ID: *l.ID, Name: *l.Name, TypeName: deref(l.TypeName)})
	}
	for _, l := range exchanges {
		node.Exchanges = append(node.Exchanges, content.Exchange{ID: *l.ID, Name: *l.Name, TypeName: deref(l.TypeName)})
	}
	return node, nil
}

func leaves(list []leaf) ([]leaf, error) {
	for i, l := range list {
		if err := l.Validate(); err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
	}
	return list, nil
}

func shallowFolders(refs []ref) ([]*content.FolderNode, error) {
	ret := make([]*content.FolderNode, 0, len(refs))
	for i, r := range refs {
		if err := r.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid folder reference at index %d", i)
		}
		ret = append(ret, content.NewShallowFolder(deref(r.ID), *r.Name))
	}
	return ret, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// isEmpty a missing folder, null and {} all mean there is no folder
func isEmpty(raw jsoniter.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return false
	}
	return len(fields) == 0
}
