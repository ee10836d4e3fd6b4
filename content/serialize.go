package content

type (
	// LeafJSON serialized item or exchange
	LeafJSON struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		TypeName *string `json:"typename"`
	}
	// FolderJSON serialized folder node
	FolderJSON struct {
		ID        string        `json:"id"`
		Name      string        `json:"name"`
		Items     []LeafJSON    `json:"items"`
		Exchanges []LeafJSON    `json:"exchanges"`
		Folders   []*FolderJSON `json:"folders"`
	}
	// ProjectJSON serialized project
	ProjectJSON struct {
		Name       string        `json:"name"`
		FolderTree []*FolderJSON `json:"folder_tree"`
	}
	// HubJSON serialized hub
	HubJSON struct {
		Name     string                  `json:"name"`
		Projects map[string]*ProjectJSON `json:"projects"`
	}
	// HierarchyJSON serialized hierarchy, hub id => hub
	HierarchyJSON map[string]*HubJSON
)

// SerializeFolder converts a folder node and all of its children into its
// plain json representation, lists are never nil
func SerializeFolder(n *FolderNode) *FolderJSON {
	ret := &FolderJSON{
		ID:        n.ID,
		Name:      n.Name,
		Items:     make([]LeafJSON, 0, len(n.Items)),
		Exchanges: make([]LeafJSON, 0, len(n.Exchanges)),
		Folders:   make([]*FolderJSON, 0, len(n.Folders)),
	}
	for _, item := range n.Items {
		ret.Items = append(ret.Items, newLeafJSON(item.ID, item.Name, item.TypeName))
	}
	for _, exchange := range n.Exchanges {
		ret.Exchanges = append(ret.Exchanges, newLeafJSON(exchange.ID, exchange.Name, exchange.TypeName))
	}
	for _, child := range n.Folders {
		ret.Folders = append(ret.Folders, SerializeFolder(child))
	}
	return ret
}

// SerializeHierarchy converts a whole hierarchy
func SerializeHierarchy(h Hierarchy) HierarchyJSON {
	ret := make(HierarchyJSON, len(h))
	for hubID, hub := range h {
		projects := make(map[string]*ProjectJSON, len(hub.Projects))
		for projectID, project := range hub.Projects {
			folderTree := make([]*FolderJSON, 0, len(project.FolderTree))
			for _, root := range project.FolderTree {
				folderTree = append(folderTree, SerializeFolder(root))
			}
			projects[projectID] = &ProjectJSON{
				Name:       project.Name,
				FolderTree: folderTree,
			}
		}
		ret[hubID] = &HubJSON{
			Name:     hub.Name,
			Projects: projects,
		}
	}
	return ret
}

// ToFolderNode converts a serialized folder back into a folder node
func (f *FolderJSON) ToFolderNode() *FolderNode {
	n := NewShallowFolder(f.ID, f.Name)
	for _, item := range f.Items {
		n.Items = append(n.Items, Item{ID: item.ID, Name: item.Name, TypeName: item.typeName()})
	}
	for _, exchange := range f.Exchanges {
		n.Exchanges = append(n.Exchanges, Exchange{ID: exchange.ID, Name: exchange.Name, TypeName: exchange.typeName()})
	}
	for _, child := range f.Folders {
		n.Folders = append(n.Folders, child.ToFolderNode())
	}
	return n
}

// ToHierarchy converts a serialized hierarchy back into a hierarchy
func (h HierarchyJSON) ToHierarchy() Hierarchy {
	ret := make(Hierarchy, len(h))
	for hubID, hub := range h {
		hubData := NewHubData(hub.Name)
		for projectID, project := range hub.Projects {
			projectData := NewProjectData(project.Name)
			for _, root := range project.FolderTree {
				projectData.FolderTree = append(projectData.FolderTree, root.ToFolderNode())
			}
			hubData.Projects[projectID] = projectData
		}
		ret[hubID] = hubData
	}
	return ret
}

func newLeafJSON(id, name, typeName string) LeafJSON {
	l := LeafJSON{ID: id, Name: name}
	if typeName != "" {
		l.TypeName = &typeName
	}
	return l
}

func (l LeafJSON) typeName() string {
	if l.TypeName == nil {
		return ""
	}
	return *l.TypeName
}
