package content

// Hierarchy hub id => hub
type Hierarchy map[string]*HubData

// HubData hub with its projects
type HubData struct {
	Name     string
	Projects map[string]*ProjectData // project id => project
}

// ProjectData project with its expanded top folder trees
type ProjectData struct {
	Name       string
	FolderTree []*FolderNode
}

// Counts number of entities in a hierarchy
type Counts struct {
	Hubs      int
	Projects  int
	Folders   int
	Items     int
	Exchanges int
}

// NewHubData constructor
func NewHubData(name string) *HubData {
	return &HubData{
		Name:     name,
		Projects: map[string]*ProjectData{},
	}
}

// NewProjectData constructor
func NewProjectData(name string) *ProjectData {
	return &ProjectData{
		Name:       name,
		FolderTree: []*FolderNode{},
	}
}

// Count counts hubs, projects and everything inside the folder trees
func (h Hierarchy) Count() Counts {
	var c Counts
	for _, hub := range h {
		c.Hubs++
		for _, project := range hub.Projects {
			c.Projects++
			for _, root := range project.FolderTree {
				root.Walk(func(node *FolderNode) {
					c.Folders++
					c.Items += len(node.Items)
					c.Exchanges += len(node.Exchanges)
				})
			}
		}
	}
	return c
}
