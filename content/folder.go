package content

// FolderNode node in a folder tree
//
// A shallow node only carries ID and Name. After expansion Folders holds the
// fully expanded child nodes; children that could not be expanded are left out.
type FolderNode struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	Items     []Item        `json:"items"`
	Exchanges []Exchange    `json:"exchanges"`
	Folders   []*FolderNode `json:"folders"`
}

// NewShallowFolder constructor for a folder reference
func NewShallowFolder(id, name string) *FolderNode {
	return &FolderNode{
		ID:        id,
		Name:      name,
		Items:     []Item{},
		Exchanges: []Exchange{},
		Folders:   []*FolderNode{},
	}
}

// Walk calls fn for n and every descendant, depth first
func (n *FolderNode) Walk(fn func(node *FolderNode)) {
	fn(n)
	for _, child := range n.Folders {
		child.Walk(fn)
	}
}
