package content

// Item viewable document reference inside a folder, only viewables (rvt, ifc,
// dwg ...) are returned, pdf and office documents are not
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TypeName string `json:"__typename,omitempty"`
}

// Exchange exchange package reference inside a folder
type Exchange struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TypeName string `json:"__typename,omitempty"`
}
