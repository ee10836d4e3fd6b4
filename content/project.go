package content

// Project unit of work scoped to one hub
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
