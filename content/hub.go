package content

// Hub top-level tenant container
type Hub struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
