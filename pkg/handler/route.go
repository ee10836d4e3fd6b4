package handler

// Route type
type Route string

const (
	// RouteView html folder browser
	RouteView Route = ""
	// RouteHierarchy the whole serialized hierarchy
	RouteHierarchy Route = "hierarchy"
	// RouteUpdate trigger a new collection
	RouteUpdate Route = "update"
)

// method allowed for a route
func (r Route) method() string {
	if r == RouteUpdate {
		return "POST"
	}
	return "GET"
}

func (r Route) label() string {
	switch r {
	case RouteView:
		return "view"
	case RouteHierarchy, RouteUpdate:
		return string(r)
	default:
		return "unknown"
	}
}
