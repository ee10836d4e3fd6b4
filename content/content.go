// Package content contains data structures that describe the hub, project and
// folder hierarchy of a data exchange account
package content

const (
	// MarkerFolder prefix for folders in a printed tree
	MarkerFolder = "📁"
	// MarkerItem prefix for items in a printed tree
	MarkerItem = "📄"
	// MarkerExchange prefix for exchanges in a printed tree
	MarkerExchange = "🔁"
)
