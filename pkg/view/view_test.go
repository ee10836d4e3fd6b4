package view_test

import (
	"strings"
	"testing"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	html := string(view.Render([]byte(`{"hub":{"name":"Hub","projects":{}}}`)))
	assert.NotContains(t, html, view.Placeholder)
	assert.Contains(t, html, `const data = {"hub":{"name":"Hub","projects":{}}};`)
}

func TestRenderHierarchy(t *testing.T) {
	root := content.NewShallowFolder("f-1", "</script><script>alert(1)</script>")
	h := content.Hierarchy{
		"hub-a": &content.HubData{
			Name: "Hub A",
			Projects: map[string]*content.ProjectData{
				"p-1": {Name: "Project 1", FolderTree: []*content.FolderNode{root}},
			},
		},
	}

	html, err := view.RenderHierarchy(h)
	require.NoError(t, err)
	assert.NotContains(t, string(html), view.Placeholder)
	assert.Contains(t, string(html), `"folder_tree":[{"id":"f-1"`)
	// names can not break out of the script tag
	assert.Equal(t, 1, strings.Count(string(html), "<script"))
}

func TestRenderHierarchyEmpty(t *testing.T) {
	html, err := view.RenderHierarchy(content.Hierarchy{})
	require.NoError(t, err)
	assert.Contains(t, string(html), "const data = {};")
}
