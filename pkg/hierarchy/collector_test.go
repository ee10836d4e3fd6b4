package hierarchy_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/dataexchange/mock"
	"github.com/foomo/dxtree/pkg/hierarchy"
	"github.com/foomo/dxtree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testData() *mock.Data {
	return &mock.Data{
		Hubs: []content.Hub{
			{ID: "hub-a", Name: "Hub A"},
			{ID: "hub-b", Name: "Hub B"},
			{ID: "hub-c", Name: "Hub C"},
		},
		Projects: map[string][]content.Project{
			"hub-a": {{ID: "p-a1", Name: "Project A1"}, {ID: "p-a2", Name: "Project A2"}},
			"hub-b": {{ID: "p-b1", Name: "Project B1"}, {ID: "p-b2", Name: "Project B2"}},
		},
		TopFolders: map[string][]mock.Ref{
			"p-a1": {{ID: "f-a1", Name: "Project Files"}, {ID: "", Name: "No ID"}},
			"p-a2": {{ID: "f-a2", Name: "Plans"}, {ID: "f-broken", Name: "Broken"}},
			"p-b2": {{ID: "f-b2", Name: "Project Files"}},
		},
		Folders: map[string]*mock.Folder{
			"f-a1": {
				Name:     "Project Files",
				Items:    []content.Item{{ID: "i-1", Name: "model.rvt", TypeName: "DesignItem"}},
				Children: []mock.Ref{{ID: "f-a1-sub", Name: "Sub"}},
			},
			"f-a1-sub": {
				Name:      "Sub",
				Exchanges: []content.Exchange{{ID: "e-1", Name: "walls", TypeName: "Exchange"}},
			},
			"f-a2": {Name: "Plans"},
			"f-b2": {Name: "Project Files"},
		},
		Errors: map[string]bool{"p-b1": true, "f-broken": true},
		Status: map[string]int{"hub-c": http.StatusForbidden},
	}
}

func newCollector(t *testing.T, data *mock.Data, mode tree.Mode, opts ...hierarchy.Option) *hierarchy.Collector {
	t.Helper()
	l := zaptest.NewLogger(t)
	s := mock.NewServer(t, data).Service(t, l)
	return hierarchy.New(l, s, tree.NewBuilder(l, s, tree.WithMode(mode)), opts...)
}

func TestCollect(t *testing.T) {
	for _, mode := range []tree.Mode{tree.ModeSequential, tree.ModeConcurrent} {
		t.Run(string(mode), func(t *testing.T) {
			h, report, err := newCollector(t, testData(), mode).Collect(t.Context(), "token")
			require.NoError(t, err)
			require.Len(t, h, 3)

			// hub a is complete
			hubA := h["hub-a"]
			assert.Equal(t, "Hub A", hubA.Name)
			require.Len(t, hubA.Projects, 2)
			a1 := hubA.Projects["p-a1"]
			assert.Equal(t, "Project A1", a1.Name)
			require.Len(t, a1.FolderTree, 1)
			assert.Equal(t, "f-a1", a1.FolderTree[0].ID)
			require.Len(t, a1.FolderTree[0].Folders, 1)
			assert.Equal(t, "walls", a1.FolderTree[0].Folders[0].Exchanges[0].Name)
			a2 := hubA.Projects["p-a2"]
			require.Len(t, a2.FolderTree, 1)
			assert.Equal(t, "f-a2", a2.FolderTree[0].ID)

			// hub b keeps the failing project with an empty folder tree
			hubB := h["hub-b"]
			require.Len(t, hubB.Projects, 2)
			assert.Equal(t, "Project B1", hubB.Projects["p-b1"].Name)
			assert.NotNil(t, hubB.Projects["p-b1"].FolderTree)
			assert.Empty(t, hubB.Projects["p-b1"].FolderTree)
			require.Len(t, hubB.Projects["p-b2"].FolderTree, 1)

			// hub c could not list its projects
			assert.Equal(t, "Hub C", h["hub-c"].Name)
			assert.Empty(t, h["hub-c"].Projects)

			kinds := map[tree.Kind][]string{}
			for _, s := range report.Skipped() {
				kinds[s.Kind] = append(kinds[s.Kind], s.ID)
			}
			assert.Equal(t, map[tree.Kind][]string{
				tree.KindHub:     {"hub-c"},
				tree.KindProject: {"p-b1"},
				tree.KindFolder:  {"f-broken"},
			}, kinds)
		})
	}
}

func TestCollectHubsFailure(t *testing.T) {
	data := testData()
	data.Errors[""] = true

	h, _, err := newCollector(t, data, tree.ModeConcurrent).Collect(t.Context(), "token")
	require.Error(t, err)
	assert.Nil(t, h)
}

func TestCollectOnTree(t *testing.T) {
	var (
		lock  sync.Mutex
		trees = map[string]string{}
	)
	c := newCollector(t, testData(), tree.ModeConcurrent, hierarchy.WithOnTree(func(hub content.Hub, project content.Project, root *content.FolderNode) {
		lock.Lock()
		defer lock.Unlock()
		trees[root.ID] = hub.ID + "/" + project.ID
	}))

	_, _, err := c.Collect(t.Context(), "token")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"f-a1": "hub-a/p-a1",
		"f-a2": "hub-a/p-a2",
		"f-b2": "hub-b/p-b2",
	}, trees)
}
