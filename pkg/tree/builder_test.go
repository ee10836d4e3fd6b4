package tree_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/dataexchange/mock"
	"github.com/foomo/dxtree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// root has 6 child references: 1 without id, 2 failing, 1 missing and
// 2 good ones, one of them with a failing grand child
func testData() *mock.Data {
	return &mock.Data{
		Folders: map[string]*mock.Folder{
			"root": {
				Name:      "Root",
				Items:     []content.Item{{ID: "i-root", Name: "root.rvt", TypeName: "DesignItem"}},
				Exchanges: []content.Exchange{{ID: "e-root", Name: "root exchange", TypeName: "Exchange"}},
				Children: []mock.Ref{
					{ID: "a", Name: "A"},
					{ID: "", Name: "No ID"},
					{ID: "broken", Name: "Broken"},
					{ID: "denied", Name: "Denied"},
					{ID: "missing", Name: "Missing"},
					{ID: "b", Name: "B"},
				},
			},
			"a": {
				Name:     "A",
				Items:    []content.Item{{ID: "i-a", Name: "a.ifc"}},
				Children: []mock.Ref{{ID: "a1", Name: "A1"}, {ID: "a2", Name: "A2"}},
			},
			"a1": {Name: "A1", Children: []mock.Ref{{ID: "a1x", Name: "A1X"}}},
			"a2": {Name: "A2"},
			"b":  {Name: "B", Children: []mock.Ref{{ID: "b-broken", Name: "B Broken"}}},
		},
		Errors: map[string]bool{"broken": true, "b-broken": true},
		Status: map[string]int{"denied": http.StatusInternalServerError},
	}
}

func names(nodes []*content.FolderNode) []string {
	ret := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, n.Name)
	}
	return ret
}

func TestParseMode(t *testing.T) {
	mode, err := tree.ParseMode("sequential")
	require.NoError(t, err)
	assert.Equal(t, tree.ModeSequential, mode)

	mode, err = tree.ParseMode("concurrent")
	require.NoError(t, err)
	assert.Equal(t, tree.ModeConcurrent, mode)

	_, err = tree.ParseMode("parallel")
	require.EqualError(t, err, `unknown tree mode "parallel" (supported: sequential, concurrent)`)
	// pkg/errors attaches a stack trace
	assert.Contains(t, fmt.Sprintf("%+v", err), "ParseMode")
}

func TestExpand(t *testing.T) {
	for _, mode := range []tree.Mode{tree.ModeSequential, tree.ModeConcurrent} {
		t.Run(string(mode), func(t *testing.T) {
			l := zaptest.NewLogger(t)
			s := mock.NewServer(t, testData()).Service(t, l)
			b := tree.NewBuilder(l, s, tree.WithMode(mode))
			report := tree.NewReport()

			root, err := b.Expand(t.Context(), "token", "root", report)
			require.NoError(t, err)
			require.NotNil(t, root)

			// 6 references, 5 with an id, 2 expanded
			assert.Equal(t, []string{"A", "B"}, names(root.Folders))
			assert.Len(t, root.Items, 1)
			assert.Len(t, root.Exchanges, 1)

			a := root.Folders[0]
			assert.Equal(t, []string{"A1", "A2"}, names(a.Folders))
			assert.Empty(t, a.Folders[0].Folders, "a1x does not exist")
			assert.NotNil(t, a.Folders[1].Folders)
			assert.Empty(t, root.Folders[1].Folders, "b-broken fails")

			skipped := report.Skipped()
			ids := make([]string, 0, len(skipped))
			for _, s := range skipped {
				assert.Equal(t, tree.KindFolder, s.Kind)
				assert.Error(t, s.Err)
				ids = append(ids, s.ID)
			}
			assert.ElementsMatch(t, []string{"broken", "denied", "b-broken"}, ids)
			assert.Error(t, report.Err())
		})
	}
}

func TestExpandBlankNames(t *testing.T) {
	data := &mock.Data{
		Folders: map[string]*mock.Folder{
			"root": {
				Name:      "",
				Items:     []content.Item{{ID: "i-1", Name: ""}},
				Exchanges: []content.Exchange{{ID: "e-1", Name: ""}},
				Children:  []mock.Ref{{ID: "c", Name: ""}},
			},
			"c": {Name: "", Children: []mock.Ref{{ID: "d", Name: "D"}}},
			"d": {Name: "D"},
		},
	}
	for _, mode := range []tree.Mode{tree.ModeSequential, tree.ModeConcurrent} {
		t.Run(string(mode), func(t *testing.T) {
			l := zaptest.NewLogger(t)
			b := tree.NewBuilder(l, mock.NewServer(t, data).Service(t, l), tree.WithMode(mode))
			report := tree.NewReport()

			root, err := b.Expand(t.Context(), "token", "root", report)
			require.NoError(t, err)
			require.NotNil(t, root)
			assert.Equal(t, 0, report.Len())
			assert.Len(t, root.Items, 1)
			assert.Len(t, root.Exchanges, 1)
			require.Len(t, root.Folders, 1)
			assert.Equal(t, "c", root.Folders[0].ID)
			assert.Equal(t, []string{"D"}, names(root.Folders[0].Folders))
		})
	}
}

func TestExpandModesMatch(t *testing.T) {
	l := zaptest.NewLogger(t)
	s := mock.NewServer(t, testData()).Service(t, l)

	sequential, err := tree.NewBuilder(l, s, tree.WithMode(tree.ModeSequential)).Expand(t.Context(), "token", "root", nil)
	require.NoError(t, err)
	concurrent, err := tree.NewBuilder(l, s, tree.WithMode(tree.ModeConcurrent)).Expand(t.Context(), "token", "root", nil)
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
}

func TestExpandAbsent(t *testing.T) {
	l := zaptest.NewLogger(t)
	s := mock.NewServer(t, testData()).Service(t, l)
	report := tree.NewReport()

	root, err := tree.NewBuilder(l, s).Expand(t.Context(), "token", "missing", report)
	require.NoError(t, err)
	assert.Nil(t, root)
	assert.Equal(t, 0, report.Len())
	assert.NoError(t, report.Err())
}

func TestExpandRootFailure(t *testing.T) {
	l := zaptest.NewLogger(t)
	s := mock.NewServer(t, testData()).Service(t, l)

	root, err := tree.NewBuilder(l, s).Expand(t.Context(), "token", "broken", nil)
	require.Error(t, err)
	assert.Nil(t, root)
}

func TestExpandLeaf(t *testing.T) {
	l := zaptest.NewLogger(t)
	s := mock.NewServer(t, testData()).Service(t, l)

	leaf, err := tree.NewBuilder(l, s).Expand(t.Context(), "token", "a2", nil)
	require.NoError(t, err)
	require.NotNil(t, leaf)
	assert.NotNil(t, leaf.Items)
	assert.NotNil(t, leaf.Exchanges)
	assert.NotNil(t, leaf.Folders)
	assert.Empty(t, leaf.Folders)
}

func TestExpandRefs(t *testing.T) {
	l := zaptest.NewLogger(t)
	s := mock.NewServer(t, testData()).Service(t, l)
	report := tree.NewReport()

	refs := []*content.FolderNode{
		content.NewShallowFolder("b", "B"),
		content.NewShallowFolder("", "No ID"),
		content.NewShallowFolder("broken", "Broken"),
		content.NewShallowFolder("a2", "A2"),
	}
	trees := tree.NewBuilder(l, s).ExpandRefs(t.Context(), "token", "project", refs, report)
	assert.Equal(t, []string{"B", "A2"}, names(trees))
	assert.Equal(t, 2, report.Len())
}

func TestExpandConcurrentFanOut(t *testing.T) {
	data := &mock.Data{
		Folders: map[string]*mock.Folder{
			"root": {Name: "Root"},
		},
		Latency: 50 * time.Millisecond,
	}
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8"} {
		data.Folders["root"].Children = append(data.Folders["root"].Children, mock.Ref{ID: id, Name: id})
		data.Folders[id] = &mock.Folder{Name: id}
	}
	l := zaptest.NewLogger(t)
	s := mock.NewServer(t, data).Service(t, l)

	start := time.Now()
	root, err := tree.NewBuilder(l, s, tree.WithMode(tree.ModeConcurrent)).Expand(t.Context(), "token", "root", nil)
	require.NoError(t, err)
	require.Len(t, root.Folders, 8)
	assert.Equal(t, "c1", root.Folders[0].Name)
	assert.Equal(t, "c8", root.Folders[7].Name)
	// root plus one level of siblings in parallel, sequential would take 9 round trips
	assert.Less(t, time.Since(start), 8*data.Latency)
}
