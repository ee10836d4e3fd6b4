package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/dataexchange/mock"
	"github.com/foomo/dxtree/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testData() *mock.Data {
	return &mock.Data{
		Hubs: []content.Hub{{ID: "h1", Name: "Hub"}},
		Projects: map[string][]content.Project{
			"h1": {{ID: "p1", Name: "Project"}},
		},
		TopFolders: map[string][]mock.Ref{
			"p1": {{ID: "f1", Name: "Project Files"}},
		},
		Folders: map[string]*mock.Folder{
			"f1": {
				Name:     "Project Files",
				Items:    []content.Item{{ID: "i1", Name: "model.rvt", TypeName: "Item"}},
				Children: []mock.Ref{{ID: "f2", Name: "Broken"}, {ID: "f3", Name: "Exchanges"}},
			},
			"f3": {
				Name:      "Exchanges",
				Exchanges: []content.Exchange{{ID: "x1", Name: "export", TypeName: "Exchange"}},
			},
		},
		Status: map[string]int{"f2": http.StatusBadGateway},
	}
}

func runCollect(t *testing.T, args ...string) string {
	t.Helper()
	s := mock.NewServer(t, testData())
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"collect", "--aps-token", "token", "--graphql-url", s.URL, "--log-level", "error"}, args...))
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestCollectPrintsTrees(t *testing.T) {
	for _, mode := range []string{"sequential", "concurrent"} {
		t.Run(mode, func(t *testing.T) {
			out := runCollect(t, "--tree-mode", mode)
			assert.Equal(t, strings.Join([]string{
				"Hub / Project",
				"└─ 📁 Project Files",
				"   ├─ 📄 model.rvt",
				"   └─ 📁 Exchanges",
				"      └─ 🔁 export",
				"",
			}, "\n"), out)
		})
	}
}

func TestCollectWritesOutput(t *testing.T) {
	dir := t.TempDir()

	htmlFile := filepath.Join(dir, "hierarchy.html")
	assert.Empty(t, runCollect(t, "-q", "-o", htmlFile))
	html, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.NotContains(t, string(html), view.Placeholder)
	assert.Contains(t, string(html), `"model.rvt"`)

	jsonFile := filepath.Join(dir, "hierarchy.json")
	runCollect(t, "-q", "--format", "json", "-o", jsonFile)
	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	var h content.HierarchyJSON
	require.NoError(t, json.Unmarshal(data, &h))
	root := h["h1"].Projects["p1"].FolderTree[0]
	assert.Equal(t, "f1", root.ID)
	require.Len(t, root.Folders, 1)
	assert.Equal(t, "Exchanges", root.Folders[0].Name)
}

func TestCollectErrors(t *testing.T) {
	tests := map[string][]string{
		"missing token":  {"collect", "--aps-token", ""},
		"unknown mode":   {"collect", "--aps-token", "token", "--tree-mode", "parallel"},
		"unknown format": {"collect", "--aps-token", "token", "--format", "xml"},
		"invalid url":    {"collect", "--aps-token", "token", "--graphql-url", "not a url"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APS_TOKEN", "")
			cmd := NewRootCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(append(args, "--log-level", "error"))
			assert.Error(t, cmd.ExecuteContext(context.Background()))
		})
	}
}

func TestCreateStorage(t *testing.T) {
	l := zaptest.NewLogger(t)

	v := newViper()
	v.Set("storage.type", "filesystem")
	v.Set("history.dir", t.TempDir())
	s, err := createStorage(context.Background(), v, l)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	for _, cfg := range []map[string]string{
		{"storage.type": "blob"},
		{"storage.type": "blob", "storage.blob.bucket": "s3://bucket"},
		{"storage.type": "ftp"},
	} {
		v := newViper()
		for k, val := range cfg {
			v.Set(k, val)
		}
		_, err := createStorage(context.Background(), v, l)
		assert.Error(t, err, cfg)
	}
}

func TestWithCORS(t *testing.T) {
	l := zaptest.NewLogger(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NotNil(t, withCORS(l, nil, next))

	h := withCORS(l, []string{"https://viewer.example.com"}, next)
	req := httptest.NewRequest(http.MethodGet, "/dxtree/", nil)
	req.Header.Set("Origin", "https://viewer.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://viewer.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
