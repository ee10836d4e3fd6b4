package mock

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/dataexchange"
	"github.com/foomo/dxtree/pkg/graphql"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Folder content of a folder as returned by the api
	Folder struct {
		Name      string
		Items     []content.Item
		Exchanges []content.Exchange
		// child folder references, an empty ID is passed on as is
		Children []Ref
	}
	// Ref shallow folder reference
	Ref struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	// Data fake data exchange account
	Data struct {
		Hubs       []content.Hub
		Projects   map[string][]content.Project // hub id => projects
		TopFolders map[string][]Ref             // project id => folder references
		Folders    map[string]*Folder           // folder id => folder
		// ids of hubs, projects or folders answering with graphql errors,
		// the empty id stands for the hubs query
		Errors map[string]bool
		// ids of hubs, projects or folders answering with a http status
		Status map[string]int
		// delay for every response
		Latency time.Duration
	}
	// Server fake graphql api
	Server struct {
		*httptest.Server
		data     *Data
		lock     sync.Mutex
		requests []map[string]interface{}
	}
	request struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
)

// NewServer starts a fake graphql api serving data
func NewServer(tb testing.TB, data *Data) *Server {
	tb.Helper()
	s := &Server{data: data}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	tb.Cleanup(s.Close)
	return s
}

// Service returns a data exchange service talking to the fake api
func (s *Server) Service(tb testing.TB, l *zap.Logger) *dataexchange.Service {
	tb.Helper()
	c, err := graphql.New(l, s.URL, graphql.WithHTTPClient(s.Client()))
	require.NoError(tb, err)
	return dataexchange.NewService(l, c)
}

// Requests returns the variables of all requests received so far
func (s *Server) Requests() []map[string]interface{} {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]map[string]interface{}{}, s.requests...)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if s.data.Latency > 0 {
		time.Sleep(s.data.Latency)
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.lock.Lock()
	s.requests = append(s.requests, req.Variables)
	s.lock.Unlock()

	id, data := s.resolve(req)
	if status, ok := s.data.Status[id]; ok {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if s.data.Errors[id] {
		s.write(w, map[string]interface{}{
			"data":   nil,
			"errors": []interface{}{map[string]interface{}{"message": "failed to resolve " + id}},
		})
		return
	}
	s.write(w, map[string]interface{}{"data": data})
}

func (s *Server) resolve(req request) (string, interface{}) {
	if id, ok := req.Variables[dataexchange.VariableHubID].(string); ok {
		return id, map[string]interface{}{"projects": map[string]interface{}{"results": s.data.Projects[id]}}
	}
	if id, ok := req.Variables[dataexchange.VariableProjectID].(string); ok {
		return id, map[string]interface{}{"project": map[string]interface{}{
			"folders": map[string]interface{}{"results": s.data.TopFolders[id]},
		}}
	}
	if id, ok := req.Variables[dataexchange.VariableFolderID].(string); ok {
		folder, ok := s.data.Folders[id]
		if !ok {
			return id, map[string]interface{}{"folder": nil}
		}
		return id, map[string]interface{}{"folder": map[string]interface{}{
			"id":        id,
			"name":      folder.Name,
			"items":     map[string]interface{}{"results": folder.Items},
			"exchanges": map[string]interface{}{"results": folder.Exchanges},
			"folders":   map[string]interface{}{"results": folder.Children},
		}}
	}
	return "", map[string]interface{}{"hubs": map[string]interface{}{"results": s.data.Hubs}}
}

func (s *Server) write(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
