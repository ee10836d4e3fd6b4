package graphql_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foomo/dxtree/pkg/graphql"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestServer(t *testing.T, status int, body string, inspect func(r *http.Request, body []byte)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestBody, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if inspect != nil {
			inspect(r, requestBody)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, url string, opts ...graphql.Option) *graphql.Client {
	t.Helper()
	c, err := graphql.New(zaptest.NewLogger(t), url, opts...)
	require.NoError(t, err)
	return c
}

func TestNewInvalidURL(t *testing.T) {
	for _, url := range []string{"", "bogus", "/graphql", "ftp://example.com"} {
		c, err := graphql.New(zaptest.NewLogger(t), url)
		assert.Nil(t, c)
		assert.Error(t, err)
	}
}

func TestExecuteRequest(t *testing.T) {
	var (
		gotHeader http.Header
		gotMethod string
		gotBody   map[string]interface{}
	)
	server := newTestServer(t, http.StatusOK, `{"data":{"hubs":{"results":[]}}}`, func(r *http.Request, body []byte) {
		gotHeader = r.Header.Clone()
		gotMethod = r.Method
		assert.NoError(t, json.Unmarshal(body, &gotBody))
	})
	c := newTestClient(t, server.URL, graphql.WithRegion("EMEA"), graphql.WithHTTPClient(server.Client()))

	data, err := c.Execute(t.Context(), "query { hubs }", "secret", map[string]interface{}{"hubId": "h-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hubs":{"results":[]}}`, string(data))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer secret", gotHeader.Get("Authorization"))
	assert.Equal(t, "EMEA", gotHeader.Get("x-ads-region"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "query { hubs }", gotBody["query"])
	assert.Equal(t, map[string]interface{}{"hubId": "h-1"}, gotBody["variables"])
}

func TestExecuteWithoutVariables(t *testing.T) {
	var gotBody map[string]interface{}
	server := newTestServer(t, http.StatusOK, `{"data":{}}`, func(r *http.Request, body []byte) {
		assert.NoError(t, json.Unmarshal(body, &gotBody))
	})
	c := newTestClient(t, server.URL)

	_, err := c.Execute(t.Context(), "query { hubs }", "secret", nil)
	require.NoError(t, err)
	assert.NotContains(t, gotBody, "variables")
}

func TestExecuteGraphQLErrors(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"data":{"hubs":null},"errors":[{"message":"forbidden"},{"message":"nope"}]}`, nil)
	c := newTestClient(t, server.URL)

	data, err := c.Execute(t.Context(), "query { hubs }", "secret", nil)
	require.Error(t, err)
	assert.Nil(t, data)

	var gqlErr *graphql.Error
	require.True(t, errors.As(err, &gqlErr))
	require.Len(t, gqlErr.Errors, 2)
	assert.JSONEq(t, `{"message":"forbidden"}`, string(gqlErr.Errors[0]))
	assert.Contains(t, err.Error(), "forbidden")
}

func TestExecuteGraphQLErrorsNull(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"data":{"hubs":{"results":[]}},"errors":null}`, nil)
	c := newTestClient(t, server.URL)

	_, err := c.Execute(t.Context(), "query { hubs }", "secret", nil)
	var gqlErr *graphql.Error
	assert.True(t, errors.As(err, &gqlErr))
}

func TestExecuteStatusError(t *testing.T) {
	server := newTestServer(t, http.StatusUnauthorized, `{"message":"token expired"}`, nil)
	c := newTestClient(t, server.URL)

	data, err := c.Execute(t.Context(), "query { hubs }", "secret", nil)
	require.Error(t, err)
	assert.Nil(t, data)

	var statusErr *graphql.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "token expired")
}

func TestExecuteMissingData(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":null}`} {
		server := newTestServer(t, http.StatusOK, body, nil)
		c := newTestClient(t, server.URL)

		data, err := c.Execute(t.Context(), "query { hubs }", "secret", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	}
}

func TestExecuteBrokenJSON(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"data":`, nil)
	c := newTestClient(t, server.URL)

	_, err := c.Execute(t.Context(), "query { hubs }", "secret", nil)
	require.Error(t, err)
}
