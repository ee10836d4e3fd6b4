package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/handler"
	"github.com/foomo/dxtree/pkg/utils"
	"github.com/foomo/dxtree/responses"
	keelhttp "github.com/foomo/keel/net/http"
	"github.com/pkg/errors"
)

type (
	// Client talks to a dxtree server
	Client struct {
		t transport
	}
	Option func(*httpTransport)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New returns a client for the server mounted at url, e.g. http://localhost:8080/dxtree
func New(url string, opts ...Option) (*Client, error) {
	if !utils.IsValidURL(url) {
		return nil, errors.Errorf("invalid server url: %q", url)
	}
	t := &httpTransport{
		endpoint: strings.TrimSuffix(url, "/"),
		client:   keelhttp.NewHTTPClient(keelhttp.HTTPClientWithTelemetry()),
	}
	for _, opt := range opts {
		opt(t)
	}
	return &Client{t: t}, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *httpTransport) {
		o.client = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Update tells the server to collect the hierarchy again. A rejected or failed
// collection is reported through the returned update.
func (c *Client) Update(ctx context.Context) (*responses.Update, error) {
	response := &responses.Update{}
	if err := c.t.call(ctx, handler.RouteUpdate, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetHierarchy returns the hierarchy the server currently holds
func (c *Client) GetHierarchy(ctx context.Context) (content.Hierarchy, error) {
	var response content.HierarchyJSON
	if err := c.t.call(ctx, handler.RouteHierarchy, &response); err != nil {
		return nil, err
	}
	return response.ToHierarchy(), nil
}
