package graphql

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/foomo/dxtree/pkg/metrics"
	"github.com/foomo/dxtree/pkg/utils"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRegion        = "x-ads-region"
	HeaderContentType   = "Content-Type"

	// maxErrorBodyLength limits how much of a failed response ends up in a StatusError
	maxErrorBodyLength = 512
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Client sends graphql documents to a single endpoint. It is safe for
	// concurrent use as long as the underlying http.Client is.
	Client struct {
		l          *zap.Logger
		url        string
		region     string
		httpClient *http.Client
	}
	Option func(*Client)

	request struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables,omitempty"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, url string, opts ...Option) (*Client, error) {
	if !utils.IsValidURL(url) {
		return nil, errors.Errorf("invalid graphql url %q", url)
	}
	inst := &Client{
		l:          l.Named("graphql"),
		url:        url,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithHTTPClient shares one http client, and thereby its connection pool,
// across all requests
func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

// WithRegion sets the x-ads-region header value
func WithRegion(v string) Option {
	return func(o *Client) {
		o.region = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Execute posts the query and returns the data field of the response, or an
// empty object if there is none. Non 2xx responses fail with a *StatusError,
// responses carrying an errors field fail with an *Error.
func (c *Client) Execute(ctx context.Context, query, token string, variables map[string]interface{}) (jsoniter.RawMessage, error) {
	start := time.Now()
	data, err := c.execute(ctx, query, token, variables)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.GraphQLRequestCounter.WithLabelValues(status).Inc()
	metrics.GraphQLRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return data, err
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) execute(ctx context.Context, query, token string, variables map[string]interface{}) (jsoniter.RawMessage, error) {
	payload := request{Query: query}
	if len(variables) > 0 {
		payload.Variables = variables
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create graphql request")
	}
	req.Header.Set(HeaderAuthorization, "Bearer "+token)
	req.Header.Set(HeaderRegion, c.region)
	req.Header.Set(HeaderContentType, "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send graphql request")
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read graphql response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := responseBytes
		if len(excerpt) > maxErrorBodyLength {
			excerpt = excerpt[:maxErrorBodyLength]
		}
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(excerpt),
		}
	}

	var envelope map[string]jsoniter.RawMessage
	if err := json.Unmarshal(responseBytes, &envelope); err != nil {
		return nil, errors.Wrap(err, "failed to decode graphql response")
	}

	// the presence of the field is what counts, not its content
	if rawErrors, ok := envelope["errors"]; ok {
		gqlErr := &Error{}
		if err := json.Unmarshal(rawErrors, &gqlErr.Errors); err != nil {
			gqlErr.Errors = []jsoniter.RawMessage{rawErrors}
		}
		c.l.Debug("graphql errors", zap.ByteString("errors", rawErrors))
		return nil, gqlErr
	}

	data, ok := envelope["data"]
	if !ok || isNull(data) {
		return jsoniter.RawMessage("{}"), nil
	}
	return data, nil
}

func isNull(raw jsoniter.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
