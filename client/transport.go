package client

import (
	"context"
	"io"
	"net/http"

	"github.com/foomo/dxtree/pkg/handler"
	"github.com/foomo/dxtree/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type transport interface {
	call(ctx context.Context, route handler.Route, response interface{}) error
}

type httpTransport struct {
	client   *http.Client
	endpoint string
}

type reply struct {
	Reply jsoniter.RawMessage `json:"reply"`
}

func (t *httpTransport) call(ctx context.Context, route handler.Route, response interface{}) error {
	method := http.MethodGet
	if route == handler.RouteUpdate {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, t.endpoint+"/"+string(route), nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", route)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read reply")
	}

	var r reply
	if err := json.Unmarshal(body, &r); err != nil || len(r.Reply) == 0 {
		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("%s: unexpected status %d", route, resp.StatusCode)
		}
		return errors.Errorf("%s: invalid reply", route)
	}

	// failed updates still carry their stats
	if resp.StatusCode != http.StatusOK && route != handler.RouteUpdate {
		replyErr := &responses.Error{}
		if err := json.Unmarshal(r.Reply, replyErr); err == nil && replyErr.Message != "" {
			return replyErr
		}
		return errors.Errorf("%s: unexpected status %d", route, resp.StatusCode)
	}
	return json.Unmarshal(r.Reply, response)
}
