package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/foomo/dxtree/pkg/metrics"
	"github.com/foomo/dxtree/pkg/repo"
	"github.com/foomo/dxtree/pkg/view"
	"github.com/foomo/dxtree/responses"
	httputils "github.com/foomo/keel/utils/net/http"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	HTTP struct {
		l        *zap.Logger
		basePath string
		repo     *repo.Repo
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP serves the folder browser, the hierarchy and the update trigger
func NewHTTP(l *zap.Logger, repo *repo.Repo, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:        l.Named("http"),
		basePath: "/dxtree",
		repo:     repo,
	}

	for _, opt := range opts {
		opt(inst)
	}
	inst.basePath = strings.TrimSuffix(inst.basePath, "/")

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithBasePath(v string) HTTPOption {
	return func(o *HTTP) {
		o.basePath = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	route := Route(strings.Trim(strings.TrimPrefix(r.URL.Path, h.basePath), "/"))

	status := "success"
	if err := h.serveRoute(w, r, route); err != nil {
		status = "error"
	}

	metrics.ServiceRequestCounter.WithLabelValues(route.label(), status).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(route.label(), status).Observe(time.Since(start).Seconds())
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) serveRoute(w http.ResponseWriter, r *http.Request, route Route) error {
	switch route {
	case RouteView, RouteHierarchy, RouteUpdate:
	default:
		reply := responses.NewErrorf(1, "unknown route: %s", route)
		reply.Status = http.StatusNotFound
		if err := h.writeReply(w, http.StatusNotFound, reply); err != nil {
			return err
		}
		return reply
	}

	if r.Method != route.method() {
		err := errors.New("method not allowed")
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, err)
		return err
	}

	switch route {
	case RouteView:
		data, err := h.repo.HierarchyBytes(r.Context())
		if err != nil {
			httputils.ServerError(h.l, w, r, http.StatusServiceUnavailable, errors.Wrap(err, "hierarchy not available"))
			return err
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, err = w.Write(view.Render(data))
		return err
	case RouteHierarchy:
		if _, err := h.repo.HierarchyBytes(r.Context()); err != nil {
			httputils.ServerError(h.l, w, r, http.StatusServiceUnavailable, errors.Wrap(err, "hierarchy not available"))
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		return h.repo.WriteHierarchyBytes(r.Context(), w)
	default:
		update := h.repo.Update(r.Context())
		if !update.Success {
			if err := h.writeReply(w, http.StatusInternalServerError, update); err != nil {
				return err
			}
			return errors.New(update.ErrorMessage)
		}
		return h.writeReply(w, http.StatusOK, update)
	}
}

// writeReply encodes the reply as {"reply": reply}
func (h *HTTP) writeReply(w http.ResponseWriter, code int, reply interface{}) error {
	bytes, err := json.Marshal(map[string]interface{}{
		"reply": reply,
	})
	if err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err = w.Write(bytes)
	return err
}
