package app_test

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/advdv/qz"
	"github.com/advdv/qz/app"
	"go.uber.org/zap"
)

// TestEnv is a test environment with app-specific fields beyond BaseEnvironment.
type TestEnv struct {
	app.BaseEnvironment
	DataDir string `env:"DATA_DIR" envDefault:"/var/data"`
}

// Handlers demonstrates fx injection of the runtime.
type Handlers struct {
	rt *app.Runtime[TestEnv]
}

func NewHandlers(rt *app.Runtime[TestEnv]) *Handlers {
	return &Handlers{rt: rt}
}

func (h *Handlers) routing(b *qz.Builder) {
	b.RouteFunc("/context", qz.MethodGet, h.TestContext)
	b.RouteFunc("/items", qz.MethodPost, h.CreateItem)
	b.RouteFunc("/items/*", qz.MethodGet, h.GetItem, "get-item")
	b.RouteFunc("/panic", qz.MethodGet, func(context.Context, *qz.Request) (*qz.Response, error) {
		panic("handler exploded")
	})
}

func (h *Handlers) TestContext(ctx context.Context, _ *qz.Request) (*qz.Response, error) {
	env := h.rt.Env()

	itemURL, err := h.rt.Reverse("get-item", "test-123")
	if err != nil {
		return nil, err
	}

	app.Span(ctx).AddEvent("context-test")
	app.Log(ctx).Info("testing context features")

	greeting, _ := qz.State[string](ctx)

	return jsonResponse(qz.CodeOK, map[string]any{
		"data_dir":     env.DataDir,
		"service_name": env.ServiceName,
		"reversed_url": itemURL,
		"state":        greeting,
	})
}

func (h *Handlers) CreateItem(ctx context.Context, r *qz.Request) (*qz.Response, error) {
	var body map[string]any
	if err := r.DecodeJSON(&body); err != nil {
		return nil, err
	}

	app.Span(ctx).AddEvent("creating-item")
	app.Log(ctx).Info("creating item", zap.String("name", r.JSONPath("name").String()))

	return jsonResponse(qz.CodeCreated, map[string]any{
		"id":   "item-123",
		"data": body,
	})
}

func (h *Handlers) GetItem(ctx context.Context, r *qz.Request) (*qz.Response, error) {
	id := strings.TrimPrefix(string(r.Path()), "/items/")
	selfURL, _ := h.rt.Reverse("get-item", id)

	app.Log(ctx).Info("getting item")

	return jsonResponse(qz.CodeOK, map[string]any{
		"id":       id,
		"self_url": selfURL,
	})
}

func jsonResponse(c qz.Code, v any) (*qz.Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return qz.Bytes(c, "application/json", b), nil
}
