package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stockform/pkg/client"
	"github.com/goliatone/go-stockform/pkg/feedback"
	"github.com/goliatone/go-stockform/pkg/form"
	"github.com/goliatone/go-stockform/pkg/model"
	"github.com/goliatone/go-stockform/pkg/payload"
	"github.com/goliatone/go-stockform/pkg/session"
	"github.com/goliatone/go-stockform/pkg/workflow"
)

type fakeAPI struct {
	server   *httptest.Server
	received []payload.Payload
	headers  []http.Header
	paths    []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	api := &fakeAPI{}
	router := gin.New()
	handler := func(c *gin.Context) {
		var body payload.Payload
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		api.received = append(api.received, body)
		api.headers = append(api.headers, c.Request.Header.Clone())
		api.paths = append(api.paths, c.Request.URL.Path)
		c.JSON(http.StatusCreated, gin.H{"id": "p-1"})
	}
	router.POST("/api/product/add", handler)
	router.PUT("/api/v2/products", handler)
	api.server = httptest.NewServer(router)
	t.Cleanup(api.server.Close)
	return api
}

var productValues = map[string]string{
	model.FieldProductName:     "Inverter",
	model.FieldProductCategory: "Solar",
	model.FieldProductType:     "8.8 kw",
	model.FieldTotalQuantity:   "12",
	model.FieldProductVolume:   "3",
	model.FieldPrice:           "4500",
}

func TestPrepare_SubmitsThroughResolvedRoute(t *testing.T) {
	api := newFakeAPI(t)

	var transitions []workflow.State
	orch := New(
		WithBaseURL(api.server.URL+"/api"),
		WithSessions(session.Static(session.Session{GodownID: "gd-9"})),
		WithHeaders(map[string]string{"X-Device": "kiosk-1"}),
		WithObserver(func(tr workflow.Transition) { transitions = append(transitions, tr.To) }),
	)

	sub, err := orch.Prepare(context.Background())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if sub.Route.Method != http.MethodPost || sub.Route.Path != "/product/add" {
		t.Fatalf("unexpected route %+v", sub.Route)
	}
	if err := sub.Fill(productValues); err != nil {
		t.Fatalf("fill: %v", err)
	}

	res, err := sub.Submit(context.Background())
	if err != nil || res.Outcome != workflow.OutcomeSuccess {
		t.Fatalf("expected success, got %v / %v / %v", res.Outcome, res.Err, err)
	}

	want := []payload.Payload{{
		GodownID:        "gd-9",
		ProductName:     "Inverter",
		ProductCategory: "Solar",
		TotalQuantity:   "12",
		ProductVolume:   "3",
		Price:           "4500",
		ProductType:     8.8,
	}}
	if diff := cmp.Diff(want, api.received); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if got := api.headers[0].Get("X-Device"); got != "kiosk-1" {
		t.Fatalf("expected static header, got %q", got)
	}
	if api.headers[0].Get(client.RequestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
	if len(transitions) == 0 || transitions[len(transitions)-1] != workflow.StateIdle {
		t.Fatalf("expected observer to see the return to idle, got %v", transitions)
	}

	recorder, ok := sub.Presenter.(*feedback.Recorder)
	if !ok {
		t.Fatalf("expected default recorder presenter, got %T", sub.Presenter)
	}
	if recorder.Count(feedback.KindNavigate) != 1 {
		t.Fatalf("expected navigation, got %v", recorder.Events())
	}
}

func TestPrepare_RouteOverrideAndDocument(t *testing.T) {
	api := newFakeAPI(t)
	doc := filepath.Join(t.TempDir(), "inventory.yaml")
	content := `openapi: 3.0.3
info:
  title: Inventory
  version: "2"
paths:
  /v2/products:
    post:
      operationId: addProduct
      responses:
        "201":
          description: created
`
	if err := os.WriteFile(doc, []byte(content), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	sub, err := New(
		WithBaseURL(api.server.URL+"/api"),
		WithRoutesDocument(doc),
		WithRouteOverride(RouteOverride{Method: "put"}),
		WithSessions(session.Static(session.Session{GodownID: "gd-9"})),
	).Prepare(context.Background())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if sub.Route.Method != http.MethodPut || sub.Route.Path != "/v2/products" {
		t.Fatalf("unexpected route %+v", sub.Route)
	}
	if err := sub.Fill(productValues); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if res, err := sub.Submit(context.Background()); err != nil || res.Outcome != workflow.OutcomeSuccess {
		t.Fatalf("expected success, got %v / %v", res.Outcome, err)
	}
	if diff := cmp.Diff([]string{"/api/v2/products"}, api.paths); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_InvalidOverride(t *testing.T) {
	_, err := New(
		WithBaseURL("http://localhost"),
		WithRouteOverride(RouteOverride{Method: http.MethodGet}),
	).Prepare(context.Background())
	if !errors.Is(err, ErrInvalidOverride) {
		t.Fatalf("expected ErrInvalidOverride, got %v", err)
	}

	_, err = New(
		WithBaseURL("http://localhost"),
		WithRouteOverride(RouteOverride{Path: "product/add"}),
	).Prepare(context.Background())
	if !errors.Is(err, ErrInvalidOverride) {
		t.Fatalf("expected ErrInvalidOverride for relative path, got %v", err)
	}
}

func TestPrepare_MissingBaseURL(t *testing.T) {
	if _, err := New().Prepare(context.Background()); !errors.Is(err, client.ErrBaseURLRequired) {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}

func TestPrepare_NoSessionFailsWithoutNetwork(t *testing.T) {
	api := newFakeAPI(t)
	presenter := feedback.NewRecorder(nil)

	sub, err := New(
		WithBaseURL(api.server.URL+"/api"),
		WithPresenter(presenter),
		WithMessages(feedback.Messages{SessionMissing: "Please sign in"}),
	).Prepare(context.Background())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := sub.Fill(productValues); err != nil {
		t.Fatalf("fill: %v", err)
	}

	res, err := sub.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Outcome != workflow.OutcomeFailed || !errors.Is(res.Err, session.ErrSessionMissing) {
		t.Fatalf("expected session failure, got %v / %v", res.Outcome, res.Err)
	}
	if len(api.received) != 0 {
		t.Fatalf("expected no request, got %d", len(api.received))
	}
	want := []feedback.Notification{{Kind: feedback.KindError, Message: "Please sign in"}}
	if diff := cmp.Diff(want, presenter.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_RejectsUnknownField(t *testing.T) {
	sub, err := New(WithBaseURL("http://localhost")).Prepare(context.Background())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := sub.Fill(map[string]string{"colour": "red"}); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestFill_ProductTypeAcceptsTagOrLabel(t *testing.T) {
	sub, err := New(WithBaseURL("http://localhost")).Prepare(context.Background())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, raw := range []string{"20", "20 KW", " 20 kw "} {
		if err := sub.Fill(map[string]string{model.FieldProductType: raw}); err != nil {
			t.Fatalf("fill %q: %v", raw, err)
		}
		if got := sub.Form.Value(model.FieldProductType); got != "20" {
			t.Fatalf("fill %q: expected tag 20, got %q", raw, got)
		}
	}
}
