package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stockform/pkg/model"
	"github.com/goliatone/go-stockform/pkg/payload"
	"github.com/goliatone/go-stockform/pkg/routes"
)

type capturedRequest struct {
	Payload   payload.Payload
	RequestID string
	Auth      string
	Type      string
}

func newInventoryAPI(t *testing.T, respond func(c *gin.Context)) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var captured []capturedRequest
	router := gin.New()
	router.POST("/api/product/add", func(c *gin.Context) {
		var body payload.Payload
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, "bad json")
			return
		}
		captured = append(captured, capturedRequest{
			Payload:   body,
			RequestID: c.GetHeader(RequestIDHeader),
			Auth:      c.GetHeader("Authorization"),
			Type:      c.ContentType(),
		})
		respond(c)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, &captured
}

func addProductRoute() routes.Route {
	return routes.Route{OperationID: model.OperationAddProduct, Method: http.MethodPost, Path: "/product/add"}
}

func samplePayload() payload.Payload {
	return payload.Payload{
		GodownID:        "gd-42",
		ProductName:     "Inverter",
		ProductCategory: "Solar",
		TotalQuantity:   "12",
		ProductVolume:   "3",
		Price:           "4500",
		ProductType:     5,
	}
}

func TestSend_Success(t *testing.T) {
	srv, captured := newInventoryAPI(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": "p-1"})
	})

	client, err := New(srv.URL+"/api/", addProductRoute(),
		WithHeader("Authorization", "Bearer t0k"),
		WithRequestIDGenerator(func() string { return "req-1" }),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if got := client.Endpoint(); got != srv.URL+"/api/product/add" {
		t.Fatalf("unexpected endpoint %q", got)
	}

	resp, err := client.Send(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.RequestID != "req-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if string(resp.Body) != `{"id":"p-1"}` {
		t.Fatalf("unexpected body %q", resp.Body)
	}

	want := []capturedRequest{{
		Payload:   samplePayload(),
		RequestID: "req-1",
		Auth:      "Bearer t0k",
		Type:      "application/json",
	}}
	if diff := cmp.Diff(want, *captured); diff != "" {
		t.Fatalf("captured request mismatch (-want +got):\n%s", diff)
	}
}

func TestSend_ServerErrorDetail(t *testing.T) {
	cases := []struct {
		name       string
		respond    func(c *gin.Context)
		wantStatus int
		wantDetail string
		wantFields map[string][]string
	}{
		{
			name: "json string",
			respond: func(c *gin.Context) {
				c.JSON(http.StatusConflict, "Product already exists")
			},
			wantStatus: http.StatusConflict,
			wantDetail: "Product already exists",
		},
		{
			name: "message object with field errors",
			respond: func(c *gin.Context) {
				c.JSON(http.StatusBadRequest, gin.H{
					"message": "Validation failed",
					"errors": gin.H{
						"body.price":       []string{"must be positive", "must be positive"},
						"/productName":     "too short",
						"non_field_errors": []string{"godown closed"},
					},
				})
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Validation failed",
			wantFields: map[string][]string{
				model.FieldPrice:       {"must be positive"},
				model.FieldProductName: {"too short"},
			},
		},
		{
			name: "nested error message",
			respond: func(c *gin.Context) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{"message": "Godown not found"}})
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "Godown not found",
		},
		{
			name: "form level only",
			respond: func(c *gin.Context) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"__all__": []string{"quota exceeded"}}})
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "quota exceeded",
		},
		{
			name: "plain text",
			respond: func(c *gin.Context) {
				c.String(http.StatusInternalServerError, "upstream exploded")
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "upstream exploded",
		},
		{
			name: "empty body",
			respond: func(c *gin.Context) {
				c.Status(http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newInventoryAPI(t, tc.respond)
			client, err := New(srv.URL+"/api", addProductRoute(), WithForm(model.ProductForm()))
			if err != nil {
				t.Fatalf("new client: %v", err)
			}

			_, err = client.Send(context.Background(), samplePayload())
			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected *ServerError, got %T %v", err, err)
			}
			if serverErr.StatusCode != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, serverErr.StatusCode)
			}
			if serverErr.Detail != tc.wantDetail {
				t.Fatalf("expected detail %q, got %q", tc.wantDetail, serverErr.Detail)
			}
			if diff := cmp.Diff(tc.wantFields, serverErr.Fields); diff != "" {
				t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
			}
			if serverErr.RequestID == "" {
				t.Fatalf("expected request id on server error")
			}

			detail, ok := DetailOf(err)
			if ok != (tc.wantDetail != "") || detail != tc.wantDetail {
				t.Fatalf("DetailOf returned %q, %v", detail, ok)
			}
		})
	}
}

func TestSend_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, addProductRoute(), WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Send(context.Background(), samplePayload())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T %v", err, err)
	}
	if _, ok := DetailOf(err); ok {
		t.Fatalf("network errors carry no server detail")
	}
}

func TestNew_BaseURL(t *testing.T) {
	if _, err := New("", addProductRoute()); !errors.Is(err, ErrBaseURLRequired) {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
	if _, err := New("localhost:8080", addProductRoute()); err == nil {
		t.Fatalf("expected relative base url to be rejected")
	}

	c, err := New("https://inventory.example.com/api", routes.Route{Path: "product/add"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.Endpoint() != "https://inventory.example.com/api/product/add" {
		t.Fatalf("unexpected endpoint %q", c.Endpoint())
	}
	if c.method != http.MethodPost {
		t.Fatalf("expected default POST, got %q", c.method)
	}
}
