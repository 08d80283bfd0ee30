package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stockform/internal/config"
	"github.com/goliatone/go-stockform/pkg/payload"
	"github.com/goliatone/go-stockform/pkg/session"
)

type cliEnv struct {
	dir      string
	config   string
	dotenv   string
	received []payload.Payload
}

func newCLIEnv(t *testing.T, backend string) *cliEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &cliEnv{dir: t.TempDir()}
	router := gin.New()
	router.POST("/api/product/add", func(c *gin.Context) {
		var body payload.Payload
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		env.received = append(env.received, body)
		c.JSON(http.StatusCreated, gin.H{"id": "p-1"})
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	sessionPath := filepath.Join(env.dir, "session."+backend)
	env.config = writeTestFile(t, env.dir, "stockform.yaml", fmt.Sprintf(`
api:
  base_url: %s/api
  timeout: 5s
session:
  backend: %s
  path: %s
logging:
  level: error
`, srv.URL, backend, sessionPath))
	env.dotenv = writeTestFile(t, env.dir, ".env", "")
	return env
}

func (e *cliEnv) run(args ...string) error {
	full := append([]string{"-config", e.config, "-dotenv", e.dotenv}, args...)
	return run(context.Background(), full, &bytes.Buffer{})
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const validValues = `
productName: Inverter
productCategory: Solar
productType: 5 kw
totalQuantity: 12
productVolume: 3
price: 0045
`

func TestRun_SessionSetThenAddFromValues(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			env := newCLIEnv(t, backend)

			if err := env.run("session", "set", "-godown-id", "gd-5", "-name", "Asha"); err != nil {
				t.Fatalf("session set: %v", err)
			}

			values := writeTestFile(t, env.dir, "values.yaml", validValues)
			if err := env.run("add", "-values", values); err != nil {
				t.Fatalf("add: %v", err)
			}

			want := []payload.Payload{{
				GodownID:        "gd-5",
				ProductName:     "Inverter",
				ProductCategory: "Solar",
				TotalQuantity:   "12",
				ProductVolume:   "3",
				Price:           "0045",
				ProductType:     5,
			}}
			if diff := cmp.Diff(want, env.received); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_AddWithoutSessionFails(t *testing.T) {
	env := newCLIEnv(t, config.BackendFile)
	values := writeTestFile(t, env.dir, "values.yaml", validValues)

	err := env.run("add", "-values", values)
	if err == nil || !strings.Contains(err.Error(), "submission failed") {
		t.Fatalf("expected submission failure, got %v", err)
	}
	if len(env.received) != 0 {
		t.Fatalf("expected no request without a session")
	}
}

func TestRun_AddReportsFieldErrors(t *testing.T) {
	env := newCLIEnv(t, config.BackendFile)
	if err := env.run("session", "set", "-godown-id", "gd-5"); err != nil {
		t.Fatalf("session set: %v", err)
	}
	values := writeTestFile(t, env.dir, "values.yaml", `
productName: Inverter
productType: "5"
totalQuantity: 12
productVolume: 3
price: 12a
`)

	err := env.run("add", "-values", values)
	if err == nil {
		t.Fatalf("expected invalid values error")
	}
	want := "invalid values: price: Numbers only; productCategory: Product Category is required"
	if err.Error() != want {
		t.Fatalf("unexpected error:\n got %q\nwant %q", err.Error(), want)
	}
}

func TestRun_SessionSetValidates(t *testing.T) {
	env := newCLIEnv(t, config.BackendFile)
	if err := env.run("session", "set", "-name", "Asha"); err == nil {
		t.Fatalf("expected missing godown id to be rejected")
	}
	if err := env.run("session", "list"); err == nil {
		t.Fatalf("expected unknown session subcommand to fail")
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	env := newCLIEnv(t, config.BackendFile)
	if err := env.run("remove"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestOpenStore_Memory(t *testing.T) {
	store, closeStore, err := openStore(context.Background(), config.SessionConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeStore()
	if _, err := store.Get(context.Background(), session.DefaultKey); err == nil {
		t.Fatalf("expected empty memory store")
	}
}

func TestReadValues(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "values.yaml", "price: 007\nproductType: 8.8\n")
	got, err := readValues(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"price": "007", "productType": "8.8"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	nested := writeTestFile(t, dir, "nested.yaml", "price:\n  amount: 7\n")
	if _, err := readValues(nested); err == nil {
		t.Fatalf("expected nested value to be rejected")
	}
}
