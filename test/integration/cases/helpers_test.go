//go:build integration
// +build integration

package cases

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/tsudoba/event-registry/test/integration/infra"
	"github.com/tsudoba/event-registry/test/integration/infra/wait"
)

type Env struct {
	BaseURL string
	DBURL   string
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("missing env %s", k)
	}
	return v
}

func setup(t *testing.T) Env {
	t.Helper()

	e := Env{
		BaseURL: mustEnv(t, "REGISTRY_BASE_URL"),
		DBURL:   mustEnv(t, "DATABASE_URL"),
	}

	if err := wait.HTTP200(e.BaseURL+"/healthz", 10*time.Second); err != nil {
		t.Fatalf("event-registry not ready: %v", err)
	}

	db, err := infra.OpenDB(e.DBURL)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := infra.PingDB(db); err != nil {
		t.Fatalf("ping db: %v", err)
	}
	if err := infra.ResetEvents(db); err != nil {
		t.Fatalf("reset events: %v", err)
	}

	return e
}

type Envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Meta      map[string]string `json:"meta"`
		RequestID string            `json:"request_id"`
	} `json:"error,omitempty"`
}

func doJSON(t *testing.T, method, url string, body any) (int, Envelope, string) {
	t.Helper()

	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	var env Envelope
	_ = json.NewDecoder(io.TeeReader(resp.Body, &buf)).Decode(&env)
	return resp.StatusCode, env, buf.String()
}
