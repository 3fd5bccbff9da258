// components/system/system_test.go

package system

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/yanizio/botfleet/internal/component"
	"github.com/yanizio/botfleet/internal/requestinfo"
)

func TestHealth(t *testing.T) {
	// No database handle on purpose; the endpoint must never need one.
	h := (&Comp{}).Mount(&component.Env{Log: zap.NewNop(), Version: "v1.2.3"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" || got["version"] != "v1.2.3" {
		t.Errorf("body = %#v", got)
	}
	for _, key := range []string{"go", "uptime_s", "timestamp"} {
		if _, ok := got[key]; !ok {
			t.Errorf("key %q missing from health body", key)
		}
	}
}

func TestInfo_EchoesRequestContext(t *testing.T) {
	inner := (&Comp{}).Mount(&component.Env{Log: zap.NewNop()})
	h := requestinfo.Enrich("X-Request-ID")(inner)

	req := httptest.NewRequest(http.MethodGet, "/info?probe=1", nil)
	req.Header.Set("X-Request-ID", "trace-me")
	req.Header.Set("User-Agent", "rig-agent/2.0")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["method"] != "GET" || got["path"] != "/info" || got["query"] != "probe=1" {
		t.Errorf("request echo = %#v", got)
	}
	if got["request_id"] != "trace-me" {
		t.Errorf("request_id = %#v", got["request_id"])
	}
	if got["ua_raw"] != "rig-agent/2.0" {
		t.Errorf("ua_raw = %#v", got["ua_raw"])
	}
}

func TestComponentContract(t *testing.T) {
	c := &Comp{}
	if c.Name() != "system" || c.Prefix() != "/system" {
		t.Errorf("identity = %q %q", c.Name(), c.Prefix())
	}
	if stmts := c.Migrations(); stmts != nil {
		t.Errorf("unexpected migrations: %#v", stmts)
	}
}
