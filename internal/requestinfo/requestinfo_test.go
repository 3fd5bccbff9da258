// internal/requestinfo/requestinfo_test.go

package requestinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

const headerName = "X-Request-ID"

func capture(t *testing.T, mutate func(*http.Request)) (*Info, *httptest.ResponseRecorder) {
	t.Helper()
	var captured *Info
	h := Enrich(headerName)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if captured == nil {
		t.Fatal("Info missing from request context")
	}
	return captured, rr
}

func TestEnrich_EchoesInboundID(t *testing.T) {
	info, rr := capture(t, func(r *http.Request) {
		r.Header.Set(headerName, "client-supplied")
	})
	if info.RequestID != "client-supplied" {
		t.Errorf("request id = %q", info.RequestID)
	}
	if got := rr.Header().Get(headerName); got != "client-supplied" {
		t.Errorf("response header = %q", got)
	}
}

func TestEnrich_GeneratesID(t *testing.T) {
	info, rr := capture(t, nil)
	if _, err := uuid.Parse(info.RequestID); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", info.RequestID, err)
	}
	if got := rr.Header().Get(headerName); got != info.RequestID {
		t.Errorf("response header %q != context id %q", got, info.RequestID)
	}
	if info.Start.IsZero() {
		t.Error("start time not recorded")
	}
}

func TestEnrich_ClientIPPrecedence(t *testing.T) {
	// X-Forwarded-For wins, left-most entry.
	info, _ := capture(t, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		r.Header.Set("X-Real-Ip", "198.51.100.9")
	})
	if info.IP.String() != "203.0.113.7" {
		t.Errorf("ip = %v, want 203.0.113.7", info.IP)
	}

	// Then X-Real-Ip.
	info, _ = capture(t, func(r *http.Request) {
		r.Header.Set("X-Real-Ip", "198.51.100.9")
	})
	if info.IP.String() != "198.51.100.9" {
		t.Errorf("ip = %v, want 198.51.100.9", info.IP)
	}

	// Fallback: RemoteAddr, set by httptest to 192.0.2.1:1234.
	info, _ = capture(t, nil)
	if info.IP.String() != "192.0.2.1" {
		t.Errorf("ip = %v, want 192.0.2.1", info.IP)
	}
}

func TestEnrich_ClassifiesUserAgent(t *testing.T) {
	info, _ := capture(t, func(r *http.Request) {
		r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	})
	if !info.UA.IsBot {
		t.Errorf("crawler not classified as bot: %+v", info.UA)
	}
}

func TestFromContext_Bare(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("bare context yielded an Info")
	}
	if RequestID(context.Background()) != "" {
		t.Error("bare context yielded a request id")
	}
}
