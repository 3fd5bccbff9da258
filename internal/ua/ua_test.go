// internal/ua/ua_test.go

package ua

import "testing"

const chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" +
	" (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

func TestParse_Browser(t *testing.T) {
	info := Parse(chromeWindows)
	if info.Browser != "Chrome" {
		t.Errorf("browser = %q, want Chrome", info.Browser)
	}
	if info.Version != "125" {
		t.Errorf("version = %q, want 125", info.Version)
	}
	if info.OS != "Windows" {
		t.Errorf("os = %q, want Windows", info.OS)
	}
	if info.Device != "Desktop" {
		t.Errorf("device = %q, want Desktop", info.Device)
	}
	if info.IsBot {
		t.Error("desktop browser classified as bot")
	}
	if got := info.Label(); got != "Chrome/Desktop" {
		t.Errorf("label = %q", got)
	}
}

func TestParse_Bot(t *testing.T) {
	info := Parse("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	if !info.IsBot {
		t.Fatalf("crawler not detected: %+v", info)
	}
	if got := info.Label(); got != "bot" {
		t.Errorf("label = %q, want bot", got)
	}
}

// Rig agents and scripts often send no User-Agent at all; that is a normal
// automated client, not an error.
func TestParse_Empty(t *testing.T) {
	info := Parse("")
	if !info.IsBot || info.Device != "Other" {
		t.Errorf("empty header parsed as %+v", info)
	}
	if got := info.Label(); got != "bot" {
		t.Errorf("label = %q, want bot", got)
	}
}

func TestVersionTrimming(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/17.3.1 Safari/537.36", "17.3.1"},
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/17.3.0 Safari/537.36", "17.3"},
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/17.0.0 Safari/537.36", "17"},
	}
	for _, c := range cases {
		if got := Parse(c.raw).Version; got != c.want {
			t.Errorf("%q: version = %q, want %q", c.raw, got, c.want)
		}
	}
}
