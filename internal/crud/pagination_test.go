// internal/crud/pagination_test.go

package crud

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		want    int64
	}{
		{41, 20, 3},
		{40, 20, 2},
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 100, 1},
		{101, 100, 2},
		{-5, 20, 0},
	}
	for _, c := range cases {
		if got := PageCount(c.total, c.perPage); got != c.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", c.total, c.perPage, got, c.want)
		}
	}
}

func TestNewPage_Envelope(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 41, 3, 20)
	if p.Total != 41 || p.Page != 3 || p.PerPage != 20 || p.Pages != 3 {
		t.Errorf("envelope = %+v", p)
	}
	if len(p.Items) != 2 {
		t.Errorf("items = %#v", p.Items)
	}
}

// A nil item slice must serialize as [] so clients always see a list.
func TestNewPage_NilItems(t *testing.T) {
	p := NewPage[string](nil, 0, 1, 20)
	if p.Items == nil {
		t.Fatal("items not normalized to empty slice")
	}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"items":[]`) {
		t.Errorf("serialized envelope = %s", out)
	}
}
