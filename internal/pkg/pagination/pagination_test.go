package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestNewParams(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
		wantOffset          int
	}{
		{1, 20, 1, 20, 0},
		{3, 10, 3, 10, 20},
		{0, 0, 1, DefaultLimit, 0},
		{-2, 500, 1, MaxLimit, 0},
	}
	for _, tt := range tests {
		p := NewParams(tt.page, tt.limit)
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("NewParams(%d, %d) = %+v", tt.page, tt.limit, p)
		}
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(NewParams(2, 10), 25)
	if meta.TotalPages != 3 || !meta.HasNext || !meta.HasPrev {
		t.Errorf("meta = %+v", meta)
	}

	meta = GetMeta(NewParams(1, 10), 0)
	if meta.TotalPages != 0 || meta.HasNext || meta.HasPrev {
		t.Errorf("empty meta = %+v", meta)
	}
}

func TestNewResponseNeverNil(t *testing.T) {
	var rows []string
	page := NewResponse(rows, NewParams(1, 10), 0)
	if page.Data == nil || len(page.Data) != 0 {
		t.Errorf("data = %#v, want empty slice", page.Data)
	}
}

func TestGetParams(t *testing.T) {
	app := fiber.New()
	var got *Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return nil
	})

	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, DefaultLimit},
		{"?page=3&limit=5", 3, 5},
		{"?page=abc&limit=1000", 1, MaxLimit},
	}
	for _, tt := range tests {
		if _, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil)); err != nil {
			t.Fatal(err)
		}
		if got.Page != tt.page || got.Limit != tt.size {
			t.Errorf("%q: params = %+v", tt.query, got)
		}
	}
}
