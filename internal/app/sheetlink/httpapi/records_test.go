package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sheetlink.local/internal/app/sheetlink"
	"sheetlink.local/internal/app/sheetlink/cache"
)

type stubCatalog struct {
	records []sheetlink.URLRecord
	err     error
	status  cache.Status

	invalidated bool
}

func (c *stubCatalog) GetAllRecords(ctx context.Context) ([]sheetlink.URLRecord, error) {
	return c.records, c.err
}

func (c *stubCatalog) Status(ctx context.Context) cache.Status {
	return c.status
}

func (c *stubCatalog) Invalidate(ctx context.Context) error {
	c.invalidated = true
	return nil
}

func TestRecordsHandler_OK(t *testing.T) {
	h := NewRecordsHandler(&stubCatalog{
		records: []sheetlink.URLRecord{{ID: "abc123", To: "https://example.com", Description: "Test"}},
		status:  cache.Status{HasData: true, Fresh: true},
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	var resp recordsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Records) != 1 || resp.Records[0].ID != "abc123" {
		t.Fatalf("unexpected records: %+v", resp.Records)
	}
	if !resp.Cache.HasData || !resp.Cache.Fresh {
		t.Fatalf("unexpected cache status: %+v", resp.Cache)
	}
}

func TestRecordsHandler_ErrorExposesKind(t *testing.T) {
	h := NewRecordsHandler(&stubCatalog{err: sheetlink.NewError(sheetlink.KindAuth, "denied")})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("got status %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "auth" {
		t.Fatalf("got error %q, want auth", resp["error"])
	}
}

func TestInvalidateHandler(t *testing.T) {
	c := &stubCatalog{}
	h := NewInvalidateHandler(c)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/invalidate", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d", rec.Code)
	}
	if !c.invalidated {
		t.Fatal("handler did not call Invalidate")
	}
}
