package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sheetlink.local/internal/app/sheetlink"
)

const sampleCSV = "id,to,description\nabc123,https://example.com,Test\n"

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_OK(t *testing.T) {
	srv := newServer(t, http.StatusOK, sampleCSV)
	f := New(srv.URL, time.Second, false)

	raw, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if raw != sampleCSV {
		t.Fatalf("got %q, want %q", raw, sampleCSV)
	}
}

func TestFetch_Classification(t *testing.T) {
	cases := []struct {
		status int
		body   string
		kind   sheetlink.Kind
	}{
		{http.StatusUnauthorized, "", sheetlink.KindAuth},
		{http.StatusForbidden, "denied", sheetlink.KindAuth},
		{http.StatusNotFound, "", sheetlink.KindData},
		{http.StatusGone, "", sheetlink.KindData},
		{http.StatusInternalServerError, "boom", sheetlink.KindService},
		{http.StatusBadGateway, "", sheetlink.KindService},
		{http.StatusTeapot, "", sheetlink.KindNetwork}, // 其它非 2xx 按网络错误
		{http.StatusOK, "   \n  ", sheetlink.KindData}, // 200 但空白响应体
	}
	for _, tc := range cases {
		srv := newServer(t, tc.status, tc.body)
		f := New(srv.URL, time.Second, false)

		_, err := f.Fetch(context.Background())
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		kind, ok := sheetlink.KindOf(err)
		if !ok || kind != tc.kind {
			t.Errorf("status %d body %q: got kind %v (classified=%v), want %v", tc.status, tc.body, kind, ok, tc.kind)
		}
	}
}

func TestFetch_TransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	url := srv.URL
	srv.Close() // 连接拒绝

	f := New(url, time.Second, false)
	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if kind, _ := sheetlink.KindOf(err); kind != sheetlink.KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestFetch_TimeoutIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(sampleCSV))
	}))
	t.Cleanup(srv.Close)

	f := New(srv.URL, 50*time.Millisecond, false)
	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if kind, _ := sheetlink.KindOf(err); kind != sheetlink.KindNetwork {
		t.Fatalf("timeout should classify as network, got %v", err)
	}
}
