package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"findash/internal/log"
)

// fakeGCS serves object media for one bucket, answering both the XML
// download path (.../bucket/object) and the JSON one
// (.../b/bucket/o/object?alt=media).
func fakeGCS(t *testing.T, bucket string, objects map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.EscapedPath()
		var escaped string
		if _, rest, ok := strings.Cut(p, "/b/"+bucket+"/o/"); ok {
			escaped = rest
		} else if _, rest, ok := strings.Cut(p, "/"+bucket+"/"); ok {
			escaped = rest
		} else {
			http.NotFound(w, r)
			return
		}
		name, err := url.PathUnescape(escaped)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body, ok := objects[name]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":{"code":404,"message":"No such object"}}`)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGCSSource(t *testing.T, srv *httptest.Server, prefix string) *GCSSource {
	t.Helper()
	src, err := NewGCSSource(context.Background(), "finance", prefix, "",
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewGCSSource: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestGCSObjectName(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "goals.csv"},
		{"exports", "exports/goals.csv"},
		{"exports/2024/", "exports/2024/goals.csv"},
	}
	for _, tt := range tests {
		s := &GCSSource{bucket: "finance", prefix: tt.prefix}
		if got := s.object(FileGoals); got != tt.want {
			t.Errorf("prefix %q: object = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestGCSSourceLoad(t *testing.T) {
	srv := fakeGCS(t, "finance", map[string]string{
		"exports/" + FileGoals:    "goal,target_amount,current_savings,due_date\nHouse,10000000,4000000,2026-12-31\n",
		"exports/" + FileHoldings: "asset,units\nA,10\n",
	})
	src := newTestGCSSource(t, srv, "exports")
	if src.String() != "gs://finance/exports" {
		t.Errorf("String() = %q", src.String())
	}

	tables, err := New(src, log.Discard()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tables.Goals) != 1 || tables.Goals[0].Name != "House" {
		t.Errorf("unexpected goals %+v", tables.Goals)
	}
	if len(tables.Holdings) != 1 {
		t.Errorf("unexpected holdings %+v", tables.Holdings)
	}
	if tables.Ledger == nil || len(tables.Ledger) != 0 {
		t.Errorf("missing object should load as an empty table, got %#v", tables.Ledger)
	}
}

func TestGCSSourceMissingObject(t *testing.T) {
	src := newTestGCSSource(t, fakeGCS(t, "finance", nil), "")

	_, err := src.Open(context.Background(), FileLedger)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing object error = %v, want fs.ErrNotExist", err)
	}
}
