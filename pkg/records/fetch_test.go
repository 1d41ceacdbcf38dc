package records

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/barchart/pkg/errors"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"https://example.com/data.csv", true},
		{"http://localhost:8080/x", true},
		{"data.csv", false},
		{"/tmp/https.csv", false},
		{"ftp://example.com/data.csv", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.src); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestLoaderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Chain,Stores\nA,10\nB,5\nA,2\n"))
	}))
	defer srv.Close()

	table, err := NewLoader(WithHTTPClient(srv.Client())).Load(context.Background(), srv.URL+"/chains.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(table.Records))
	}
	if v, _ := table.Records[0].Measure("Stores"); v != 12 {
		t.Errorf("A stores = %v, want 12", v)
	}
}

func TestLoaderFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("k,v\na,1\n"))
	}))
	defer srv.Close()

	if _, err := NewLoader(WithHTTPClient(srv.Client())).Load(context.Background(), srv.URL); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestLoaderFetchNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewLoader(WithHTTPClient(srv.Client())).Load(context.Background(), srv.URL+"/missing.csv")
	if !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("error = %v, want LOAD_ERROR", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (4xx is not retried)", got)
	}
}
