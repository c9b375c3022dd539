package otlphttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dinerops/pizzametrics/internal/domain"
)

func sampleBatch() []domain.Metric {
	v := int64(3)
	return []domain.Metric{{
		Name: "requests",
		Unit: "1",
		Sum: &domain.MetricData{
			AggregationTemporality: domain.CumulativeTemporality,
			IsMonotonic:            true,
			DataPoints: []domain.DataPoint{{
				AsInt:        &v,
				TimeUnixNano: 1700000000000000000,
				Attributes: []domain.Attribute{
					{Key: "method", Value: domain.AttributeValue{StringValue: "GET"}},
					{Key: "source", Value: domain.AttributeValue{StringValue: "test"}},
				},
			}},
		},
	}}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://otlp.example.com/api/push", false},
		{"http", "http://localhost:9090/push", false},
		{"padded", "  https://otlp.example.com/push  ", false},
		{"empty", "", true},
		{"no_scheme", "otlp.example.com", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.url, "key", nil)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New(%q) err=%v wantErr=%v", tc.url, err, tc.wantErr)
			}
		})
	}
}

func TestNew_DefaultClientTimeout(t *testing.T) {
	c, err := New("http://localhost:1", "k", nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.hc == nil || c.hc.Timeout != 10*time.Second {
		t.Fatalf("default client timeout=%v want 10s", c.hc.Timeout)
	}
}

func TestPush_Success(t *testing.T) {
	var gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s want POST", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		gotBody = b
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret-key", srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Push(context.Background(), sampleBatch()); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Fatalf("Authorization=%q want %q", gotAuth, "Bearer secret-key")
	}
	if gotType != "application/json" {
		t.Fatalf("Content-Type=%q", gotType)
	}

	var env domain.Envelope
	if err := json.Unmarshal(gotBody, &env); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(env.ResourceMetrics) != 1 || len(env.ResourceMetrics[0].ScopeMetrics) != 1 {
		t.Fatalf("unexpected envelope shape: %s", gotBody)
	}
	metrics := env.ResourceMetrics[0].ScopeMetrics[0].Metrics
	if len(metrics) != 1 || metrics[0].Name != "requests" {
		t.Fatalf("metrics=%+v", metrics)
	}
	if metrics[0].Sum == nil || metrics[0].Sum.AggregationTemporality != domain.CumulativeTemporality {
		t.Fatalf("sum flags lost on the wire: %s", gotBody)
	}
}

func TestPush_EmptyBatchSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "k", srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Push(context.Background(), nil); err != nil {
		t.Fatalf("Push(nil): %v", err)
	}
	if called {
		t.Fatal("empty batch must not hit the network")
	}
}

func TestPush_NoKeyOmitsAuthHeader(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Push(context.Background(), sampleBatch()); err != nil {
		t.Fatal(err)
	}
	if hasAuth {
		t.Fatalf("Authorization=%q sent without a key", gotAuth)
	}
}

func TestPush_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		wantOK bool
	}{
		{"ok", http.StatusOK, "", true},
		{"accepted", http.StatusAccepted, "", true},
		{"bad_request", http.StatusBadRequest, "malformed envelope", false},
		{"unauthorized", http.StatusUnauthorized, "bad token", false},
		{"unavailable", http.StatusServiceUnavailable, "try later", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c, err := New(srv.URL, "k", srv.Client())
			if err != nil {
				t.Fatal(err)
			}
			err = c.Push(context.Background(), sampleBatch())
			if tc.wantOK {
				if err != nil {
					t.Fatalf("Push: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("status %d: expected error", tc.status)
			}
			if tc.body != "" && !strings.Contains(err.Error(), tc.body) {
				t.Fatalf("error %q missing response body %q", err, tc.body)
			}
		})
	}
}

func TestPush_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL
	srv.Close()

	c, err := New(url, "k", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Push(context.Background(), sampleBatch()); err == nil {
		t.Fatal("expected transport error against closed server")
	}
}

func TestPush_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, err := New(srv.URL, "k", srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := c.Push(ctx, sampleBatch()); err == nil {
		t.Fatal("expected error once the context deadline passed")
	}
}
