package overpass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"synthgrid/internal/geo"
)

var testRegion = geo.Region{South: 3.0, West: 101.5, North: 3.2, East: 101.7}

func TestFetchDecodesElements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"elements":[
			{"id":101,"type":"way","tags":{"building":"house"},"center":{"lat":3.1,"lon":101.6}},
			{"id":102,"type":"relation","tags":{"building":"retail"},"center":{"lat":3.11,"lon":101.61}}
		]}`))
	}))
	defer server.Close()

	client, err := NewClient([]string{server.URL}, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	elements, err := client.Fetch(context.Background(), testRegion, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if elements[0].Tag("building") != "house" {
		t.Fatalf("unexpected tag: %q", elements[0].Tag("building"))
	}
	if elements[0].Center == nil || elements[0].Center.Lat != 3.1 {
		t.Fatalf("center not decoded: %+v", elements[0].Center)
	}
}

func TestFetchRetryExhaustion(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient([]string{server.URL}, 5*time.Second,
		WithMaxAttempts(3), WithBackoffBase(time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Fetch(context.Background(), testRegion, nil)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	var retryable *RetryableError
	if !errors.As(err, &retryable) {
		t.Fatalf("expected RetryableError, got %T: %v", err, err)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestFetchFatalStopsRetrying(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient([]string{server.URL}, 5*time.Second, WithMaxAttempts(5))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Fetch(context.Background(), testRegion, nil)
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %T: %v", err, err)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("fatal response should not be retried, got %d attempts", got)
	}
}

func TestFetchFailsOverToHealthyBackend(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[{"id":1,"type":"way","tags":{"building":"yes"},"center":{"lat":3.1,"lon":101.6}}]}`))
	}))
	defer healthy.Close()

	client, err := NewClient([]string{broken.URL, healthy.URL}, 5*time.Second,
		WithMaxAttempts(3), WithBackoffBase(time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	elements, err := client.Fetch(context.Background(), testRegion, nil)
	if err != nil {
		t.Fatalf("fetch should succeed via second backend: %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(elements))
	}
}

func TestFetchMalformedJSONIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": [`))
	}))
	defer server.Close()

	client, err := NewClient([]string{server.URL}, 5*time.Second,
		WithMaxAttempts(2), WithBackoffBase(time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Fetch(context.Background(), testRegion, nil)
	var retryable *RetryableError
	if !errors.As(err, &retryable) {
		t.Fatalf("expected RetryableError for malformed body, got %T: %v", err, err)
	}
}

func TestFetchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient([]string{server.URL}, 5*time.Second,
		WithMaxAttempts(10), WithBackoffBase(time.Hour))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Fetch(ctx, testRegion, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
}

func TestBuildingQueryContainsBBoxAndFilter(t *testing.T) {
	query := BuildingQuery(testRegion, 60, []string{"retail", "office"})
	if !strings.Contains(query, "3.000000,101.500000,3.200000,101.700000") {
		t.Fatalf("query missing fixed-precision bbox:\n%s", query)
	}
	if !strings.Contains(query, `"building"~"^(retail|office)$"`) {
		t.Fatalf("query missing type filter:\n%s", query)
	}
	if !strings.Contains(query, "out center geom") {
		t.Fatalf("query missing output directive:\n%s", query)
	}
}

func TestNumericTagOrderedFallback(t *testing.T) {
	element := Element{Tags: map[string]string{
		"height":          "12 m",
		"building:levels": "3;4",
	}}
	levels, ok := element.NumericTag("building:levels")
	if !ok || levels != 3 {
		t.Fatalf("expected levels 3, got %f ok=%v", levels, ok)
	}
	height, ok := element.NumericTag("missing", "height")
	if !ok || height != 12 {
		t.Fatalf("expected height 12 via fallback, got %f ok=%v", height, ok)
	}
	if _, ok := element.NumericTag("nope"); ok {
		t.Fatal("expected miss for absent keys")
	}
}
