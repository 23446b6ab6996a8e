package extract

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobscout/internal/fetcher"
	"jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDrushimTestExtractor(srv *httptest.Server) *DrushimExtractor {
	logger := discardLogger()
	client := fetcher.New(srv.Client(), logger)
	return NewDrushim(srv.URL, client, fetcher.Options{MaxRetries: 1}, logger)
}

func TestDrushimExtract_StateBlob(t *testing.T) {
	page := `<html><head>
		<script>window.__INITIAL_STATE__ = {"search":{"results":[
			{"title":"Go Developer","company":"Acme Systems","city":"Tel Aviv",
			 "date":"לפני 3 ימים","link":"/job/12345","description":"Build backend services in Go"},
			{"title":"DevOps Engineer","company":"Beta Ltd","city":"Haifa",
			 "date":"היום","link":"/job/67890"}
		]}};</script>
	</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/jobs/search/") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	jobs, err := newDrushimTestExtractor(srv).Extract(context.Background(), model.Query{Keyword: "golang", Experience: "0-5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Go Developer" {
		t.Errorf("expected title Go Developer, got %q", j.Title)
	}
	if j.Company != "Acme Systems" {
		t.Errorf("expected company Acme Systems, got %q", j.Company)
	}
	if j.PostingDays != 3 {
		t.Errorf("expected 3 posting days, got %d", j.PostingDays)
	}
	if j.Source != model.SourceDrushim {
		t.Errorf("expected source %s, got %s", model.SourceDrushim, j.Source)
	}
	if j.URL != srv.URL+"/job/12345" {
		t.Errorf("unexpected URL: %q", j.URL)
	}
	if j.SearchKeyword != "golang" {
		t.Errorf("expected search keyword golang, got %q", j.SearchKeyword)
	}
	if j.ScrapedAt.IsZero() {
		t.Error("expected ScrapedAt to be set")
	}

	if jobs[1].PostingDays != 0 {
		t.Errorf("expected 0 posting days for today's listing, got %d", jobs[1].PostingDays)
	}
}

func TestDrushimExtract_HTMLFallback(t *testing.T) {
	// Blob present but not valid JSON; the card parser takes over.
	page := `<html><head>
		<script>window.__INITIAL_STATE__ = function(){};</script>
	</head><body>
		<div class="job-item">
			<a href="/job/555"><h3>Backend Developer</h3></a>
			<div>Acme Systems</div>
			<div>תל אביב</div>
			<div>לפני 3 ימים</div>
		</div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	jobs, err := newDrushimTestExtractor(srv).Extract(context.Background(), model.Query{Keyword: "backend"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Backend Developer" {
		t.Errorf("expected title Backend Developer, got %q", j.Title)
	}
	if j.Company != "Acme Systems" {
		t.Errorf("expected company Acme Systems, got %q", j.Company)
	}
	if j.Location != "Tel Aviv" {
		t.Errorf("expected location Tel Aviv, got %q", j.Location)
	}
	if j.PostingDays != 3 {
		t.Errorf("expected 3 posting days, got %d", j.PostingDays)
	}
	if j.URL != srv.URL+"/job/555" {
		t.Errorf("unexpected URL: %q", j.URL)
	}
}

func TestDrushimExtract_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>no results</p></body></html>`))
	}))
	defer srv.Close()

	jobs, err := newDrushimTestExtractor(srv).Extract(context.Background(), model.Query{Keyword: "cobol"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}

func TestDrushimExtract_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newDrushimTestExtractor(srv).Extract(context.Background(), model.Query{Keyword: "golang"})
	if err == nil {
		t.Fatal("expected error for HTTP 404, got nil")
	}
}

func TestBalancedObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `{"a":1};`, `{"a":1}`},
		{"nested", `{"a":{"b":2}} trailing`, `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`},
		{"escaped quote", `{"a":"\"}"}`, `{"a":"\"}"}`},
		{"unbalanced", `{"a":1`, ""},
		{"no object", `var x = 5;`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := balancedObject(tc.input); got != tc.want {
				t.Errorf("balancedObject(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFindJobArray_DepthBound(t *testing.T) {
	// Build a structure nested deeper than the walk allows.
	inner := []any{map[string]any{"title": "Go Developer", "company": "Acme"}}
	var v any = inner
	for i := 0; i < maxBlobDepth+2; i++ {
		v = map[string]any{"wrap": v}
	}
	if got := findJobArray(v, 0); got != nil {
		t.Fatal("expected nil for over-deep nesting")
	}

	// The same records within bounds are found.
	if got := findJobArray(map[string]any{"jobs": inner}, 0); got == nil {
		t.Fatal("expected job array to be found at shallow depth")
	}
}
