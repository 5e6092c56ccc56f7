package fetch_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mverbeek/sitegauge/internal/fetch"
	"github.com/mverbeek/sitegauge/internal/logging"
	"github.com/mverbeek/sitegauge/internal/scanerr"
)

const testUA = "SitegaugeBot/1.0"

func newFetcher(client *http.Client, maxBytes int64, timeout time.Duration) *fetch.Fetcher {
	return fetch.New(client, timeout, maxBytes, 1, testUA, logging.NopLogger{})
}

func kindOf(t *testing.T, err error) scanerr.Kind {
	t.Helper()
	var se *scanerr.Error
	if !errors.As(err, &se) {
		t.Fatalf("error is not *scanerr.Error: %v", err)
	}
	return se.Kind
}

func TestFetch_ReturnsHTML(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != testUA {
			t.Errorf("user agent: got %q, want %q", got, testUA)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer ts.Close()

	f := newFetcher(ts.Client(), 1<<20, 5*time.Second)
	res, err := f.Fetch(context.Background(), ts.URL+"/")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(res.HTML, "hello") {
		t.Errorf("HTML: got %q", res.HTML)
	}
	if res.FinalURL != ts.URL+"/" {
		t.Errorf("FinalURL: got %q, want %q", res.FinalURL, ts.URL+"/")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings: got %v, want none", res.Warnings)
	}
}

func TestFetch_FollowsOneRedirect(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landed", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/landed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>landed</html>"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f := newFetcher(ts.Client(), 1<<20, 5*time.Second)
	res, err := f.Fetch(context.Background(), ts.URL+"/start")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.FinalURL != ts.URL+"/landed" {
		t.Errorf("FinalURL: got %q, want %q", res.FinalURL, ts.URL+"/landed")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "/landed") {
		t.Errorf("warnings: got %v, want one redirect note", res.Warnings)
	}
}

func TestFetch_SecondRedirectFails(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/c", http.StatusFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f := newFetcher(ts.Client(), 1<<20, 5*time.Second)
	_, err := f.Fetch(context.Background(), ts.URL+"/a")
	if err == nil {
		t.Fatal("expected failure after exhausting the redirect budget")
	}
	if kind := kindOf(t, err); kind != scanerr.KindFetchFailed {
		t.Errorf("kind: got %s, want FETCH_FAILED", kind)
	}
}

func TestFetch_NonSuccessStatusFails(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	f := newFetcher(ts.Client(), 1<<20, 5*time.Second)
	_, err := f.Fetch(context.Background(), ts.URL)
	if kind := kindOf(t, err); kind != scanerr.KindFetchFailed {
		t.Errorf("kind: got %s, want FETCH_FAILED", kind)
	}
}

func TestFetch_RejectsNonHTMLContentType(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer ts.Close()

	f := newFetcher(ts.Client(), 1<<20, 5*time.Second)
	_, err := f.Fetch(context.Background(), ts.URL)
	if kind := kindOf(t, err); kind != scanerr.KindUnsupportedContentType {
		t.Errorf("kind: got %s, want UNSUPPORTED_CONTENT_TYPE", kind)
	}
}

func TestFetch_AcceptsXHTMLContentType(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xhtml+xml")
		_, _ = w.Write([]byte("<html/>"))
	}))
	defer ts.Close()

	f := newFetcher(ts.Client(), 1<<20, 5*time.Second)
	if _, err := f.Fetch(context.Background(), ts.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}

func TestFetch_BodyOverLimitAborts(t *testing.T) {
	t.Parallel()

	const limit = 4096
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		filler := strings.Repeat("x", 1024)
		for i := 0; i < 16; i++ {
			_, _ = fmt.Fprint(w, filler)
		}
	}))
	defer ts.Close()

	f := newFetcher(ts.Client(), limit, 5*time.Second)
	_, err := f.Fetch(context.Background(), ts.URL)
	if kind := kindOf(t, err); kind != scanerr.KindBodyTooLarge {
		t.Errorf("kind: got %s, want BODY_TOO_LARGE", kind)
	}
}

func TestFetch_BodyAtLimitSucceeds(t *testing.T) {
	t.Parallel()

	const limit = 4096
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("y", limit)))
	}))
	defer ts.Close()

	f := newFetcher(ts.Client(), limit, 5*time.Second)
	res, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(res.HTML) != limit {
		t.Errorf("HTML length: got %d, want %d", len(res.HTML), limit)
	}
}

func TestFetch_TimeoutSurfacesAsTimeout(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html/>"))
	}))
	defer ts.Close()

	f := newFetcher(ts.Client(), 1<<20, 50*time.Millisecond)
	_, err := f.Fetch(context.Background(), ts.URL)
	if kind := kindOf(t, err); kind != scanerr.KindTimeout {
		t.Errorf("kind: got %s, want TIMEOUT", kind)
	}
}
