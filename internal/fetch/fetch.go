// Package fetch retrieves the target page under timeout, redirect and
// byte-size constraints.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mverbeek/sitegauge/internal/logging"
	"github.com/mverbeek/sitegauge/internal/scanerr"
)

var htmlContentType = regexp.MustCompile(`(?i)text/html|application/xhtml\+xml`)

// Result is the outcome of a successful page fetch.
type Result struct {
	HTML     string
	FinalURL string
	Warnings []string
}

// Fetcher issues bounded GET requests. Redirects are inspected manually
// with an explicit budget instead of being followed by the transport.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	budget    int
	userAgent string
	logger    logging.Logger
}

// New creates a Fetcher. httpClient may be nil; either way automatic
// redirect following is disabled on the client used.
func New(httpClient *http.Client, timeout time.Duration, maxBytes int64, redirectBudget int, userAgent string, logger logging.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Fetcher{
		client:    httpClient,
		timeout:   timeout,
		maxBytes:  maxBytes,
		budget:    redirectBudget,
		userAgent: userAgent,
		logger:    logger.With(logging.Field{Key: "component", Value: "fetch"}),
	}
}

// Fetch GETs target and returns its HTML. The whole operation, redirect
// hop included, runs under one cancellation timeout. Failures map to the
// stable kinds FETCH_FAILED, UNSUPPORTED_CONTENT_TYPE, BODY_TOO_LARGE and
// TIMEOUT.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var warnings []string
	current := target
	budget := f.budget

	for {
		resp, err := f.get(ctx, current)
		if err != nil {
			return nil, classify(err)
		}

		if isRedirect(resp.StatusCode) {
			location := resp.Header.Get("Location")
			resp.Body.Close()

			if location == "" || budget <= 0 {
				return nil, scanerr.New(scanerr.KindFetchFailed,
					fmt.Sprintf("target redirected more than %d time(s)", f.budget))
			}

			next, err := resolveLocation(current, location)
			if err != nil {
				return nil, scanerr.Wrap(scanerr.KindFetchFailed, "redirect location does not parse", err)
			}

			f.logger.Debug("following redirect",
				logging.Field{Key: "from", Value: current},
				logging.Field{Key: "to", Value: next})
			warnings = append(warnings, fmt.Sprintf("redirected to %s", next))
			current = next
			budget--
			continue
		}

		return f.readTerminal(resp, current, warnings)
	}
}

func (f *Fetcher) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, scanerr.Wrap(scanerr.KindFetchFailed, "building request failed", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	return f.client.Do(req)
}

func (f *Fetcher) readTerminal(resp *http.Response, finalURL string, warnings []string) (*Result, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, scanerr.New(scanerr.KindFetchFailed,
			fmt.Sprintf("target responded with status %d", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if !htmlContentType.MatchString(contentType) {
		return nil, scanerr.New(scanerr.KindUnsupportedContentType,
			fmt.Sprintf("content type %q is not HTML", contentType))
	}

	body, err := readCapped(resp.Body, f.maxBytes)
	if err != nil {
		return nil, classify(err)
	}

	return &Result{
		HTML:     string(body),
		FinalURL: finalURL,
		Warnings: warnings,
	}, nil
}

// errBodyTooLarge signals the byte ceiling was crossed mid-read.
var errBodyTooLarge = errors.New("body exceeds size limit")

// readCapped reads r incrementally, checking the accumulated size on every
// chunk. The instant the ceiling is crossed the read aborts; partial bytes
// are discarded by the caller and never analyzed.
func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	buf := make([]byte, 0, 32*1024)
	chunk := make([]byte, 32*1024)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if int64(len(buf))+int64(n) > maxBytes {
				return nil, errBodyTooLarge
			}
			buf = append(buf, chunk[:n]...)
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// classify maps transport-level failures onto the flat error taxonomy.
func classify(err error) error {
	var se *scanerr.Error
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, errBodyTooLarge) {
		return scanerr.Wrap(scanerr.KindBodyTooLarge, "target page exceeds the size limit", err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return scanerr.Wrap(scanerr.KindTimeout, "target did not respond in time", err)
	}

	return scanerr.Wrap(scanerr.KindFetchFailed, "target could not be fetched", err)
}

func isRedirect(status int) bool {
	return status >= 300 && status <= 399
}

func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	loc, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(loc).String(), nil
}
