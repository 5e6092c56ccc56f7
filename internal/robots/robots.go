// Package robots fetches and interprets robots.txt for a single origin.
//
// Evaluation is intentionally forgiving: a missing file, a non-2xx status
// or a transport failure never blocks a scan. Only an explicit Disallow
// matching the requested path (with no longer Allow) does.
package robots

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mverbeek/sitegauge/internal/logging"
)

// Policy is the evaluated robots decision for one origin and path.
type Policy struct {
	Allowed       bool
	AllowRules    []string
	DisallowRules []string
	Sitemaps      []string
	Source        string
}

// Evaluator fetches and evaluates robots.txt files.
type Evaluator struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	userAgent string
	logger    logging.Logger
}

// New creates an Evaluator. httpClient may be nil, in which case a default
// client is used; the per-call timeout is applied via context either way.
func New(httpClient *http.Client, timeout time.Duration, maxBytes int64, userAgent string, logger logging.Logger) *Evaluator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Evaluator{
		client:    httpClient,
		timeout:   timeout,
		maxBytes:  maxBytes,
		userAgent: userAgent,
		logger:    logger.With(logging.Field{Key: "component", Value: "robots"}),
	}
}

// Evaluate fetches {origin}/robots.txt and decides whether path may be
// scanned. Errors are returned only for transport or read failures; the
// caller treats those as "no robots info" and proceeds.
func (e *Evaluator) Evaluate(ctx context.Context, origin, path string) (*Policy, error) {
	source := origin + "/robots.txt"

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating robots request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()

	// Missing or errored robots.txt means fully allowed.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Debug("robots.txt unavailable, allowing all",
			logging.Field{Key: "source", Value: source},
			logging.Field{Key: "status", Value: resp.StatusCode})
		return &Policy{Allowed: true, Source: source}, nil
	}

	// Truncation past the read cap is non-fatal.
	allow, disallow, sitemaps, err := parse(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	return &Policy{
		Allowed:       PathAllowed(path, allow, disallow),
		AllowRules:    allow,
		DisallowRules: disallow,
		Sitemaps:      sitemaps,
		Source:        source,
	}, nil
}

// parse reads robots.txt line by line. Allow/Disallow rules are collected
// only inside User-agent: * blocks; Sitemap directives are collected from
// any block.
func parse(r io.Reader) (allow, disallow, sitemaps []string, err error) {
	scanner := bufio.NewScanner(r)
	appliesToAll := false

	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "user-agent":
			appliesToAll = value == "*"
		case "sitemap":
			if value != "" {
				sitemaps = append(sitemaps, value)
			}
		case "allow":
			if appliesToAll && value != "" {
				allow = append(allow, value)
			}
		case "disallow":
			if appliesToAll && value != "" {
				disallow = append(disallow, value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return allow, disallow, sitemaps, nil
}

// PathAllowed applies classic longest-match-wins: the longest matching
// Allow prefix beats the longest matching Disallow prefix, ties favor
// Allow. With no disallow rules everything is allowed.
func PathAllowed(path string, allow, disallow []string) bool {
	if len(disallow) == 0 {
		return true
	}

	longestMatch := func(rules []string) int {
		longest := 0
		for _, rule := range rules {
			if rule == "/" {
				// Root rule matches everything with length 1.
				if longest < 1 {
					longest = 1
				}
				continue
			}
			if strings.HasPrefix(path, rule) && len(rule) > longest {
				longest = len(rule)
			}
		}
		return longest
	}

	disallowLen := longestMatch(disallow)
	if disallowLen == 0 {
		return true
	}
	return longestMatch(allow) >= disallowLen
}
