// Package scan orchestrates the full pipeline for one request:
// normalize, guard, cache lookup, rate limit, robots check, bounded
// fetch, analysis, insight derivation and cache store.
package scan

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mverbeek/sitegauge/internal/analyze"
	"github.com/mverbeek/sitegauge/internal/cache"
	"github.com/mverbeek/sitegauge/internal/config"
	"github.com/mverbeek/sitegauge/internal/fetch"
	"github.com/mverbeek/sitegauge/internal/insight"
	"github.com/mverbeek/sitegauge/internal/logging"
	"github.com/mverbeek/sitegauge/internal/metrics"
	"github.com/mverbeek/sitegauge/internal/model"
	"github.com/mverbeek/sitegauge/internal/ratelimit"
	"github.com/mverbeek/sitegauge/internal/robots"
	"github.com/mverbeek/sitegauge/internal/scanerr"
	"github.com/mverbeek/sitegauge/internal/urlx"
)

// Scanner runs scans. Cache and limiter are process-wide shared state; the
// Scanner itself is safe for concurrent use.
type Scanner struct {
	cfg     *config.Config
	cache   *cache.Store
	limiter *ratelimit.Limiter
	robots  *robots.Evaluator
	fetcher *fetch.Fetcher
	logger  logging.Logger

	now func() time.Time
}

// New wires a Scanner from config. httpClient may be nil; fetch and robots
// each get their own client so the fetcher's redirect policy does not leak
// into robots fetches.
func New(cfg *config.Config, logger logging.Logger, httpClient *http.Client) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var robotsClient, fetchClient *http.Client
	if httpClient != nil {
		rc := *httpClient
		fc := *httpClient
		robotsClient, fetchClient = &rc, &fc
	}

	return &Scanner{
		cfg:     cfg,
		cache:   cache.New(cfg.CacheTTL.Std(), logger),
		limiter: ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow.Std()),
		robots:  robots.New(robotsClient, cfg.RobotsTimeout.Std(), cfg.MaxRobotsBytes, cfg.UserAgent, logger),
		fetcher: fetch.New(fetchClient, cfg.FetchTimeout.Std(), cfg.MaxBodyBytes, cfg.MaxRedirects, cfg.UserAgent, logger),
		logger:  logger.With(logging.Field{Key: "component", Value: "scanner"}),
		now:     time.Now,
	}
}

// Cache exposes the response cache, e.g. to run its sweeper.
func (s *Scanner) Cache() *cache.Store { return s.cache }

// Scan executes the pipeline. fromCache reports whether the payload was
// served from the response cache; a hit short-circuits before rate-limit
// bookkeeping, robots evaluation and the fetch.
func (s *Scanner) Scan(ctx context.Context, req model.ScanRequest, identity string) (payload *model.ScanPayload, fromCache bool, err error) {
	started := s.now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(started).Seconds())
		switch {
		case err != nil:
			metrics.ScansTotal.WithLabelValues("error", string(scanerr.From(err).Kind)).Inc()
		case fromCache:
			metrics.ScansTotal.WithLabelValues("cache_hit", "").Inc()
		default:
			metrics.ScansTotal.WithLabelValues("ok", "").Inc()
		}
	}()

	locale := req.Locale
	if locale != "en" {
		locale = "nl"
	}

	normalized, err := urlx.Normalize(req.URL)
	if err != nil {
		return nil, false, err
	}
	if err := urlx.GuardHost(normalized.Hostname); err != nil {
		return nil, false, err
	}

	if cached, ok := s.cache.Get(normalized.CacheKey()); ok {
		s.logger.Debug("cache hit", logging.Field{Key: "key", Value: normalized.CacheKey()})
		return cached, true, nil
	}

	// Robots evaluation and rate-limit bookkeeping are independent, so the
	// robots fetch runs concurrently with the limiter check. Its failures
	// never abort the scan; they just leave the policy nil.
	var policy *robots.Policy
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, rerr := s.robots.Evaluate(gctx, normalized.Origin, normalized.Path)
		if rerr != nil {
			s.logger.Warn("robots evaluation failed, proceeding as allowed",
				logging.Field{Key: "origin", Value: normalized.Origin},
				logging.Field{Key: "error", Value: rerr.Error()})
			return nil
		}
		policy = p
		return nil
	})

	allowed := s.limiter.Allow(identity)
	_ = g.Wait()

	if !allowed {
		return nil, false, scanerr.New(scanerr.KindRateLimited, "too many scans from this client, try again later")
	}

	var robotsInfo *model.RobotsInfo
	if policy != nil {
		robotsInfo = &model.RobotsInfo{
			Allowed:       policy.Allowed,
			AllowRules:    policy.AllowRules,
			DisallowRules: policy.DisallowRules,
			Sitemaps:      policy.Sitemaps,
			Source:        policy.Source,
		}
		if !policy.Allowed {
			return nil, false, scanerr.New(scanerr.KindRobotsDisallow,
				"the site's robots.txt disallows scanning this path").
				WithDetails(map[string]any{"robots": robotsInfo})
		}
	}

	result, err := s.fetcher.Fetch(ctx, normalized.String())
	if err != nil {
		return nil, false, err
	}

	var sitemaps []string
	if policy != nil {
		sitemaps = policy.Sitemaps
	}
	bundle, totals, analysisWarnings, err := analyze.Run(result.HTML, result.FinalURL, sitemaps)
	if err != nil {
		return nil, false, err
	}

	insights := insight.Derive(&bundle)
	totals.Insights = len(insights)

	payload = &model.ScanPayload{
		ScanID:    uuid.New().String(),
		Request:   model.RequestEcho{URL: req.URL, Locale: locale},
		FinalURL:  result.FinalURL,
		FetchedAt: s.now().UTC(),
		Metrics:   bundle,
		Insights:  insights,
		Totals:    totals,
		Warnings:  append(result.Warnings, analysisWarnings...),
		Robots:    robotsInfo,
		Flags:     model.Flags{RenderedJS: false, DNSChecked: false},
	}

	s.cache.Set(normalized.CacheKey(), payload)

	s.logger.Info("scan completed",
		logging.Field{Key: "url", Value: normalized.String()},
		logging.Field{Key: "insights", Value: len(insights)},
		logging.Field{Key: "duration_ms", Value: time.Since(started).Milliseconds()})

	return payload, false, nil
}
