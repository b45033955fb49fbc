package statistics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendancestats/internal/metrics"
	"github.com/attendancestats/internal/sites"
)

type Service struct {
	logger  *slog.Logger
	cache   *Cache
	metrics *metrics.Metrics
	rules   map[sites.Site]sites.Rules

	rejectionLogSize   int
	rejectionWarnRatio float64
}

func NewService(
	logger *slog.Logger,
	cache *Cache,
	metrics *metrics.Metrics,
	rules map[sites.Site]sites.Rules,
	rejectionLogSize int,
	rejectionWarnRatio float64,
) *Service {
	return &Service{
		logger:             logger,
		cache:              cache,
		metrics:            metrics,
		rules:              rules,
		rejectionLogSize:   rejectionLogSize,
		rejectionWarnRatio: rejectionWarnRatio,
	}
}

// Rules returns the rules applied to site.
func (s *Service) Rules(site sites.Site) sites.Rules {
	return sites.Lookup(s.rules, site)
}

// Calculate aggregates an export of site. Results are cached by content, so
// calling it twice with the same export only aggregates once. Errors wrapping
// ErrEmptyInput come with a non-nil result.
func (s *Service) Calculate(ctx context.Context, site sites.Site, content string) (*Result, error) {
	fingerprint := Fingerprint(content)
	logger := s.logger.With("site", site, "fingerprint", fmt.Sprintf("%016x", fingerprint))

	if s.cache != nil {
		cached, err := s.cache.Find(ctx, site, fingerprint)
		if err == nil {
			s.metrics.ObserveCacheHit(site.String())
			logger.DebugContext(ctx, "statistics served from cache")
			return cached, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			logger.ErrorContext(ctx, "find cached statistics", "error", err)
		}
	}

	start := time.Now()
	result, err := NewProcessor(logger, s.Rules(site), s.rejectionLogSize).Process(content)
	if result != nil {
		s.metrics.ObserveRun(metrics.Run{
			Site:          site.String(),
			Accepted:      result.Report.Accepted,
			MalformedRows: result.Report.MalformedRows,
			ParseErrors:   result.Report.ParseErrors,
			Empty:         errors.Is(err, ErrEmptyInput),
			Duration:      time.Since(start),
		})
	}
	if err != nil {
		return result, fmt.Errorf("process: %w", err)
	}

	logger.InfoContext(ctx, "statistics calculated",
		"accepted", result.Report.Accepted,
		"rejected", result.Report.Rejected,
		"anomalies", result.Report.Anomalies,
		"years", len(result.Statistics),
		"duration", time.Since(start))
	if result.Report.HighRejectionRate(s.rejectionWarnRatio) {
		logger.WarnContext(ctx, "high rejection rate, the file may not be an attendance export",
			"rejected", result.Report.Rejected,
			"total", result.Report.Total())
	}

	if s.cache != nil {
		if err := s.cache.Insert(ctx, site, fingerprint, result); err != nil {
			logger.ErrorContext(ctx, "cache statistics", "error", err)
		}
	}
	return result, nil
}
