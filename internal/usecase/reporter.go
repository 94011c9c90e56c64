package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nitinNayar/github-recent-contributors/internal/domain"
	"github.com/nitinNayar/github-recent-contributors/internal/gateway"
	"github.com/sirupsen/logrus"
)

// RunOptions selects what a single reporting run covers.
type RunOptions struct {
	Org  string
	Days int
	// Repos is the optional allow-list; nil analyzes every repository.
	Repos []string
}

// RunResult is everything a run produced, for writing and summarizing.
type RunResult struct {
	Report   *domain.Report
	Identity *gateway.Identity
	Filter   FilterResult
	// Aggregate is nil when aggregation was skipped.
	Aggregate *AggregateResult
}

// Reporter orchestrates one run: list, filter, aggregate, build.
type Reporter struct {
	fetcher gateway.Fetcher
	logger  logrus.FieldLogger
	workers int
	now     func() time.Time
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithWorkers sets how many repositories are scanned concurrently.
func WithWorkers(workers int) ReporterOption {
	return func(r *Reporter) {
		r.workers = workers
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ReporterOption {
	return func(r *Reporter) {
		r.now = now
	}
}

// NewReporter creates a new Reporter instance.
func NewReporter(fetcher gateway.Fetcher, logger logrus.FieldLogger, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		fetcher: fetcher,
		logger:  logger,
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs the main business logic.
// Errors from the preflight, member or repository listing abort the run and no report is returned.
func (r *Reporter) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	now := r.now()
	window := domain.NewWindow(now, opts.Days)
	log := r.logger.WithField("org", opts.Org)

	identity, err := r.fetcher.Preflight(ctx, opts.Org)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"login":     identity.Login,
		"member":    identity.IsMember,
		"remaining": identity.Remaining,
		"limit":     identity.Limit,
	}).Info("Authenticated with GitHub")

	members, err := r.fetcher.ListMembers(ctx, opts.Org)
	if err != nil {
		return nil, err
	}
	repos, err := r.fetcher.ListRepositories(ctx, opts.Org)
	if err != nil {
		return nil, err
	}

	filter := FilterRepositories(repos, opts.Repos)
	r.logFilter(log, opts.Org, filter, len(repos), len(opts.Repos))

	result := &RunResult{Identity: identity, Filter: filter}
	meta := ReportMeta{Organization: opts.Org, Days: opts.Days, Date: now}
	if filter.NothingToAnalyze() {
		log.Error("No matching repositories found. Please check your INTERESTING_REPOS configuration.")
		result.Report = BuildReport(meta, members, nil)
		return result, nil
	}

	log.WithFields(logrus.Fields{
		"repositories": len(filter.Matched),
		"since":        window.Since.Format(time.RFC3339),
		"until":        window.Until.Format(time.RFC3339),
	}).Info("Analyzing repositories")
	aggregator := NewAggregator(r.fetcher, r.logger, r.workers)
	agg, err := aggregator.Aggregate(ctx, filter.Matched, window)
	if err != nil {
		return nil, err
	}
	if malformed := agg.Malformed(); len(malformed) > 0 {
		log.WithField("repositories", malformed).Warn("Some repositories stopped on a malformed commit response; their counts may be partial")
	}

	result.Aggregate = agg
	result.Report = BuildReport(meta, members, agg)
	if err := result.Report.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate report: %w", err)
	}
	return result, nil
}

func (r *Reporter) logFilter(log logrus.FieldLogger, org string, filter FilterResult, total, requested int) {
	if !filter.Filtered {
		return
	}
	log.WithFields(logrus.Fields{
		"total":     total,
		"requested": requested,
		"matched":   len(filter.Matched),
	}).Info("Repository filtering enabled")

	if len(filter.Unmatched) == 0 {
		return
	}
	for _, name := range filter.Unmatched {
		log.WithField("repo", name).Warn("Repository was specified but not found")
	}
	log.Warnf("Possible reasons: repository name typo, repository doesn't exist in %s, or repository is private and token lacks access", org)
}
