// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"

	"github.com/nitinNayar/github-recent-contributors/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CommitSource is the part of the gateway the aggregator needs.
type CommitSource interface {
	ListCommits(ctx context.Context, owner, repo string, window domain.Window, page int) (domain.CommitPage, error)
}

// AggregateResult holds the per-repository aggregates and their organization-wide union.
type AggregateResult struct {
	// Repos is in the order of the analyzed repositories.
	Repos []*domain.RepoStats
	Org   *domain.OrgStats
}

// Malformed returns the names of repositories whose scan stopped on a malformed response.
func (r *AggregateResult) Malformed() []string {
	var names []string
	for _, s := range r.Repos {
		if s.Stop == domain.PageMalformed {
			names = append(names, s.Name)
		}
	}
	return names
}

// Aggregator is the use case for aggregating contributor identities from commit history.
type Aggregator struct {
	source  CommitSource
	logger  logrus.FieldLogger
	workers int
}

// NewAggregator creates a new Aggregator instance.
// workers bounds how many repositories are scanned at once; values below 1 mean 1.
func NewAggregator(source CommitSource, logger logrus.FieldLogger, workers int) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		source:  source,
		logger:  logger,
		workers: workers,
	}
}

// AggregateRepository pages through one repository's commits in the window and counts identities.
// A malformed page ends the scan without failing; errors from the source abort it.
func (a *Aggregator) AggregateRepository(ctx context.Context, repo domain.Repository, window domain.Window) (*domain.RepoStats, error) {
	log := a.logger.WithField("repo", repo.Owner+"/"+repo.Name)
	log.Info("Analyzing repository")

	stats := domain.NewRepoStats(repo)
	page := 1
	for {
		log.WithField("page", page).Debug("  Fetching commits page...")
		result, err := a.source.ListCommits(ctx, repo.Owner, repo.Name, window, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch commits page %d for %s/%s: %w", page, repo.Owner, repo.Name, err)
		}

		if result.Kind == domain.PageMalformed {
			stats.Stop = domain.PageMalformed
			log.WithField("reason", result.Reason).Warnf("Repository %s is empty or an error occurred; counting %d commits seen so far", repo.Name, stats.TotalCommits)
			break
		}
		if result.Kind == domain.PageEnd {
			break
		}

		for _, c := range result.Commits {
			stats.Add(c)
		}
		if result.NextPage == 0 {
			break
		}
		page = result.NextPage
	}

	log.WithFields(logrus.Fields{
		"contributors":   len(stats.CommitAuthors),
		"github_authors": len(stats.GitHubAuthors),
		"total_commits":  stats.TotalCommits,
	}).Info("Completed repository")
	return stats, nil
}

// Aggregate scans every repository and folds the results into the organization-wide aggregate.
// Each worker owns one result slot; folding happens only after every scan has finished.
func (a *Aggregator) Aggregate(ctx context.Context, repos []domain.Repository, window domain.Window) (*AggregateResult, error) {
	a.logger.WithField("repositories", len(repos)).Info("Usecase: Starting commit aggregation...")

	results := make([]*domain.RepoStats, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.workers)
	for i, repo := range repos {
		i, repo := i, repo
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			stats, err := a.AggregateRepository(egCtx, repo, window)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	org := domain.NewOrgStats()
	for _, stats := range results {
		org.Fold(stats)
	}

	a.logger.Info("Usecase: Aggregation complete.")
	return &AggregateResult{Repos: results, Org: org}, nil
}
