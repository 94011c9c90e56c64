package usecase

import (
	"testing"
	"time"

	"github.com/nitinNayar/github-recent-contributors/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregateOf(stats ...*domain.RepoStats) *AggregateResult {
	org := domain.NewOrgStats()
	for _, s := range stats {
		org.Fold(s)
	}
	return &AggregateResult{Repos: stats, Org: org}
}

func statsOf(name string, commits ...domain.Commit) *domain.RepoStats {
	s := domain.NewRepoStats(domain.Repository{Name: name, Owner: "acme", URL: "https://github.com/acme/" + name})
	for _, c := range commits {
		s.Add(c)
	}
	return s
}

func TestBuildReport(t *testing.T) {
	meta := ReportMeta{Organization: "acme", Days: 30, Date: time.Date(2026, 10, 19, 23, 0, 0, 0, time.Local)}

	t.Run("docs repository with one external commit", func(t *testing.T) {
		report := BuildReport(meta, []string{"alice"}, aggregateOf(statsOf("docs", commit("External Developer", ""))))

		assert.Equal(t, domain.RepoDetail{
			RepositoryURL:            "https://github.com/acme/docs",
			TotalCommits:             1,
			UniqueContributorsCount:  1,
			UniqueGitHubAuthorsCount: 0,
			CommitAuthors:            map[string]int{"External Developer": 1},
			GitHubAuthors:            map[string]int{},
		}, report.ReposDetail["docs"])
		assert.Equal(t, []string{}, report.CommitAuthors)
		assert.Equal(t, []string{}, report.CommitingMembers)
		require.NoError(t, report.Validate())
	})

	t.Run("header, intersection and shared authors", func(t *testing.T) {
		result := aggregateOf(
			statsOf("web", commit("Alice Smith", "alice-s"), commit("Outsider", "outsider")),
			statsOf("api", commit("Alice Smith", "alice-s"), commit("Bob", "bob")),
		)
		report := BuildReport(meta, []string{"bob", "alice-s", "carol", "bob"}, result)

		assert.Equal(t, "acme", report.Organization)
		assert.Equal(t, "2026-10-19", report.Date)
		assert.Equal(t, 30, report.NumberOfDaysHistory)
		assert.Equal(t, []string{"alice-s", "bob", "carol"}, report.OrgMembers)
		assert.Equal(t, []string{"alice-s", "bob", "outsider"}, report.CommitAuthors)
		assert.Equal(t, []string{"alice-s", "bob"}, report.CommitingMembers)
		assert.Equal(t, []string{"api", "web"}, report.RepoNames())
		assert.Equal(t, 1, report.ReposDetail["web"].CommitAuthors["Alice Smith"])
		assert.Equal(t, 1, report.ReposDetail["api"].CommitAuthors["Alice Smith"])
		require.NoError(t, report.Validate())
	})

	t.Run("nothing analyzed", func(t *testing.T) {
		report := BuildReport(meta, []string{"alice"}, nil)

		assert.Equal(t, []string{"alice"}, report.OrgMembers)
		assert.Equal(t, []string{}, report.CommitAuthors)
		assert.Equal(t, []string{}, report.CommitingMembers)
		assert.Empty(t, report.ReposDetail)
		assert.NotNil(t, report.ReposDetail)
		require.NoError(t, report.Validate())
	})
}
