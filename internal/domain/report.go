package domain

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// RepoDetail is the per-repository section of a Report.
type RepoDetail struct {
	RepositoryURL            string         `json:"repository_url" yaml:"repository_url"`
	TotalCommits             int            `json:"total_commits" yaml:"total_commits"`
	UniqueContributorsCount  int            `json:"unique_contributors_count" yaml:"unique_contributors_count"`
	UniqueGitHubAuthorsCount int            `json:"unique_github_authors_count" yaml:"unique_github_authors_count"`
	CommitAuthors            map[string]int `json:"commit_authors" yaml:"commit_authors"`
	GitHubAuthors            map[string]int `json:"github_authors" yaml:"github_authors"`
}

// Report is the snapshot written at the end of a run.
type Report struct {
	Organization        string                `json:"organization" yaml:"organization"`
	Date                string                `json:"date" yaml:"date"`
	NumberOfDaysHistory int                   `json:"number_of_days_history" yaml:"number_of_days_history"`
	OrgMembers          []string              `json:"org_members" yaml:"org_members"`
	CommitAuthors       []string              `json:"commit_authors" yaml:"commit_authors"`
	CommitingMembers    []string              `json:"commiting_members" yaml:"commiting_members"`
	ReposDetail         map[string]RepoDetail `json:"repos_detail" yaml:"repos_detail"`
}

// NewRepoDetail converts a finalized aggregate into its report section.
func NewRepoDetail(s *RepoStats) RepoDetail {
	return RepoDetail{
		RepositoryURL:            s.URL,
		TotalCommits:             s.TotalCommits,
		UniqueContributorsCount:  len(s.CommitAuthors),
		UniqueGitHubAuthorsCount: len(s.GitHubAuthors),
		CommitAuthors:            s.CommitAuthors,
		GitHubAuthors:            s.GitHubAuthors,
	}
}

// RepoNames returns the keys of ReposDetail, sorted.
func (r *Report) RepoNames() []string {
	names := make([]string, 0, len(r.ReposDetail))
	for name := range r.ReposDetail {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the count invariants of every repository section.
// All violations are returned together.
func (r *Report) Validate() error {
	var result *multierror.Error
	for _, name := range r.RepoNames() {
		d := r.ReposDetail[name]
		if d.UniqueContributorsCount != len(d.CommitAuthors) {
			result = multierror.Append(result, fmt.Errorf("%s: unique_contributors_count is %d but %d commit authors are listed",
				name, d.UniqueContributorsCount, len(d.CommitAuthors)))
		}
		if d.UniqueGitHubAuthorsCount != len(d.GitHubAuthors) {
			result = multierror.Append(result, fmt.Errorf("%s: unique_github_authors_count is %d but %d github authors are listed",
				name, d.UniqueGitHubAuthorsCount, len(d.GitHubAuthors)))
		}
		if sum := sumCounts(d.CommitAuthors); sum != d.TotalCommits {
			result = multierror.Append(result, fmt.Errorf("%s: commit author counts sum to %d, want total_commits %d",
				name, sum, d.TotalCommits))
		}
		if sum := sumCounts(d.GitHubAuthors); sum > d.TotalCommits {
			result = multierror.Append(result, fmt.Errorf("%s: github author counts sum to %d, exceeding total_commits %d",
				name, sum, d.TotalCommits))
		}
	}
	return result.ErrorOrNil()
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
