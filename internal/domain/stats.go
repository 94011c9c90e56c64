package domain

import "sort"

// RepoStats holds the contributor counts for a single repository.
// It is the core domain entity of this application.
type RepoStats struct {
	Name          string
	URL           string
	TotalCommits  int
	CommitAuthors map[string]int // display name -> commits
	GitHubAuthors map[string]int // account login -> commits
	// Stop records why pagination ended: PageEnd or PageMalformed.
	Stop PageKind
}

// NewRepoStats creates an empty aggregate for the given repository.
func NewRepoStats(repo Repository) *RepoStats {
	return &RepoStats{
		Name:          repo.Name,
		URL:           repo.URL,
		CommitAuthors: make(map[string]int),
		GitHubAuthors: make(map[string]int),
		Stop:          PageEnd,
	}
}

// Add counts one commit.
func (s *RepoStats) Add(c Commit) {
	s.TotalCommits++
	s.CommitAuthors[c.AuthorName]++
	if login, ok := c.Account.Get(); ok {
		s.GitHubAuthors[login]++
	}
}

// OrgStats is the deduplicated union of identities across analyzed repositories.
type OrgStats struct {
	commitAuthors map[string]struct{}
	githubAuthors map[string]struct{}
}

// NewOrgStats creates an empty organization-wide aggregate.
func NewOrgStats() *OrgStats {
	return &OrgStats{
		commitAuthors: make(map[string]struct{}),
		githubAuthors: make(map[string]struct{}),
	}
}

// Fold unions a finalized repository aggregate into the organization aggregate.
func (o *OrgStats) Fold(s *RepoStats) {
	for name := range s.CommitAuthors {
		o.commitAuthors[name] = struct{}{}
	}
	for login := range s.GitHubAuthors {
		o.githubAuthors[login] = struct{}{}
	}
}

// CommitAuthors returns every display name seen, sorted.
func (o *OrgStats) CommitAuthors() []string {
	return sortedKeys(o.commitAuthors)
}

// GitHubAuthors returns every linked account login seen, sorted.
func (o *OrgStats) GitHubAuthors() []string {
	return sortedKeys(o.githubAuthors)
}

// HasGitHubAuthor reports whether login committed to any analyzed repository.
func (o *OrgStats) HasGitHubAuthor(login string) bool {
	_, ok := o.githubAuthors[login]
	return ok
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
