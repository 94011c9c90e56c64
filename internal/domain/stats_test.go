package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoStats_Add(t *testing.T) {
	s := NewRepoStats(Repository{Name: "docs", Owner: "acme", URL: "https://github.com/acme/docs"})
	s.Add(Commit{AuthorName: "Alice", Account: Linked("alice")})
	s.Add(Commit{AuthorName: "Alice", Account: Linked("alice")})
	s.Add(Commit{AuthorName: "External Developer", Account: Unlinked()})

	assert.Equal(t, 3, s.TotalCommits)
	assert.Equal(t, map[string]int{"Alice": 2, "External Developer": 1}, s.CommitAuthors)
	assert.Equal(t, map[string]int{"alice": 2}, s.GitHubAuthors)
	assert.Equal(t, PageEnd, s.Stop)
}

func TestOrgStats_Fold(t *testing.T) {
	a := NewRepoStats(Repository{Name: "a"})
	a.Add(Commit{AuthorName: "Alice Smith", Account: Linked("alice-s")})
	b := NewRepoStats(Repository{Name: "b"})
	b.Add(Commit{AuthorName: "Alice Smith", Account: Linked("alice-s")})
	b.Add(Commit{AuthorName: "Bob", Account: Unlinked()})

	org := NewOrgStats()
	org.Fold(a)
	org.Fold(b)

	assert.Equal(t, []string{"Alice Smith", "Bob"}, org.CommitAuthors())
	assert.Equal(t, []string{"alice-s"}, org.GitHubAuthors())
	assert.True(t, org.HasGitHubAuthor("alice-s"))
	assert.False(t, org.HasGitHubAuthor("bob"))
}

func TestLinkedAccount_ZeroValueIsUnlinked(t *testing.T) {
	var a LinkedAccount
	_, ok := a.Get()
	assert.False(t, ok)

	login, ok := Linked("octocat").Get()
	assert.True(t, ok)
	assert.Equal(t, "octocat", login)
}

func TestNewWindow(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	w := NewWindow(now, 30)

	assert.Equal(t, time.UTC, w.Until.Location())
	assert.True(t, w.Until.Equal(now))
	assert.Equal(t, time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC), w.Since)
}

func TestReport_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		detail      RepoDetail
		expectError bool
		errContains string
	}{
		{
			name: "consistent detail",
			detail: RepoDetail{
				TotalCommits:             3,
				UniqueContributorsCount:  2,
				UniqueGitHubAuthorsCount: 1,
				CommitAuthors:            map[string]int{"Alice": 2, "Bob": 1},
				GitHubAuthors:            map[string]int{"alice": 2},
			},
		},
		{
			name: "commit author counts do not sum to total",
			detail: RepoDetail{
				TotalCommits:            4,
				UniqueContributorsCount: 1,
				CommitAuthors:           map[string]int{"Alice": 2},
				GitHubAuthors:           map[string]int{},
			},
			expectError: true,
			errContains: "commit author counts sum to 2, want total_commits 4",
		},
		{
			name: "github authors exceed total",
			detail: RepoDetail{
				TotalCommits:             1,
				UniqueContributorsCount:  1,
				UniqueGitHubAuthorsCount: 1,
				CommitAuthors:            map[string]int{"Alice": 1},
				GitHubAuthors:            map[string]int{"alice": 2},
			},
			expectError: true,
			errContains: "exceeding total_commits 1",
		},
		{
			name: "unique count mismatch",
			detail: RepoDetail{
				TotalCommits:            1,
				UniqueContributorsCount: 5,
				CommitAuthors:           map[string]int{"Alice": 1},
				GitHubAuthors:           map[string]int{},
			},
			expectError: true,
			errContains: "unique_contributors_count is 5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Report{ReposDetail: map[string]RepoDetail{"repo": tc.detail}}
			err := r.Validate()
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
