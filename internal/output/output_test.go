package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/nitinNayar/github-recent-contributors/internal/config"
	"github.com/nitinNayar/github-recent-contributors/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

var runAt = time.Unix(1760860800, 0)

func sampleReport() *domain.Report {
	return &domain.Report{
		Organization:        "acme",
		Date:                "2026-10-19",
		NumberOfDaysHistory: 30,
		OrgMembers:          []string{"alice", "carol"},
		CommitAuthors:       []string{"alice", "bob"},
		CommitingMembers:    []string{"alice"},
		ReposDetail: map[string]domain.RepoDetail{
			"web": {
				RepositoryURL:            "https://github.com/acme/web",
				TotalCommits:             10,
				UniqueContributorsCount:  2,
				UniqueGitHubAuthorsCount: 1,
				CommitAuthors:            map[string]int{"Alice": 7, "Bot": 3},
				GitHubAuthors:            map[string]int{"alice": 7},
			},
			"api": {
				RepositoryURL:            "https://github.com/acme/api",
				TotalCommits:             2,
				UniqueContributorsCount:  1,
				UniqueGitHubAuthorsCount: 1,
				CommitAuthors:            map[string]int{"Bob": 2},
				GitHubAuthors:            map[string]int{"bob": 2},
			},
			"docs": {
				RepositoryURL:           "https://github.com/acme/docs",
				UniqueContributorsCount: 0,
				CommitAuthors:           map[string]int{},
				GitHubAuthors:           map[string]int{},
			},
		},
	}
}

func emptyReport() *domain.Report {
	return &domain.Report{
		Organization:        "acme",
		Date:                "2026-10-19",
		NumberOfDaysHistory: 7,
		OrgMembers:          []string{"alice"},
		CommitAuthors:       []string{},
		CommitingMembers:    []string{},
		ReposDetail:         map[string]domain.RepoDetail{},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "acme__1760860800__contributor_count.json", FileName("acme", runAt, config.FormatJSON))
	assert.Equal(t, "acme__1760860800__contributor_count.yaml", FileName("acme", runAt, config.FormatYAML))
}

func TestWriteReport(t *testing.T) {
	testCases := []struct {
		name      string
		format    string
		unmarshal func([]byte, any) error
	}{
		{name: "json", format: config.FormatJSON, unmarshal: json.Unmarshal},
		{name: "yaml", format: config.FormatYAML, unmarshal: yaml.Unmarshal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "outputs")

			path, err := WriteReport(dir, tc.format, sampleReport(), runAt)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, FileName("acme", runAt, tc.format)), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			var decoded domain.Report
			require.NoError(t, tc.unmarshal(data, &decoded))
			assert.Equal(t, *sampleReport(), decoded)
		})
	}
}

func TestEncode_EmptyCollections(t *testing.T) {
	testCases := []struct {
		format   string
		expected []string
	}{
		{format: config.FormatJSON, expected: []string{`"commit_authors": []`, `"commiting_members": []`, `"repos_detail": {}`}},
		{format: config.FormatYAML, expected: []string{"commit_authors: []", "commiting_members: []", "repos_detail: {}"}},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, tc.format, emptyReport()))
			for _, want := range tc.expected {
				assert.Contains(t, buf.String(), want)
			}
			assert.NotContains(t, buf.String(), "null")
		})
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, "xml", emptyReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported output format "xml"`)
}

func TestCommitDistribution(t *testing.T) {
	dist, err := CommitDistribution(sampleReport())
	require.NoError(t, err)
	require.NotNil(t, dist)
	assert.InDelta(t, 4.0, dist.Mean, 0.001)
	assert.InDelta(t, 2.0, dist.Median, 0.001)
	assert.InDelta(t, 10.0, dist.Max, 0.001)
	assert.LessOrEqual(t, dist.P90, dist.Max)

	none, err := CommitDistribution(emptyReport())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPrintSummary(t *testing.T) {
	t.Run("with repositories", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintSummary(&buf, "outputs/acme.json", sampleReport()))
		out := buf.String()

		assert.Contains(t, out, "Output saved to: outputs/acme.json")
		assert.Contains(t, out, "Total commit authors in the last 30 days: 2")
		assert.Contains(t, out, "Total members in acme: 2")
		assert.Contains(t, out, "Total unique contributors from acme in the last 30 days: 1")
		assert.Contains(t, out, "REPOSITORY")
		assert.Contains(t, out, "web")
		assert.Contains(t, out, "Commits per repository: mean 4.0, median 2.0")
		assert.Contains(t, out, "max 10")
	})

	t.Run("nothing analyzed", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintSummary(&buf, "outputs/acme.json", emptyReport()))
		out := buf.String()

		assert.Contains(t, out, "Total commit authors in the last 7 days: 0")
		assert.Contains(t, out, "No repositories were analyzed.")
		assert.NotContains(t, out, "Commits per repository")
	})
}
