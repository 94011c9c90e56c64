package usecase

import (
	"sort"
	"time"

	"github.com/nitinNayar/github-recent-contributors/internal/domain"
)

// ReportMeta is the run metadata copied into the report header.
type ReportMeta struct {
	Organization string
	Days         int
	Date         time.Time
}

// BuildReport combines membership data and aggregation output into a report.
// A nil result yields a report with empty contributor sets.
func BuildReport(meta ReportMeta, members []string, result *AggregateResult) *domain.Report {
	report := &domain.Report{
		Organization:        meta.Organization,
		Date:                meta.Date.Format("2006-01-02"),
		NumberOfDaysHistory: meta.Days,
		OrgMembers:          uniqueSorted(members),
		CommitAuthors:       []string{},
		CommitingMembers:    []string{},
		ReposDetail:         make(map[string]domain.RepoDetail),
	}
	if result == nil {
		return report
	}

	report.CommitAuthors = result.Org.GitHubAuthors()
	for _, member := range report.OrgMembers {
		if result.Org.HasGitHubAuthor(member) {
			report.CommitingMembers = append(report.CommitingMembers, member)
		}
	}
	for _, stats := range result.Repos {
		report.ReposDetail[stats.Name] = domain.NewRepoDetail(stats)
	}
	return report
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
