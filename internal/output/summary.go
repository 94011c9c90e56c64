package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
	"github.com/nitinNayar/github-recent-contributors/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Distribution summarizes commits per analyzed repository.
type Distribution struct {
	Mean   float64
	Median float64
	P90    float64
	Max    float64
}

// CommitDistribution returns nil when the report has no repositories.
func CommitDistribution(report *domain.Report) (*Distribution, error) {
	if len(report.ReposDetail) == 0 {
		return nil, nil
	}
	data := make(stats.Float64Data, 0, len(report.ReposDetail))
	for _, name := range report.RepoNames() {
		data = append(data, float64(report.ReposDetail[name].TotalCommits))
	}

	var (
		d   Distribution
		err error
	)
	if d.Mean, err = stats.Mean(data); err != nil {
		return nil, fmt.Errorf("failed to compute mean: %w", err)
	}
	if d.Median, err = stats.Median(data); err != nil {
		return nil, fmt.Errorf("failed to compute median: %w", err)
	}
	if d.P90, err = stats.Percentile(data, 90); err != nil {
		return nil, fmt.Errorf("failed to compute p90: %w", err)
	}
	if d.Max, err = stats.Max(data); err != nil {
		return nil, fmt.Errorf("failed to compute max: %w", err)
	}
	return &d, nil
}

// PrintSummary writes the human-readable run summary.
func PrintSummary(w io.Writer, path string, report *domain.Report) error {
	green := color.New(color.FgGreen, color.Bold)
	bold := color.New(color.Bold)

	fmt.Fprintln(w)
	green.Fprintf(w, "✅ Output saved to: %s\n", path)
	fmt.Fprintf(w, "Total commit authors in the last %d days: %s\n", report.NumberOfDaysHistory, bold.Sprint(len(report.CommitAuthors)))
	fmt.Fprintf(w, "Total members in %s: %s\n", report.Organization, bold.Sprint(len(report.OrgMembers)))
	fmt.Fprintf(w, "Total unique contributors from %s in the last %d days: %s\n",
		report.Organization, report.NumberOfDaysHistory, bold.Sprint(len(report.CommitingMembers)))

	if len(report.ReposDetail) == 0 {
		fmt.Fprintln(w, color.YellowString("No repositories were analyzed."))
		return nil
	}

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Repository", "Commits", "Contributors", "GitHub authors"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, name := range report.RepoNames() {
		detail := report.ReposDetail[name]
		table.Append([]string{
			name,
			strconv.Itoa(detail.TotalCommits),
			strconv.Itoa(detail.UniqueContributorsCount),
			strconv.Itoa(detail.UniqueGitHubAuthorsCount),
		})
	}
	table.Render()

	dist, err := CommitDistribution(report)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nCommits per repository: mean %.1f, median %.1f, p90 %.1f, max %.0f\n",
		dist.Mean, dist.Median, dist.P90, dist.Max)
	return nil
}
