// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/nitinNayar/github-recent-contributors/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

const perPage = 100

// graphQLStatusPrefix starts the error the GraphQL client returns for a non-200 response.
const graphQLStatusPrefix = "non-200 OK status code: "

// Identity is what the preflight check learned about the token and organization.
type Identity struct {
	Login     string
	Org       string
	IsMember  bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	Preflight(ctx context.Context, org string) (*Identity, error)
	ListRepositories(ctx context.Context, org string) ([]domain.Repository, error)
	ListMembers(ctx context.Context, org string) ([]string, error)
	ListCommits(ctx context.Context, owner, repo string, window domain.Window, page int) (domain.CommitPage, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        logrus.FieldLogger
}

// preflightQuery validates the token, the organization and the remaining quota in one round trip.
type preflightQuery struct {
	Viewer struct {
		Login githubv4.String
	}
	Organization struct {
		Login           githubv4.String
		ViewerIsAMember githubv4.Boolean
	} `graphql:"organization(login: $org)"`
	RateLimit struct {
		Limit     githubv4.Int
		Remaining githubv4.Int
		ResetAt   githubv4.DateTime
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty apiURL targets github.com; otherwise it is a GitHub Enterprise REST base URL.
func NewGitHubGateway(token, apiURL string, logger logrus.FieldLogger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if apiURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure GitHub Enterprise URL %q: %w", apiURL, err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(enterpriseGraphQLURL(apiURL), httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// enterpriseGraphQLURL derives https://host/api/graphql from https://host/api/v3/.
func enterpriseGraphQLURL(apiURL string) string {
	base := strings.TrimSuffix(apiURL, "/")
	base = strings.TrimSuffix(base, "/v3")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	return base + "/graphql"
}

// Preflight checks the credential and organization before any paginated traffic.
func (g *GitHubGateway) Preflight(ctx context.Context, org string) (*Identity, error) {
	g.logger.WithField("org", org).Debug("Running preflight query using GraphQL API...")
	var q preflightQuery
	variables := map[string]interface{}{"org": githubv4.String(org)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, classifyGraphQL(err, org)
	}

	id := &Identity{
		Login:     string(q.Viewer.Login),
		Org:       string(q.Organization.Login),
		IsMember:  bool(q.Organization.ViewerIsAMember),
		Limit:     int(q.RateLimit.Limit),
		Remaining: int(q.RateLimit.Remaining),
		ResetAt:   q.RateLimit.ResetAt.Time,
	}
	// The GraphQL quota is separate from the REST one used by every later call.
	if id.Limit > 0 && id.Remaining == 0 {
		g.logger.WithFields(logrus.Fields{
			"org":      org,
			"reset_at": id.ResetAt.Format(time.RFC3339),
		}).Warn("GraphQL API quota is exhausted; continuing with the REST API")
	}
	return id, nil
}

// classifyGraphQL maps the plain errors of the GraphQL client onto the typed errors.
func classifyGraphQL(err error, org string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not resolve to an Organization"):
		return &AccessError{Org: org, Err: err}
	case strings.HasPrefix(msg, graphQLStatusPrefix+"401"):
		return &AuthError{Err: err}
	case strings.HasPrefix(msg, graphQLStatusPrefix+"403") && strings.Contains(strings.ToLower(msg), "rate limit"):
		return &RateLimitError{Err: err}
	case strings.HasPrefix(msg, graphQLStatusPrefix+"403"):
		return &AccessError{Org: org, Err: err}
	case strings.Contains(strings.ToLower(msg), "api rate limit exceeded"):
		return &RateLimitError{Err: err}
	}
	return fmt.Errorf("failed to execute GraphQL preflight query: %w", err)
}

// ListRepositories fetches every repository of the organization, following pagination.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string) ([]domain.Repository, error) {
	g.logger.WithField("org", org).Info("Fetching repositories using REST API...")
	opts := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var repos []domain.Repository
	page := 1
	for {
		g.logger.WithField("page", page).Debug("  Fetching repositories page...")
		result, resp, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, classify(err, org, fmt.Sprintf("list repositories for organization %s", org))
		}
		for _, r := range result {
			repos = append(repos, domain.Repository{
				Name:  r.GetName(),
				Owner: r.GetOwner().GetLogin(),
				URL:   r.GetHTMLURL(),
			})
		}
		g.logger.WithFields(logrus.Fields{"page": page, "count": len(result)}).Debug("  Found repositories on page")
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page++
	}
	g.logger.WithField("total", len(repos)).Info("Completed fetching repositories.")
	return repos, nil
}

// ListMembers fetches the logins of every organization member.
func (g *GitHubGateway) ListMembers(ctx context.Context, org string) ([]string, error) {
	g.logger.WithField("org", org).Info("Fetching organization members using REST API...")
	opts := &github.ListMembersOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var members []string
	for {
		result, resp, err := g.restClient.Organizations.ListMembers(ctx, org, opts)
		if err != nil {
			return nil, classify(err, org, fmt.Sprintf("list members of organization %s", org))
		}
		for _, u := range result {
			members = append(members, u.GetLogin())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of members...")
	}
	g.logger.WithField("total", len(members)).Info("Completed fetching organization members.")
	return members, nil
}

// ListCommits fetches one page of a repository's commits within the window.
// Payloads that are not a list of commits are reported as domain.PageMalformed, not as errors.
func (g *GitHubGateway) ListCommits(ctx context.Context, owner, repo string, window domain.Window, page int) (domain.CommitPage, error) {
	opts := &github.CommitsListOptions{
		Since:       window.Since,
		Until:       window.Until,
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	result, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		var rateErr *github.RateLimitError
		var abuseErr *github.AbuseRateLimitError
		if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
			return domain.CommitPage{}, classify(err, owner, "list commits")
		}
		if reason, ok := malformedReason(err); ok {
			return domain.CommitPage{Kind: domain.PageMalformed, Reason: reason}, nil
		}
		return domain.CommitPage{}, fmt.Errorf("failed to list commits for %s/%s: %w", owner, repo, err)
	}
	if len(result) == 0 {
		return domain.CommitPage{Kind: domain.PageEnd}, nil
	}

	commits := make([]domain.Commit, 0, len(result))
	for _, c := range result {
		account := domain.Unlinked()
		if author := c.GetAuthor(); author != nil && author.GetLogin() != "" {
			account = domain.Linked(author.GetLogin())
		}
		commits = append(commits, domain.Commit{
			AuthorName: c.GetCommit().GetAuthor().GetName(),
			Account:    account,
		})
	}
	return domain.CommitPage{
		Kind:     domain.PageCommits,
		Commits:  commits,
		NextPage: resp.NextPage,
	}, nil
}

// malformedReason reports whether err means the API answered with something other than a commit list.
func malformedReason(err error) (string, bool) {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		if respErr.Response != nil {
			return fmt.Sprintf("%d %s", respErr.Response.StatusCode, respErr.Message), true
		}
		return respErr.Message, true
	}
	var acceptedErr *github.AcceptedError
	if errors.As(err, &acceptedErr) {
		return "202 Accepted: data is still being generated", true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "unexpected payload: " + typeErr.Error(), true
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "unexpected payload: " + syntaxErr.Error(), true
	}
	return "", false
}
