// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Repository is the snapshot of an organization repository taken once per run.
type Repository struct {
	Name  string
	Owner string
	URL   string
}

// LinkedAccount is the GitHub account a commit was attributed to, if any.
// The zero value means the commit email matched no account.
type LinkedAccount struct {
	login  string
	linked bool
}

// Linked returns a LinkedAccount for the given login.
func Linked(login string) LinkedAccount {
	return LinkedAccount{login: login, linked: true}
}

// Unlinked returns the empty LinkedAccount.
func Unlinked() LinkedAccount {
	return LinkedAccount{}
}

// Get returns the login and whether the account is present.
func (a LinkedAccount) Get() (string, bool) {
	return a.login, a.linked
}

// Commit carries the two identities recorded for a single commit.
type Commit struct {
	AuthorName string
	Account    LinkedAccount
}

// PageKind tags what a commit listing request returned.
type PageKind int

const (
	// PageCommits is a non-empty list of commits.
	PageCommits PageKind = iota
	// PageEnd is an empty list: pagination is over.
	PageEnd
	// PageMalformed is anything that is not a list of commits, such as an API error payload.
	PageMalformed
)

func (k PageKind) String() string {
	switch k {
	case PageCommits:
		return "commits"
	case PageEnd:
		return "end of data"
	case PageMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// CommitPage is one page of a repository's commit history.
type CommitPage struct {
	Kind    PageKind
	Commits []Commit
	// NextPage is 0 when the source reported no further page.
	NextPage int
	// Reason describes a PageMalformed result.
	Reason string
}

// Window is the inclusive time range commits are counted in.
type Window struct {
	Since time.Time
	Until time.Time
}

// NewWindow returns the window covering the given number of days up to now, in UTC.
func NewWindow(now time.Time, days int) Window {
	until := now.UTC()
	return Window{
		Since: until.AddDate(0, 0, -days),
		Until: until,
	}
}
