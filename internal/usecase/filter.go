package usecase

import (
	"sort"
	"strings"

	"github.com/nitinNayar/github-recent-contributors/internal/domain"
)

// FilterResult is the outcome of applying a repository allow-list.
type FilterResult struct {
	// Matched preserves the order of the input repositories.
	Matched []domain.Repository
	// Unmatched holds allow-list entries, as the user spelled them, that named no repository.
	Unmatched []string
	// Filtered is false when no allow-list was given.
	Filtered bool
}

// NothingToAnalyze reports whether a non-empty allow-list matched no repository.
func (r FilterResult) NothingToAnalyze() bool {
	return r.Filtered && len(r.Matched) == 0
}

// FilterRepositories keeps the repositories whose name equals an allow-list entry, ignoring case.
// A nil or empty allow-list keeps every repository.
func FilterRepositories(repos []domain.Repository, names []string) FilterResult {
	if len(names) == 0 {
		return FilterResult{Matched: repos}
	}

	// lowercase -> first spelling given by the user
	wanted := make(map[string]string, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := wanted[key]; !ok {
			wanted[key] = name
		}
	}

	matched := make([]domain.Repository, 0, len(wanted))
	found := make(map[string]bool, len(wanted))
	for _, repo := range repos {
		key := strings.ToLower(repo.Name)
		if _, ok := wanted[key]; ok {
			matched = append(matched, repo)
			found[key] = true
		}
	}

	keys := make([]string, 0, len(wanted))
	for key := range wanted {
		if !found[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	unmatched := make([]string, 0, len(keys))
	for _, key := range keys {
		unmatched = append(unmatched, wanted[key])
	}

	return FilterResult{Matched: matched, Unmatched: unmatched, Filtered: true}
}
