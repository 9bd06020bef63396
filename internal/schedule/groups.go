package schedule

import (
	"fmt"
	"slices"
	"strings"
)

// AssigneeGroup is one recurring set of co-assigned people. Its identity is
// derived from the sorted member names, never from a counter, so a
// user-maintained configuration keyed by group survives reordering of the
// input export.
type AssigneeGroup struct {
	ID      string
	Members []string // sorted, deduplicated
	Issues  []string // titles of member issues, in input order
}

// Unassigned reports whether this is a per-issue pseudo-group for work with
// no assignees.
func (g AssigneeGroup) Unassigned() bool {
	return len(g.Members) == 0
}

// Grouping is an exact partition of a normalized issue sequence: every issue
// belongs to exactly one group.
type Grouping struct {
	Groups  []AssigneeGroup
	ByIssue []string // group ID per issue, aligned with the input sequence
}

// GroupKey derives the stable identity of a non-empty assignee set: the
// member names, deduplicated, sorted, and joined.
func GroupKey(assignees []string) string {
	members := memberSet(assignees)
	return strings.Join(members, ",")
}

// memberSet sorts and deduplicates an assignee list.
func memberSet(assignees []string) []string {
	members := slices.Clone(assignees)
	slices.Sort(members)
	return slices.Compact(members)
}

// DetectGroups partitions issues by exact assignee-set equality. Two issues
// share a group iff their assignee sets are identical and non-empty. Issues
// without assignees each form their own singleton pseudo-group — unrelated
// unassigned work must never be visually merged. Groups are ordered by the
// first occurrence of their key, so reruns on unchanged input produce
// identical ordering and IDs.
func DetectGroups(issues []NormalizedIssue) Grouping {
	grouping := Grouping{
		ByIssue: make([]string, len(issues)),
	}
	index := make(map[string]int) // group ID -> position in Groups

	for i, issue := range issues {
		members := memberSet(issue.Assignees)

		var id string
		if len(members) == 0 {
			id = fmt.Sprintf("unassigned:%d", i)
		} else {
			id = strings.Join(members, ",")
		}

		at, ok := index[id]
		if !ok {
			at = len(grouping.Groups)
			index[id] = at
			grouping.Groups = append(grouping.Groups, AssigneeGroup{
				ID:      id,
				Members: members,
			})
		}
		grouping.Groups[at].Issues = append(grouping.Groups[at].Issues, issue.Title)
		grouping.ByIssue[i] = id
	}

	return grouping
}

// FrequentGroups returns the multi-member assignee sets that co-occur on at
// least minOccurrences issues, most frequent first (ties broken by larger
// set, then by first occurrence). This feeds the configuration scaffold's
// suggested groups; lane assignment never uses it.
func FrequentGroups(issues []Issue, minOccurrences int) [][]string {
	counts := make(map[string]int)
	members := make(map[string][]string)
	var order []string

	for _, issue := range issues {
		set := memberSet(issue.Assignees)
		if len(set) < 2 {
			continue
		}
		key := strings.Join(set, ",")
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			members[key] = set
		}
		counts[key]++
	}

	var keys []string
	for _, key := range order {
		if counts[key] >= minOccurrences {
			keys = append(keys, key)
		}
	}
	slices.SortStableFunc(keys, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return len(members[b]) - len(members[a])
	})

	groups := make([][]string, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, members[key])
	}
	return groups
}
