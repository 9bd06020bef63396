package schedule

import (
	"reflect"
	"testing"
)

func normalizedWithAssignees(title string, assignees ...string) NormalizedIssue {
	return NormalizedIssue{Issue: Issue{Title: title, Assignees: assignees}}
}

func TestGroupKey(t *testing.T) {
	tests := []struct {
		name      string
		assignees []string
		want      string
	}{
		{"SingleMember", []string{"alice"}, "alice"},
		{"SortedJoin", []string{"bob", "alice"}, "alice,bob"},
		{"Deduplicated", []string{"alice", "alice", "bob"}, "alice,bob"},
		{"Empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GroupKey(tt.assignees); got != tt.want {
				t.Errorf("GroupKey(%v) = %q, want %q", tt.assignees, got, tt.want)
			}
		})
	}
}

func TestDetectGroupsExactSetPartition(t *testing.T) {
	issues := []NormalizedIssue{
		normalizedWithAssignees("api design", "alice", "bob"),
		normalizedWithAssignees("docs", "carol"),
		normalizedWithAssignees("api impl", "bob", "alice"),
		normalizedWithAssignees("api review", "alice", "bob", "dave"),
		normalizedWithAssignees("release notes", "carol"),
	}

	grouping := DetectGroups(issues)

	if len(grouping.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(grouping.Groups))
	}

	// First occurrence defines the order.
	wantIDs := []string{"alice,bob", "carol", "alice,bob,dave"}
	for i, want := range wantIDs {
		if grouping.Groups[i].ID != want {
			t.Errorf("group %d ID = %q, want %q", i, grouping.Groups[i].ID, want)
		}
	}

	// Both {alice,bob} issues land in one group regardless of input member
	// order; the superset {alice,bob,dave} stays distinct by design.
	if got := grouping.Groups[0].Issues; !reflect.DeepEqual(got, []string{"api design", "api impl"}) {
		t.Errorf("group alice,bob issues = %v", got)
	}
	if got := grouping.Groups[2].Issues; !reflect.DeepEqual(got, []string{"api review"}) {
		t.Errorf("group alice,bob,dave issues = %v", got)
	}
}

func TestDetectGroupsUnassignedSingletons(t *testing.T) {
	issues := []NormalizedIssue{
		normalizedWithAssignees("orphan one"),
		normalizedWithAssignees("orphan two"),
		normalizedWithAssignees("owned", "alice"),
	}

	grouping := DetectGroups(issues)

	if len(grouping.Groups) != 3 {
		t.Fatalf("got %d groups, want 3 (unassigned issues never merge)", len(grouping.Groups))
	}
	if grouping.ByIssue[0] == grouping.ByIssue[1] {
		t.Error("two unassigned issues share a group")
	}
	if !grouping.Groups[0].Unassigned() || !grouping.Groups[1].Unassigned() {
		t.Error("unassigned pseudo-groups not flagged")
	}
}

func TestDetectGroupsPartitionLaw(t *testing.T) {
	issues := []NormalizedIssue{
		normalizedWithAssignees("a", "x", "y"),
		normalizedWithAssignees("b"),
		normalizedWithAssignees("c", "x"),
		normalizedWithAssignees("d", "y", "x"),
		normalizedWithAssignees("e"),
	}

	grouping := DetectGroups(issues)

	if len(grouping.ByIssue) != len(issues) {
		t.Fatalf("ByIssue length = %d, want %d", len(grouping.ByIssue), len(issues))
	}

	// Every issue maps to exactly one existing group, and group issue lists
	// cover the input exactly once.
	ids := make(map[string]bool)
	total := 0
	for _, g := range grouping.Groups {
		if ids[g.ID] {
			t.Fatalf("duplicate group ID %q", g.ID)
		}
		ids[g.ID] = true
		total += len(g.Issues)
	}
	if total != len(issues) {
		t.Errorf("groups cover %d issues, want %d", total, len(issues))
	}
	for i, id := range grouping.ByIssue {
		if !ids[id] {
			t.Errorf("issue %d mapped to unknown group %q", i, id)
		}
	}
}

func TestDetectGroupsIdempotent(t *testing.T) {
	issues := []NormalizedIssue{
		normalizedWithAssignees("a", "alice", "bob"),
		normalizedWithAssignees("b", "carol"),
		normalizedWithAssignees("c", "bob", "alice"),
		normalizedWithAssignees("d"),
	}

	first := DetectGroups(issues)
	second := DetectGroups(issues)

	if !reflect.DeepEqual(first, second) {
		t.Error("DetectGroups is not deterministic for identical input")
	}
}

func TestFrequentGroups(t *testing.T) {
	issues := []Issue{
		{Title: "1", Assignees: []string{"alice", "bob"}},
		{Title: "2", Assignees: []string{"bob", "alice"}},
		{Title: "3", Assignees: []string{"carol", "dave"}},
		{Title: "4", Assignees: []string{"carol", "dave"}},
		{Title: "5", Assignees: []string{"carol", "dave"}},
		{Title: "6", Assignees: []string{"eve", "frank"}}, // appears once
		{Title: "7", Assignees: []string{"alice"}},        // single member, ignored
	}

	got := FrequentGroups(issues, 2)

	want := [][]string{
		{"carol", "dave"}, // 3 occurrences
		{"alice", "bob"},  // 2 occurrences
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FrequentGroups() = %v, want %v", got, want)
	}
}

func TestFrequentGroupsSizeTieBreak(t *testing.T) {
	issues := []Issue{
		{Title: "1", Assignees: []string{"a", "b"}},
		{Title: "2", Assignees: []string{"a", "b"}},
		{Title: "3", Assignees: []string{"x", "y", "z"}},
		{Title: "4", Assignees: []string{"x", "y", "z"}},
	}

	got := FrequentGroups(issues, 2)

	// Equal frequency: the larger set wins.
	want := [][]string{
		{"x", "y", "z"},
		{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FrequentGroups() = %v, want %v", got, want)
	}
}
