package board

import (
	"strconv"
	"strings"
)

// AddMember adds a named member with derived initials, suffixed with the
// next free integer when another member already uses them.
func AddMember(b Board, name string) Board {
	name = strings.TrimSpace(name)
	if name == "" {
		return b
	}
	m := Member{
		ID:       NewMemberID(),
		Name:     name,
		Initials: uniqueInitials(b.Members, DeriveInitials(name)),
	}
	out := b
	out.Members = append(append([]Member(nil), b.Members...), m)
	return out
}

// RemoveMember drops the member from the board roster. Task assignee lists
// keep the stale ID; dangling assignees are treated as absent on render.
func RemoveMember(b Board, memberID string) Board {
	out := b
	out.Members = make([]Member, 0, len(b.Members))
	for _, m := range b.Members {
		if m.ID != memberID {
			out.Members = append(out.Members, m)
		}
	}
	return out
}

// AssignMember adds the member to the task's assignees if not already
// present. Assignment is many-to-many; nothing is removed elsewhere.
func AssignMember(b Board, taskID, memberID string) Board {
	t, ok := b.Tasks[taskID]
	if !ok || memberID == "" {
		return b
	}
	for _, id := range t.Assignees {
		if id == memberID {
			return b
		}
	}
	assignees := append(append([]string(nil), t.Assignees...), memberID)
	return UpdateTask(b, taskID, TaskPatch{Assignees: &assignees})
}

// UnassignMember removes the member from the task's assignees.
func UnassignMember(b Board, taskID, memberID string) Board {
	t, ok := b.Tasks[taskID]
	if !ok {
		return b
	}
	assignees := removeString(t.Assignees, memberID)
	if len(assignees) == len(t.Assignees) {
		return b
	}
	return UpdateTask(b, taskID, TaskPatch{Assignees: &assignees})
}

// DeriveInitials computes display initials from a name: first and last
// initial, or the first two runes of a single-word name, uppercased.
func DeriveInitials(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	switch len(words) {
	case 0:
		return ""
	case 1:
		r := []rune(words[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	default:
		first := []rune(words[0])
		last := []rune(words[len(words)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

func uniqueInitials(members []Member, initials string) string {
	taken := make(map[string]bool, len(members))
	for _, m := range members {
		taken[m.Initials] = true
	}
	if !taken[initials] {
		return initials
	}
	for n := 1; ; n++ {
		candidate := initials + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}
