package board

import "testing"

func TestDeriveInitials(t *testing.T) {
	cases := []struct{ name, want string }{
		{"John Smith", "JS"},
		{"ada", "AD"},
		{"M", "M"},
		{"Anna Maria Torres", "AT"},
		{"  spaced   out  ", "SO"},
		{"", ""},
	}
	for _, c := range cases {
		if got := DeriveInitials(c.name); got != c.want {
			t.Fatalf("DeriveInitials(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestAddMemberDisambiguatesInitials(t *testing.T) {
	b := New("team")
	b = AddMember(b, "John Smith")
	b = AddMember(b, "Jane Sterling")
	b = AddMember(b, "Joan Summers")
	want := []string{"JS", "JS1", "JS2"}
	for i, m := range b.Members {
		if m.Initials != want[i] {
			t.Fatalf("member %d has initials %q, want %q", i, m.Initials, want[i])
		}
	}
}

func TestRemoveMemberLeavesAssigneesDangling(t *testing.T) {
	b := New("team")
	b = AddMember(b, "Rae Kim")
	member := b.Members[0]
	b = AddTask(b, b.ColumnOrder[0], TaskData{Title: "t"})
	taskID := b.Columns[b.ColumnOrder[0]].TaskIDs[0]
	b = AssignMember(b, taskID, member.ID)

	b = RemoveMember(b, member.ID)
	if len(b.Members) != 0 {
		t.Fatalf("member not removed")
	}
	// The stale assignee ID stays; renderers skip IDs with no member.
	if got := b.Tasks[taskID].Assignees; len(got) != 1 || got[0] != member.ID {
		t.Fatalf("expected dangling assignee to remain, got %v", got)
	}
}

func TestUnassignMember(t *testing.T) {
	b := New("team")
	b = AddMember(b, "Rae Kim")
	member := b.Members[0]
	b = AddTask(b, b.ColumnOrder[0], TaskData{Title: "t"})
	taskID := b.Columns[b.ColumnOrder[0]].TaskIDs[0]
	b = AssignMember(b, taskID, member.ID)

	b = UnassignMember(b, taskID, member.ID)
	if got := b.Tasks[taskID].Assignees; len(got) != 0 {
		t.Fatalf("expected no assignees, got %v", got)
	}
	// Unassigning an absent member is a no-op.
	out := UnassignMember(b, taskID, member.ID)
	if len(out.Tasks[taskID].Assignees) != 0 {
		t.Fatalf("no-op unassign changed assignees")
	}
}
