package share

import (
	"encoding/base64"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/diagram"
)

func samplePayload() Payload {
	b := board.New("Release Plan")
	colID := b.ColumnOrder[0]
	due := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	b = board.AddTask(b, colID, board.TaskData{Title: "cut the branch", DueDate: &due})
	b = board.AddTask(b, colID, board.TaskData{Title: "tag it", AddToTop: true})
	b = board.AddMember(b, "Rae Kim")
	taskID := b.Columns[colID].TaskIDs[0]
	b = board.AssignMember(b, taskID, b.Members[0].ID)
	d := diagram.NewTaskDiagram("")
	return Payload{
		Board:        b,
		TaskDiagrams: map[string]diagram.Diagram{taskID: d},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := samplePayload()
	encoded, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.ContainsAny(encoded, "+/=") {
		t.Fatalf("encoded payload is not URL-safe: %q", encoded)
	}
	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip not deep-equal:\n got %#v\nwant %#v", got, p)
	}
}

func TestDecodeToleratesLegacyAlphabet(t *testing.T) {
	p := samplePayload()
	encoded, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	legacy := base64.StdEncoding.EncodeToString(raw)
	if _, err := Decode(legacy); err != nil {
		t.Fatalf("legacy-alphabet payload rejected: %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{"%%%", "not base64!", "aGVsbG8"} {
		if _, err := Decode(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q): expected ErrMalformed, got %v", in, err)
		}
	}
}

func TestURLRoundTrip(t *testing.T) {
	p := samplePayload()
	link, err := URL("http://127.0.0.1:7420", p)
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	got, present, err := FromURL(link)
	if err != nil || !present {
		t.Fatalf("FromURL: present=%v err=%v", present, err)
	}
	if got.Board.ID != p.Board.ID {
		t.Fatalf("board mismatch through URL")
	}

	_, present, err = FromURL("http://127.0.0.1:7420/")
	if err != nil || present {
		t.Fatalf("bare URL: present=%v err=%v", present, err)
	}
}

func TestExportJSONParses(t *testing.T) {
	p := samplePayload()
	data, err := ExportJSON(p)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Board.Title != p.Board.Title {
		t.Fatalf("title mismatch: %q", got.Board.Title)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 3, 9, 0, time.UTC)
	got := ExportFilename("Release  Plan", now, "json")
	want := "release-plan_2026-08-29_14-03-09.json"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := ExportFilename("  ", now, "json"); !strings.HasPrefix(got, "untitled_") {
		t.Fatalf("blank title: got %q", got)
	}
}
