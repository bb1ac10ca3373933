package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

// kvContract exercises the KV behaviors both implementations must share.
func kvContract(t *testing.T, kv KV) {
	t.Helper()

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := kv.Set("kanbanState", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := kv.Get("kanbanState")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("get: %q ok=%v err=%v", got, ok, err)
	}

	// Set is an upsert.
	if err := kv.Set("kanbanState", []byte("v2")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _, _ = kv.Get("kanbanState")
	if string(got) != "v2" {
		t.Fatalf("expected v2, got %q", got)
	}

	for _, k := range []string{"taskDiagram_tsk_b", "taskDiagram_tsk_a"} {
		if err := kv.Set(k, []byte("{}")); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	keys, err := kv.Keys("taskDiagram_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "taskDiagram_tsk_a" || keys[1] != "taskDiagram_tsk_b" {
		t.Fatalf("expected sorted diagram keys, got %v", keys)
	}

	if err := kv.Delete("taskDiagram_tsk_a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get("taskDiagram_tsk_a"); ok {
		t.Fatalf("key survived delete")
	}
	// Deleting a missing key is fine.
	if err := kv.Delete("taskDiagram_tsk_a"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemory()
	kvContract(t, kv)

	if err := kv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := kv.Set("x", []byte("y")); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSQLiteKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "flowboard.sqlite")
	kv, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer kv.Close()
	kvContract(t, kv)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowboard.sqlite")
	kv, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set("kanbanState", []byte("persisted")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	kv, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	got, ok, err := kv.Get("kanbanState")
	if err != nil || !ok || string(got) != "persisted" {
		t.Fatalf("after reopen: %q ok=%v err=%v", got, ok, err)
	}
}

func TestKeysEscapesLikeMetacharacters(t *testing.T) {
	kv := NewMemory()
	_ = kv.Set("a_b", []byte("1"))
	_ = kv.Set("axb", []byte("2"))
	keys, err := kv.Keys("a_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "a_b" {
		t.Fatalf("prefix with underscore matched loosely: %v", keys)
	}

	path := filepath.Join(t.TempDir(), "esc.sqlite")
	skv, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer skv.Close()
	_ = skv.Set("a_b", []byte("1"))
	_ = skv.Set("axb", []byte("2"))
	keys, err = skv.Keys("a_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "a_b" {
		t.Fatalf("LIKE underscore not escaped: %v", keys)
	}
}
