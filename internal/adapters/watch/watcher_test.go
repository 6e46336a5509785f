package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewFileWatcher(t *testing.T) {
	fw, err := NewFileWatcher()
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if err := fw.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestWatchDetectsTargetFileChange(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "ontology.ttl")
	if err := os.WriteFile(target, []byte("initial"), 0o644); err != nil {
		t.Fatalf("write initial file: %v", err)
	}

	fw, err := NewFileWatcher()
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Stop()

	events, err := fw.Watch(context.Background(), target)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(target, []byte("updated"), 0o644); err != nil {
		t.Fatalf("write updated file: %v", err)
	}

	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change event")
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "ontology.ttl")
	sibling := filepath.Join(tmpDir, "other.ttl")
	if err := os.WriteFile(target, []byte("initial"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	fw, err := NewFileWatcher()
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Stop()

	events, err := fw.Watch(context.Background(), target)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(sibling, []byte("irrelevant"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case <-events:
		t.Fatal("unexpected event for a sibling file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchDebouncesRapidWrites(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "ontology.ttl")
	if err := os.WriteFile(target, []byte("initial"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	fw, err := NewFileWatcher()
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Stop()

	events, err := fw.Watch(context.Background(), target)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	count := 0
	timeout := time.After(700 * time.Millisecond)
loop:
	for {
		select {
		case <-events:
			count++
		case <-timeout:
			break loop
		}
	}

	if count == 0 {
		t.Fatal("expected at least one debounced event")
	}
	if count > 2 {
		t.Errorf("expected writes to be debounced into few events, got %d", count)
	}
}

func TestWatchContextCancellationStopsDelivery(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "ontology.ttl")
	if err := os.WriteFile(target, []byte("initial"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	fw, err := NewFileWatcher()
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer fw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := fw.Watch(ctx, target)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	cancel()

	if err := os.WriteFile(target, []byte("updated"), 0o644); err != nil {
		t.Fatalf("write updated file: %v", err)
	}

	select {
	case <-events:
		t.Fatal("unexpected event after context cancellation")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestStopClosesEventsChannel(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "ontology.ttl")
	if err := os.WriteFile(target, []byte("initial"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	fw, err := NewFileWatcher()
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}

	events, err := fw.Watch(context.Background(), target)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := fw.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected events channel to be closed")
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestStopIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "ontology.ttl")
	if err := os.WriteFile(target, []byte("initial"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	fw, err := NewFileWatcher()
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if _, err := fw.Watch(context.Background(), target); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := fw.Stop(); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := fw.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
