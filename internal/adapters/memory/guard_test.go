package memory

import "testing"

type fakeReader struct {
	reading Reading
}

func (f fakeReader) Read() Reading { return f.reading }

func TestGuard_Check_RejectsOversizedFileWithoutForce(t *testing.T) {
	g := &Guard{Reader: fakeReader{Reading{AvailableBytes: 100 * 1024 * 1024 * 1024}}}
	_, err := g.Check(501*1024*1024, false)
	if err == nil {
		t.Error("expected an error for a file over the safe limit")
	}
}

func TestGuard_Check_AllowsOversizedFileWithForce(t *testing.T) {
	g := &Guard{Reader: fakeReader{Reading{AvailableBytes: 100 * 1024 * 1024 * 1024}}}
	warning, err := g.Check(501*1024*1024, true)
	if err != nil {
		t.Fatalf("unexpected error with force: %v", err)
	}
	if warning != "" {
		t.Errorf("expected no threshold warning for a small-relative-to-available file, got %q", warning)
	}
}

func TestGuard_Check_RejectsInsufficientFreeMemory(t *testing.T) {
	g := &Guard{Reader: fakeReader{Reading{AvailableBytes: 100 * 1024 * 1024}}} // below MinAvailableBytes
	_, err := g.Check(10*1024*1024, false)
	if err == nil {
		t.Error("expected an error when available memory is below the minimum")
	}
}

func TestGuard_Check_RejectsWhenEstimateExceedsThreshold(t *testing.T) {
	// 200MB file * 3.5 = 700MB estimate; available 800MB * 0.7 = 560MB threshold.
	g := &Guard{Reader: fakeReader{Reading{AvailableBytes: 800 * 1024 * 1024}}}
	_, err := g.Check(200*1024*1024, false)
	if err == nil {
		t.Error("expected an error when the estimate exceeds the safe threshold")
	}
}

func TestGuard_Check_ProceedsWithWarningWhenMemoryUnavailable(t *testing.T) {
	g := &Guard{Reader: fakeReader{Reading{Unavailable: true}}}
	warning, err := g.Check(10*1024*1024, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning == "" {
		t.Error("expected a warning when memory stats are unavailable")
	}
}

func TestGuard_Check_PassesForSmallFile(t *testing.T) {
	g := &Guard{Reader: fakeReader{Reading{AvailableBytes: 8 * 1024 * 1024 * 1024}}}
	warning, err := g.Check(10*1024*1024, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning != "" {
		t.Errorf("expected no warning for a small file with plenty of memory, got %q", warning)
	}
}
