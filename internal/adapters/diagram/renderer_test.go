package diagram

import (
	"context"
	"strings"
	"testing"
)

func TestRendererValidateRejectsEmptySource(t *testing.T) {
	r := NewRenderer()
	if err := r.Validate(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty d2 source")
	}
}

func TestRendererValidateAcceptsWellFormedSource(t *testing.T) {
	r := NewRenderer()
	source := "a -> b: \"rel\"\n"
	if err := r.Validate(context.Background(), source); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRendererValidateRejectsMalformedSource(t *testing.T) {
	r := NewRenderer()
	source := "a -> : unterminated {{{"
	if err := r.Validate(context.Background(), source); err == nil {
		t.Fatal("expected d2 syntax error")
	}
}

func TestRendererRenderSVGWithoutBinary(t *testing.T) {
	r := &Renderer{cache: make(map[string]string)} // d2Path left empty
	if r.IsAvailable() {
		t.Fatal("renderer with no d2Path should report unavailable")
	}
	_, err := r.RenderSVG(context.Background(), "a -> b\n", 5)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected 'not found' error, got: %v", err)
	}
}

func TestContentHashStable(t *testing.T) {
	a := contentHash("a -> b\n")
	b := contentHash("a -> b\n")
	c := contentHash("a -> c\n")
	if a != b {
		t.Error("expected identical source to hash identically")
	}
	if a == c {
		t.Error("expected different source to hash differently")
	}
}
