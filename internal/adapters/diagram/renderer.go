package diagram

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// Renderer validates D2 source against the official library, then shells
// out to the d2 CLI to produce SVG, exactly as the diagram tooling this
// module is grounded on does: the library checks syntax without needing
// the binary installed, but only the CLI actually lays out and rasterizes
// a diagram.
type Renderer struct {
	d2Path string
	cache  map[string]string
	mu     sync.RWMutex
}

func NewRenderer() *Renderer {
	d2Path, _ := exec.LookPath("d2")
	return &Renderer{d2Path: d2Path, cache: make(map[string]string)}
}

func (r *Renderer) IsAvailable() bool { return r.d2Path != "" }

// Validate compiles d2Source with the D2 library, catching syntax errors
// before attempting to shell out to the CLI.
func (r *Renderer) Validate(ctx context.Context, d2Source string) error {
	if strings.TrimSpace(d2Source) == "" {
		return fmt.Errorf("d2 source cannot be empty")
	}

	ruler, _ := textmeasure.NewRuler()
	compileOpts := &d2lib.CompileOptions{
		Ruler: ruler,
		LayoutResolver: func(engine string) (d2graph.LayoutGraph, error) {
			return d2dagrelayout.DefaultLayout, nil
		},
	}
	_, _, err := d2lib.Compile(ctx, d2Source, compileOpts, nil)
	if err != nil {
		return fmt.Errorf("d2 syntax error: %w", err)
	}
	return nil
}

// RenderSVG compiles d2Source into SVG by shelling out to the d2 binary.
func (r *Renderer) RenderSVG(ctx context.Context, d2Source string, timeoutSec int) (string, error) {
	if err := r.Validate(ctx, d2Source); err != nil {
		return "", err
	}
	if !r.IsAvailable() {
		return "", fmt.Errorf("d2 binary not found in PATH")
	}

	hash := contentHash(d2Source)
	r.mu.RLock()
	if cached, ok := r.cache[hash]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
		defer cancel()
	}

	tmpFile, err := os.CreateTemp("", "fabric-ontology-diagram-*.svg")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(ctx, r.d2Path, "--layout", "elk", "--theme", "0", "-", tmpPath)
	cmd.Stdin = strings.NewReader(d2Source)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("d2 compilation failed: %w\nstderr: %s", err, stderr.String())
		}
		return "", fmt.Errorf("d2 compilation failed: %w", err)
	}

	svgContent, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("read rendered SVG: %w", err)
	}
	svg := string(svgContent)

	r.mu.Lock()
	r.cache[hash] = svg
	r.mu.Unlock()

	return svg, nil
}

func contentHash(d2Source string) string {
	hash := sha256.Sum256([]byte(d2Source))
	return fmt.Sprintf("%x", hash)
}
