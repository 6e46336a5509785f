// Package memory implements the pre-flight feasibility check that runs
// before a source file is loaded into memory (§4.B). Grounded on
// `original_source/src/rdf_converter.py`'s MemoryManager: the same
// multiplier, load factor, and minimum-free-memory constants, reworked
// from a dataclass of static methods into a small Go type so tests can
// inject a fake memory reading.
package memory

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// Multiplier estimates in-memory footprint from on-disk file size;
	// the rdflib-backed parsers this estimate was tuned against
	// typically inflate 3-4x.
	Multiplier = 3.5
	// LoadFactor caps estimated usage to 70% of free system memory,
	// leaving headroom for the rest of the process and the OS.
	LoadFactor = 0.7
	// MaxSafeFileBytes is the default hard cap on input size without
	// --force.
	MaxSafeFileBytes = 500 * 1024 * 1024
	// MinAvailableBytes is always required free, regardless of estimate.
	MinAvailableBytes = 256 * 1024 * 1024
)

// Reading is a point-in-time system memory snapshot.
type Reading struct {
	AvailableBytes uint64
	Unavailable    bool // true if the platform could not report memory stats
}

// Reader abstracts the system memory query so tests can substitute a
// fixed reading instead of depending on the real host.
type Reader interface {
	Read() Reading
}

// SystemReader queries the real host via gopsutil.
type SystemReader struct{}

func (SystemReader) Read() Reading {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return Reading{Unavailable: true}
	}
	return Reading{AvailableBytes: stat.Available}
}

// Guard runs the memory feasibility check before a file is loaded.
type Guard struct {
	Reader Reader
}

// NewGuard builds a Guard backed by real system memory stats.
func NewGuard() *Guard { return &Guard{Reader: SystemReader{}} }

// Check estimates the memory a conversion of a fileSizeBytes input would
// need and decides whether to proceed. A non-nil error means the
// conversion must not start; a non-empty warning means it may proceed
// but the caller should surface the message to the user.
func (g *Guard) Check(fileSizeBytes int64, force bool) (warning string, err error) {
	if !force && fileSizeBytes > MaxSafeFileBytes {
		return "", fmt.Errorf(
			"file size (%.1f MB) exceeds the safe limit (%.0f MB); estimated memory required ~%.0f MB; "+
				"use --force to proceed anyway or split the input into smaller files",
			mb(fileSizeBytes), mb(MaxSafeFileBytes), mb(estimatedUsage(fileSizeBytes)),
		)
	}

	reading := g.Reader.Read()
	if reading.Unavailable {
		return fmt.Sprintf("memory check unavailable; proceeding with a %.1f MB file", mb(fileSizeBytes)), nil
	}

	if reading.AvailableBytes < MinAvailableBytes {
		return "", fmt.Errorf(
			"insufficient free memory: %.0f MB available, %.0f MB minimum required",
			mb(int64(reading.AvailableBytes)), mb(MinAvailableBytes),
		)
	}

	estimated := estimatedUsage(fileSizeBytes)
	safeThreshold := LoadFactor * float64(reading.AvailableBytes)
	if estimated > safeThreshold {
		if !force {
			return "", fmt.Errorf(
				"estimated memory usage (%.0f MB) exceeds the safe threshold (%.0f MB of %.0f MB available); "+
					"use --force to proceed anyway",
				mb(int64(estimated)), mb(int64(safeThreshold)), mb(int64(reading.AvailableBytes)),
			)
		}
		return fmt.Sprintf(
			"estimated memory usage (%.0f MB) exceeds the safe threshold; proceeding because --force was set",
			mb(int64(estimated)),
		), nil
	}

	return "", nil
}

func estimatedUsage(fileSizeBytes int64) float64 {
	return float64(fileSizeBytes) * Multiplier
}

func mb(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
