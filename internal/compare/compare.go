// Package compare performs the byte-for-byte artifact comparison at the heart
// of the fixed-point check.
package compare

import (
	"bytes"
	"fmt"
	"os"
)

// Mismatch reports the first divergence between two artifacts that were
// expected to be identical.
type Mismatch struct {
	PathA  string
	PathB  string
	Offset int64
	Line   int
}

// Error implements the error interface for Mismatch.
func (m *Mismatch) Error() string {
	return fmt.Sprintf("%s and %s differ: byte %d, line %d", m.PathA, m.PathB, m.Offset, m.Line)
}

// Files compares pathA and pathB byte for byte. It returns nil when the files
// are identical, a *Mismatch locating the first divergence otherwise, and a
// plain error when either file cannot be read (a missing counterpart is a
// precondition violation, not a mismatch).
func Files(pathA string, pathB string) error {
	a, err := os.ReadFile(pathA)
	if err != nil {
		return fmt.Errorf("reading %s: %w", pathA, err)
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		return fmt.Errorf("reading %s: %w", pathB, err)
	}

	if bytes.Equal(a, b) {
		return nil
	}

	limit := len(a)
	if len(b) < limit {
		limit = len(b)
	}

	offset := limit
	for i := 0; i < limit; i++ {
		if a[i] != b[i] {
			offset = i
			break
		}
	}

	// cmp numbers bytes and lines from 1.
	line := 1 + bytes.Count(a[:offset], []byte{'\n'})
	return &Mismatch{PathA: pathA, PathB: pathB, Offset: int64(offset) + 1, Line: line}
}
