// package testing holds small doubles shared by tests across packages.
package testing

import (
	"errors"
	"io"
	"os"
	"testing"
)

// FWriter fails every Write, for exercising output error paths.
type FWriter struct{}

func (f *FWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

// LimitedWriter forwards to target until max writes have happened, then fails.
// Useful for breaking a writer partway through multi-line output.
type LimitedWriter struct {
	max     int
	written int
	target  io.Writer
}

func NewLimitedWriter(max int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{max: max, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.max {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

// AssertFileExists fails the test when path does not exist.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file at %s: %v", path, err)
	}
}
