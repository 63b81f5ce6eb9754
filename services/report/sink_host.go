//go:build !rp2040 && !rp2350

package report

import (
	"io"
	"os"
)

// DefaultSink is stdout on host builds.
func DefaultSink() io.Writer { return os.Stdout }
