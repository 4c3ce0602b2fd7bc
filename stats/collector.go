// Package stats tracks batch-operation counters with lock-free atomics,
// for callers running transfers or hashes across many files.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector accumulates counts for one batch run. Safe for use from
// multiple caller goroutines.
type Collector struct {
	filesCopied atomic.Int64
	filesMoved  atomic.Int64
	filesFailed atomic.Int64
	filesHashed atomic.Int64
	dirsCreated atomic.Int64
	bytesCopied atomic.Int64
	startTime   time.Time
}

// NewCollector creates a Collector with its clock started.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) AddFilesCopied(n int64) { c.filesCopied.Add(n) }
func (c *Collector) AddFilesMoved(n int64)  { c.filesMoved.Add(n) }
func (c *Collector) AddFilesFailed(n int64) { c.filesFailed.Add(n) }
func (c *Collector) AddFilesHashed(n int64) { c.filesHashed.Add(n) }
func (c *Collector) AddDirsCreated(n int64) { c.dirsCreated.Add(n) }
func (c *Collector) AddBytesCopied(n int64) { c.bytesCopied.Add(n) }

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesCopied int64
	FilesMoved  int64
	FilesFailed int64
	FilesHashed int64
	DirsCreated int64
	BytesCopied int64
	Elapsed     time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesCopied: c.filesCopied.Load(),
		FilesMoved:  c.filesMoved.Load(),
		FilesFailed: c.filesFailed.Load(),
		FilesHashed: c.filesHashed.Load(),
		DirsCreated: c.dirsCreated.Load(),
		BytesCopied: c.bytesCopied.Load(),
		Elapsed:     c.Elapsed(),
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"copied=%d moved=%d hashed=%d failed=%d dirs=%d bytes=%s elapsed=%s",
		s.FilesCopied, s.FilesMoved, s.FilesHashed, s.FilesFailed,
		s.DirsCreated, FormatBytes(s.BytesCopied), s.Elapsed.Round(time.Millisecond),
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
