package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.AddFilesCopied(3)
	c.AddFilesMoved(1)
	c.AddFilesFailed(2)
	c.AddFilesHashed(5)
	c.AddDirsCreated(4)
	c.AddBytesCopied(1024)

	s := c.Snapshot()
	assert.Equal(t, int64(3), s.FilesCopied)
	assert.Equal(t, int64(1), s.FilesMoved)
	assert.Equal(t, int64(2), s.FilesFailed)
	assert.Equal(t, int64(5), s.FilesHashed)
	assert.Equal(t, int64(4), s.DirsCreated)
	assert.Equal(t, int64(1024), s.BytesCopied)
	assert.GreaterOrEqual(t, s.Elapsed.Nanoseconds(), int64(0))
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.AddFilesCopied(1)
				c.AddBytesCopied(10)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	assert.Equal(t, int64(8000), s.FilesCopied)
	assert.Equal(t, int64(80000), s.BytesCopied)
}

func TestSnapshotString(t *testing.T) {
	c := NewCollector()
	c.AddFilesCopied(2)
	c.AddFilesHashed(3)
	c.AddBytesCopied(2048)

	out := c.Snapshot().String()
	assert.Contains(t, out, "copied=2")
	assert.Contains(t, out, "hashed=3")
	assert.Contains(t, out, "2.0 KiB")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "%d", tt.in)
	}
}
