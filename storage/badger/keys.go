package badger

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/halcyon/trendwatch/core"
)

// Key prefixes for different data types
const (
	windowPrefix     = "win"
	windowDatePrefix = "wind"
	archivePrefix    = "arc"
	vectorPrefix     = "vec"
	checkpointKey    = "cycle:chkpt"
)

// makeWindowKey generates a key for a rolling-window record by ID.
func makeWindowKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", windowPrefix, id))
}

// parseWindowKey extracts the record ID from a window key.
func parseWindowKey(key []byte) (core.ID, error) {
	raw := strings.TrimPrefix(string(key), windowPrefix+":")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed window key %q: %w", key, err)
	}
	return core.ID(id), nil
}

// makeWindowDateKey generates a composite key for the publication-date index.
// Format: prefix:timestamp:id, with both fields BigEndian so lexicographic
// iteration visits records oldest first.
func makeWindowDateKey(publishedAt time.Time, id core.ID) []byte {
	prefix := windowDatePrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(publishedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialWindowDateKey generates a partial key for date range scans.
func makePartialWindowDateKey(timestamp time.Time) []byte {
	prefix := windowDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeArchiveKey generates a key for an archived record.
// Format: arc:YYYY-MM:id — partitioned by the record's publication month.
func makeArchiveKey(month string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", archivePrefix, month, id))
}

// makeArchiveMonthPrefix generates the scan prefix for one monthly bucket.
func makeArchiveMonthPrefix(month string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", archivePrefix, month))
}

// parseArchiveKey extracts the record ID from an archive key.
func parseArchiveKey(key []byte) (core.ID, error) {
	parts := strings.Split(string(key), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed archive key %q", key)
	}
	id, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed archive key %q: %w", key, err)
	}
	return core.ID(id), nil
}

// makeVectorKey generates a key for an embedding entry by record ID.
func makeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, id))
}
