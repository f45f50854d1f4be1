// Package export names exported photos and hands them to the optional
// share surface.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	filenamePrefix = "photo_"
	filenameSuffix = ".jpg"
)

// Filename derives the download name for a capture taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("%s%d%s", filenamePrefix, t.UnixMilli(), filenameSuffix)
}

// ParseFilename recovers the capture time from a photo filename. Used when
// backfilling the database from files already on disk.
func ParseFilename(name string) (time.Time, error) {
	if !strings.HasPrefix(name, filenamePrefix) || !strings.HasSuffix(name, filenameSuffix) {
		return time.Time{}, fmt.Errorf("not a photo filename: %s", name)
	}
	millis, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, filenamePrefix), filenameSuffix), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp in filename %s: %w", name, err)
	}
	return time.UnixMilli(millis), nil
}
