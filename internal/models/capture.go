package models

import "time"

// Capture is one exported photo on disk.
type Capture struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Facing    string    `json:"facing"`
	Stamped   bool      `json:"stamped"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Timestamp time.Time `json:"timestamp"`
	FilePath  string    `json:"filepath"`
	FileSize  int64     `json:"filesize"`
}

// CaptureFilter contains filtering options for querying captures.
type CaptureFilter struct {
	Facing     string
	DateAfter  time.Time
	DateBefore time.Time
	Limit      int
	Offset     int
}
