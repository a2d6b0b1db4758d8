package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ConversionRequest pairs the MP4 input with the MP3 destination
type ConversionRequest struct {
	InputPath  string
	OutputPath string
}

// NewConversionRequest trims whitespace from both paths
func NewConversionRequest(inputPath, outputPath string) ConversionRequest {
	return ConversionRequest{
		InputPath:  strings.TrimSpace(inputPath),
		OutputPath: strings.TrimSpace(outputPath),
	}
}

// OutputDir returns the parent directory of the output path
func (r ConversionRequest) OutputDir() string {
	return filepath.Dir(r.OutputPath)
}

// MediaMetadata holds probed container information for display
type MediaMetadata struct {
	Path            string
	SizeBytes       int64
	DurationSeconds float64
	FPS             float64
	Width           int
	Height          int
	HasAudio        bool
	AudioCodec      string // empty when HasAudio is false
	VideoCodec      string // empty for audio-only files
	FormatName      string // container name reported by the engine
}

// Resolution returns the frame size as WxH, or "—" when there is no video stream
func (m MediaMetadata) Resolution() string {
	if m.Width <= 0 || m.Height <= 0 {
		return "—"
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// DurationString returns the duration as "12.3 seconds (0m 12s)"
func (m MediaMetadata) DurationString() string {
	total := int(m.DurationSeconds + 0.5)
	minutes := total / 60
	seconds := total % 60

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%.1f seconds (%dm %ds)", m.DurationSeconds, minutes, seconds))
	return b.String()
}

// ConversionResult is posted by the conversion worker when it finishes
type ConversionResult struct {
	ID         string
	Request    ConversionRequest
	Status     ConversionStatus
	OutputSize int64    // bytes written, set on success
	Transcript []string // step-by-step log of what the controller did
	Err        error    // nil on success
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether the conversion completed without error
func (r ConversionResult) Succeeded() bool {
	return r.Err == nil && r.Status == StatusCompleted
}

// Elapsed returns how long the conversion took
func (r ConversionResult) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
