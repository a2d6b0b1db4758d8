package model

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConversionRequest(t *testing.T) {
	req := NewConversionRequest("  /videos/a.mp4 ", "\t/music/a.mp3\n")

	if req.InputPath != "/videos/a.mp4" {
		t.Errorf("Expected trimmed input path, got '%s'", req.InputPath)
	}
	if req.OutputPath != "/music/a.mp3" {
		t.Errorf("Expected trimmed output path, got '%s'", req.OutputPath)
	}
	if req.OutputDir() != filepath.Dir("/music/a.mp3") {
		t.Errorf("Expected output dir /music, got '%s'", req.OutputDir())
	}
}

func TestMediaMetadata_Resolution(t *testing.T) {
	tests := []struct {
		width    int
		height   int
		expected string
	}{
		{1280, 720, "1280x720"},
		{1920, 1080, "1920x1080"},
		{0, 0, "—"},
		{640, 0, "—"},
	}

	for _, test := range tests {
		meta := MediaMetadata{Width: test.width, Height: test.height}
		result := meta.Resolution()
		if result != test.expected {
			t.Errorf("Resolution() with %dx%d = %s, expected %s", test.width, test.height, result, test.expected)
		}
	}
}

func TestMediaMetadata_DurationString(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{10.0, "10.0 seconds (0m 10s)"},
		{0, "0.0 seconds (0m 0s)"},
		{90.4, "90.4 seconds (1m 30s)"},
		{3725.0, "3725.0 seconds (62m 5s)"},
	}

	for _, test := range tests {
		meta := MediaMetadata{DurationSeconds: test.seconds}
		result := meta.DurationString()
		if result != test.expected {
			t.Errorf("DurationString() with %.1f = %s, expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestConversionResult_Succeeded(t *testing.T) {
	ok := ConversionResult{Status: StatusCompleted}
	if !ok.Succeeded() {
		t.Error("Completed result without error should succeed")
	}

	failed := ConversionResult{Status: StatusFailed, Err: errors.New("boom")}
	if failed.Succeeded() {
		t.Error("Failed result should not succeed")
	}
}

func TestConversionResult_Elapsed(t *testing.T) {
	start := time.Now()
	result := ConversionResult{StartedAt: start, FinishedAt: start.Add(2 * time.Second)}
	if result.Elapsed() != 2*time.Second {
		t.Errorf("Expected 2s elapsed, got %v", result.Elapsed())
	}

	if (ConversionResult{}).Elapsed() != 0 {
		t.Error("Zero result should report zero elapsed")
	}
}
