package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Text fragments
const (
	DashPlaceholder = "—"
	InfoLineFormat  = "%s: %s"
)

// Window and layout sizing
const (
	WindowWidth  float32 = 600
	WindowHeight float32 = 420

	InfoPanelMinHeight float32 = 140
	StatusTextSize     float32 = 14
	TitleTextSize      float32 = 18

	ErrorDialogWidth  float32 = 560
	ErrorDialogHeight float32 = 420

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 420
)

// File dialog filters
var (
	InputExtensions  = []string{".mp4", ".MP4"}
	OutputExtensions = []string{".mp3"}
)

// Delays
const (
	// InspectTimeout bounds metadata probing for the info panel only;
	// conversions themselves are never cut short
	InspectTimeout = 30 * time.Second
)
