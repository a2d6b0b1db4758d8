package config

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/mp3-extractor/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyLanguage           = "app_language"
	KeyRetryTranscode     = "retry_transcode"
	KeyFFmpegPath         = "ffmpeg_path"
	KeyFFprobePath        = "ffprobe_path"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyLastInputDir       = "last_input_directory"
)

// Default values
const (
	DefaultLanguage           = "system"
	DefaultRetryTranscode     = true
	DefaultAutoRevealComplete = false
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		lang = DefaultLanguage
	}
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetRetryTranscode returns whether a failed transcode is retried once
func (s *Settings) GetRetryTranscode() bool {
	return s.app.Preferences().BoolWithFallback(KeyRetryTranscode, DefaultRetryTranscode)
}

// SetRetryTranscode sets whether a failed transcode is retried once
func (s *Settings) SetRetryTranscode(retry bool) {
	s.app.Preferences().SetBool(KeyRetryTranscode, retry)
}

// GetFFmpegPath returns the configured ffmpeg executable, empty for auto-detect
func (s *Settings) GetFFmpegPath() string {
	return s.app.Preferences().String(KeyFFmpegPath)
}

// SetFFmpegPath sets the ffmpeg executable
func (s *Settings) SetFFmpegPath(path string) {
	s.app.Preferences().SetString(KeyFFmpegPath, strings.TrimSpace(path))
}

// GetFFprobePath returns the configured ffprobe executable, empty for auto-detect
func (s *Settings) GetFFprobePath() string {
	return s.app.Preferences().String(KeyFFprobePath)
}

// SetFFprobePath sets the ffprobe executable
func (s *Settings) SetFFprobePath(path string) {
	s.app.Preferences().SetString(KeyFFprobePath, strings.TrimSpace(path))
}

// GetAutoRevealOnComplete returns whether to reveal the MP3 after a conversion
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal the MP3 after a conversion
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLastInputDirectory returns the directory of the last chosen input, or
// the Documents folder when nothing was chosen yet
func (s *Settings) GetLastInputDirectory() string {
	dir := s.app.Preferences().String(KeyLastInputDir)
	if dir != "" && platform.DirExists(dir) {
		return dir
	}
	if docs, err := platform.GetHomeDocumentsDir(); err == nil && platform.DirExists(docs) {
		return docs
	}
	return ""
}

// SetLastInputDirectory remembers where the last input was picked from
func (s *Settings) SetLastInputDirectory(dir string) {
	s.app.Preferences().SetString(KeyLastInputDir, dir)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
