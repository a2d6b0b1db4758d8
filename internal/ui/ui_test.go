package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/mp3-extractor/internal/convert"
	"github.com/ytget/mp3-extractor/internal/model"
	"github.com/ytget/mp3-extractor/internal/watch"
)

// fakeConverter records calls and answers with canned values
type fakeConverter struct {
	mu           sync.Mutex
	startErr     error
	started      []model.ConversionRequest
	acknowledged int
	retry        bool
	release      chan struct{}
}

func (f *fakeConverter) Inspect(ctx context.Context, path string) (model.MediaMetadata, error) {
	// Held until the test ends so metadata never races with assertions
	<-f.release
	return model.MediaMetadata{Path: path, HasAudio: true}, nil
}

func (f *fakeConverter) Start(req model.ConversionRequest) (<-chan model.ConversionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, req)
	if f.startErr != nil {
		return nil, f.startErr
	}
	results := make(chan model.ConversionResult)
	return results, nil
}

func (f *fakeConverter) Status() model.ConversionStatus {
	return model.StatusIdle
}

func (f *fakeConverter) Acknowledge() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acknowledged++
}

func (f *fakeConverter) SetRetryTranscode(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retry = enabled
}

type fakeTools struct {
	ffmpegPath  string
	ffprobePath string
}

func (f *fakeTools) SetToolPaths(ffmpegPath, ffprobePath string) {
	f.ffmpegPath = ffmpegPath
	f.ffprobePath = ffprobePath
}

func (f *fakeTools) Diagnostics() []string {
	return []string{"FFmpeg path: /opt/test/ffmpeg", "FFmpeg exists: true"}
}

func newTestUI(t *testing.T) (*MainUI, *fakeConverter) {
	t.Helper()
	app := test.NewApp()
	window := test.NewWindow(nil)
	converter := &fakeConverter{release: make(chan struct{})}

	ui := NewMainUI(window, app, converter, &fakeTools{})
	t.Cleanup(func() {
		ui.Close()
		close(converter.release)
		window.Close()
	})
	return ui, converter
}

func createInputFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake mp4"), 0644); err != nil {
		t.Fatalf("Failed to create input: %v", err)
	}
	return path
}

func TestNewMainUI_InitialState(t *testing.T) {
	ui, _ := newTestUI(t)

	if ui.status != statusReady {
		t.Errorf("Expected ready status, got %d", ui.status)
	}
	if ui.statusText.Text != ui.localization.GetText(KeyStatusReady) {
		t.Errorf("Unexpected status text %q", ui.statusText.Text)
	}
	if ui.convertBtn.Disabled() {
		t.Error("Convert button should be enabled")
	}
	if ui.busyBar.Visible() {
		t.Error("Busy indicator should be hidden")
	}
	if !ui.infoEntry.Disabled() {
		t.Error("Info panel should be read-only")
	}
}

func TestOnInputSelected_DerivesOutput(t *testing.T) {
	ui, _ := newTestUI(t)
	input := createInputFile(t, "holiday clip.mp4")

	ui.onInputSelected(input)

	expected := strings.TrimSuffix(input, ".mp4") + ".mp3"
	if ui.outputEntry.Text != expected {
		t.Errorf("Expected output %s, got %s", expected, ui.outputEntry.Text)
	}
	if ui.inputEntry.Text != input {
		t.Errorf("Expected input entry %s, got %s", input, ui.inputEntry.Text)
	}

	// A new input replaces the previous automatic suggestion
	second := createInputFile(t, "other.MP4")
	ui.onInputSelected(second)
	expected = strings.TrimSuffix(second, ".MP4") + ".mp3"
	if ui.outputEntry.Text != expected {
		t.Errorf("Expected output %s, got %s", expected, ui.outputEntry.Text)
	}
}

func TestOnInputSelected_KeepsUserOutput(t *testing.T) {
	ui, _ := newTestUI(t)
	custom := filepath.Join(t.TempDir(), "custom.mp3")
	ui.outputEntry.SetText(custom)

	ui.onInputSelected(createInputFile(t, "clip.mp4"))

	if ui.outputEntry.Text != custom {
		t.Errorf("User-chosen output should be kept, got %s", ui.outputEntry.Text)
	}
}

func TestOnOutputSelected_AddsExtension(t *testing.T) {
	ui, _ := newTestUI(t)
	dir := t.TempDir()

	// The save dialog leaves an empty file behind
	placeholder := filepath.Join(dir, "song")
	if err := os.WriteFile(placeholder, nil, 0644); err != nil {
		t.Fatalf("Failed to create placeholder: %v", err)
	}

	ui.onOutputSelected(placeholder)

	if ui.outputEntry.Text != placeholder+".mp3" {
		t.Errorf("Expected .mp3 extension, got %s", ui.outputEntry.Text)
	}
	if _, err := os.Stat(placeholder); !os.IsNotExist(err) {
		t.Error("Empty placeholder should be removed")
	}
}

func TestOnConvertClick_RejectedRequest(t *testing.T) {
	ui, converter := newTestUI(t)
	converter.startErr = convert.ErrMissingInput

	ui.onConvertClick()

	if ui.status != statusFailed {
		t.Errorf("Expected failed status, got %d", ui.status)
	}
	if ui.convertBtn.Disabled() {
		t.Error("Convert button should stay enabled after a rejected request")
	}
	if ui.busyBar.Visible() {
		t.Error("Busy indicator should stay hidden")
	}
}

func TestOnConvertClick_StartsConversion(t *testing.T) {
	ui, converter := newTestUI(t)
	ui.inputEntry.SetText("/videos/clip.mp4")
	ui.outputEntry.SetText("/videos/clip.mp3")

	ui.onConvertClick()

	converter.mu.Lock()
	started := append([]model.ConversionRequest(nil), converter.started...)
	converter.mu.Unlock()
	if len(started) != 1 || started[0].InputPath != "/videos/clip.mp4" || started[0].OutputPath != "/videos/clip.mp3" {
		t.Fatalf("Unexpected start calls: %+v", started)
	}
	if !ui.convertBtn.Disabled() {
		t.Error("Convert button should be disabled while converting")
	}
	if !ui.busyBar.Visible() {
		t.Error("Busy indicator should be visible while converting")
	}
	if ui.status != statusConverting {
		t.Errorf("Expected converting status, got %d", ui.status)
	}
}

func TestApplyResult_Success(t *testing.T) {
	ui, converter := newTestUI(t)
	ui.setBusy(true)
	ui.setInfo("File: clip.mp4")

	ui.applyResult(model.ConversionResult{
		ID:         "convert-test",
		Request:    model.NewConversionRequest("/videos/clip.mp4", "/videos/clip.mp3"),
		Status:     model.StatusCompleted,
		OutputSize: 3 * 1024 * 1024,
	})

	if ui.status != statusSucceeded {
		t.Errorf("Expected succeeded status, got %d", ui.status)
	}
	if ui.convertBtn.Disabled() || ui.busyBar.Visible() {
		t.Error("Convert should be re-enabled and busy indicator hidden")
	}
	if !strings.Contains(ui.infoEntry.Text, "Output MP3 Size: 3.0 MB") {
		t.Errorf("Info panel should show output size, got %q", ui.infoEntry.Text)
	}
	if ui.lastOutput != "/videos/clip.mp3" {
		t.Errorf("Expected last output to be recorded, got %s", ui.lastOutput)
	}
	if converter.acknowledged != 1 {
		t.Errorf("Expected result to be acknowledged once, got %d", converter.acknowledged)
	}
}

func TestApplyResult_Failure(t *testing.T) {
	ui, converter := newTestUI(t)
	ui.setBusy(true)

	convErr := &convert.Error{
		Kind:       convert.KindNoAudioTrack,
		Message:    "The selected video file has no audio track",
		Transcript: []string{"Input file exists: OK"},
	}
	ui.applyResult(model.ConversionResult{
		Request: model.NewConversionRequest("/videos/silent.mp4", "/videos/silent.mp3"),
		Status:  model.StatusFailed,
		Err:     convErr,
	})

	if ui.status != statusFailed {
		t.Errorf("Expected failed status, got %d", ui.status)
	}
	if ui.convertBtn.Disabled() {
		t.Error("Convert should be re-enabled after failure")
	}
	if !strings.Contains(ui.infoEntry.Text, "no audio track") {
		t.Errorf("Info panel should show the error, got %q", ui.infoEntry.Text)
	}
	if ui.lastOutput != "" {
		t.Error("Failed conversion should not become the last output")
	}
	if converter.acknowledged != 1 {
		t.Errorf("Expected result to be acknowledged once, got %d", converter.acknowledged)
	}
}

func TestApplySettings(t *testing.T) {
	ui, converter := newTestUI(t)
	tools := ui.tools.(*fakeTools)

	ui.settings.SetFFmpegPath("/opt/custom/ffmpeg")
	ui.settings.SetRetryTranscode(false)
	ui.settings.SetLanguage("pt")
	ui.applySettings()

	if tools.ffmpegPath != "/opt/custom/ffmpeg" {
		t.Errorf("Expected configured ffmpeg path, got %s", tools.ffmpegPath)
	}
	if tools.ffprobePath == "" {
		t.Error("ffprobe path should be resolved")
	}
	if converter.retry {
		t.Error("Retry should be disabled on the controller")
	}
	if ui.convertBtn.Text != "Converter para MP3" {
		t.Errorf("Expected Portuguese convert label, got %s", ui.convertBtn.Text)
	}
}

func TestStatusRendering(t *testing.T) {
	ui, _ := newTestUI(t)

	tests := []struct {
		state statusState
		key   string
		color string
	}{
		{statusReady, KeyStatusReady, string(theme.ColorNameSuccess)},
		{statusConverting, KeyStatusConverting, string(theme.ColorNameWarning)},
		{statusSucceeded, KeyStatusSuccess, string(theme.ColorNameSuccess)},
		{statusFailed, KeyStatusFailed, string(theme.ColorNameError)},
	}

	for _, tt := range tests {
		ui.setStatus(tt.state)
		if ui.statusText.Text != ui.localization.GetText(tt.key) {
			t.Errorf("State %d: expected text %q, got %q", tt.state, ui.localization.GetText(tt.key), ui.statusText.Text)
		}
		if string(statusColorName(tt.state)) != tt.color {
			t.Errorf("State %d: expected colour %s, got %s", tt.state, tt.color, statusColorName(tt.state))
		}
		if ui.statusText.Color == nil {
			t.Errorf("State %d: status colour should be set", tt.state)
		}
	}
}

func TestBuildErrorReport(t *testing.T) {
	loc := NewLocalization()
	err := &convert.Error{
		Kind:       convert.KindNoWritePermission,
		Message:    "No write permission for directory",
		Path:       "/readonly",
		Transcript: []string{"Input file exists: OK", "Output directory exists: /readonly"},
	}

	report := buildErrorReport(err, []string{"FFmpeg exists: true"}, loc)
	for _, want := range []string{
		"No write permission for directory: /readonly",
		"Detailed Debug Information:",
		"Output directory exists: /readonly",
		"System Information:\nFFmpeg exists: true",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q:\n%s", want, report)
		}
	}

	plain := buildErrorReport(errors.New("boom"), nil, loc)
	if plain != "boom" {
		t.Errorf("Expected plain error text, got %q", plain)
	}
}

func TestFormatMetadata(t *testing.T) {
	loc := NewLocalization()
	meta := model.MediaMetadata{
		Path:            "/videos/sample.mp4",
		SizeBytes:       5 * 1024 * 1024,
		DurationSeconds: 10.0,
		FPS:             30,
		Width:           1280,
		Height:          720,
		HasAudio:        true,
		AudioCodec:      "aac",
		VideoCodec:      "h264",
	}

	text := formatMetadata(meta, loc)
	for _, want := range []string{
		"File: sample.mp4",
		"Size: 5.0 MB",
		"Duration: 10.0 seconds (0m 10s)",
		"Resolution: 1280x720",
		"FPS: 30.00",
		"Has Audio: Yes",
		"Audio Codec: aac",
		"Video Codec: h264",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Metadata text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Container") {
		t.Error("Empty container name should be omitted")
	}

	silent := formatMetadata(model.MediaMetadata{Path: "/videos/silent.mp4"}, loc)
	if !strings.Contains(silent, "Has Audio: No") || !strings.Contains(silent, "FPS: "+DashPlaceholder) {
		t.Errorf("Unexpected text for silent video:\n%s", silent)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tt := range tests {
		if got := formatFileSize(tt.bytes); got != tt.expected {
			t.Errorf("formatFileSize(%d) = %s, expected %s", tt.bytes, got, tt.expected)
		}
	}
}

func TestLocalization(t *testing.T) {
	loc := NewLocalization()

	if loc.GetCurrentLanguage() != "en" {
		t.Errorf("Expected default language en, got %s", loc.GetCurrentLanguage())
	}

	loc.SetLanguage("system")
	if loc.GetCurrentLanguage() != "en" {
		t.Error("System language should map to English")
	}

	loc.SetLanguage("ru")
	if loc.GetText(KeyConvert) != "Конвертировать в MP3" {
		t.Errorf("Unexpected Russian text: %s", loc.GetText(KeyConvert))
	}

	loc.SetLanguage("xx")
	if loc.GetCurrentLanguage() != "ru" {
		t.Error("Unknown language should be ignored")
	}

	if loc.GetText("missing_key") != "missing_key" {
		t.Error("Missing keys should fall back to the key itself")
	}

	// Every language translates every English key
	for lang := range loc.GetAvailableLanguages() {
		for key := range loc.texts["en"] {
			if _, ok := loc.texts[lang][key]; !ok {
				t.Errorf("Language %s is missing key %s", lang, key)
			}
		}
	}
}

func TestApplySettings_KeepsCommandLineTools(t *testing.T) {
	ui, _ := newTestUI(t)
	tools := ui.tools.(*fakeTools)

	ui.SetToolOverrides("/cli/ffmpeg", "")
	ui.settings.SetFFmpegPath("/opt/custom/ffmpeg")
	ui.settings.SetFFprobePath("/opt/custom/ffprobe")
	ui.applySettings()

	if tools.ffmpegPath != "/cli/ffmpeg" {
		t.Errorf("Command line ffmpeg should win over settings, got %s", tools.ffmpegPath)
	}
	if tools.ffprobePath != "/opt/custom/ffprobe" {
		t.Errorf("Expected configured ffprobe path, got %s", tools.ffprobePath)
	}
}

func TestOnInputEvent(t *testing.T) {
	const shown = "File: clip.mp4"

	tests := []struct {
		name        string
		status      statusState
		kind        watch.EventKind
		expectInfo  string
		expectProbe bool
	}{
		{"removed while ready", statusReady, watch.Removed, KeyInfoInputRemoved, true},
		{"changed after success", statusSucceeded, watch.Changed, shown, true},
		{"removed while converting", statusConverting, watch.Removed, shown, false},
		{"changed while converting", statusConverting, watch.Changed, shown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, _ := newTestUI(t)
			input := createInputFile(t, "clip.mp4")
			ui.inputEntry.SetText(input)
			ui.setInfo(shown)
			ui.setStatus(tt.status)
			seq := ui.inspectSeq

			ui.onInputEvent(watch.Event{Path: input, Kind: tt.kind})

			expected := tt.expectInfo
			if expected == KeyInfoInputRemoved {
				expected = ui.localization.GetText(KeyInfoInputRemoved)
			}
			if ui.infoEntry.Text != expected {
				t.Errorf("Expected info %q, got %q", expected, ui.infoEntry.Text)
			}
			if changed := ui.inspectSeq != seq; changed != tt.expectProbe {
				t.Errorf("Expected pending inspection invalidated=%t, got %t", tt.expectProbe, changed)
			}
			if ui.status != tt.status {
				t.Errorf("Status should not change, got %d", ui.status)
			}
		})
	}
}

func TestWatchInput(t *testing.T) {
	ui, _ := newTestUI(t)
	input := createInputFile(t, "clip.mp4")

	ui.watchInput(input)
	if ui.watcher == nil || ui.watcher.Path() != input {
		t.Fatalf("Expected watcher on %s", input)
	}
	first := ui.watcher

	other := createInputFile(t, "other.mp4")
	ui.watchInput(other)
	if ui.watcher == first || ui.watcher.Path() != other {
		t.Error("Selecting a new input should replace the watcher")
	}

	ui.watchInput(filepath.Join(t.TempDir(), "missing", "clip.mp4"))
	if ui.watcher != nil {
		t.Error("Unwatchable input should leave no watcher")
	}
}

func TestLastOutputKey(t *testing.T) {
	ui, _ := newTestUI(t)

	if key := ui.lastOutputKey(); key != KeyNoOutputYet {
		t.Errorf("Expected %s before any conversion, got %q", KeyNoOutputYet, key)
	}

	ui.lastOutput = filepath.Join(t.TempDir(), "gone.mp3")
	if key := ui.lastOutputKey(); key != KeyOutputMissing {
		t.Errorf("Expected %s for a deleted output, got %q", KeyOutputMissing, key)
	}

	ui.lastOutput = createInputFile(t, "song.mp3")
	if key := ui.lastOutputKey(); key != "" {
		t.Errorf("Expected no message for an existing output, got %q", key)
	}
}

func TestShowStartupError(t *testing.T) {
	ui, _ := newTestUI(t)

	ui.ShowStartupError(errors.New("exec: \"ffmpeg\": executable file not found in $PATH"), func() {})

	if ui.status != statusFailed {
		t.Errorf("Expected failed status, got %d", ui.status)
	}
	if !ui.convertBtn.Disabled() {
		t.Error("Convert should be disabled without working media tools")
	}
	for _, want := range []string{ui.localization.GetText(KeyFFmpegMissing), "executable file not found", "System Information:"} {
		if !strings.Contains(ui.infoEntry.Text, want) {
			t.Errorf("Info panel missing %q:\n%s", want, ui.infoEntry.Text)
		}
	}
}
