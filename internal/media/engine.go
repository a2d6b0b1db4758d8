package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/ytget/mp3-extractor/internal/model"
)

// FFmpeg settings for audio extraction. Bitrate and sample rate are left to
// the encoder defaults.
const (
	AudioCodecMP3   = "libmp3lame"
	FirstAudioMap   = "0:a:0"
	VersionFlag     = "-version"
	StderrTailLines = 8
)

// Engine opens media with ffprobe and extracts audio with ffmpeg
type Engine struct {
	mu          sync.RWMutex
	ffmpegPath  string
	ffprobePath string
	runner      CommandRunner
}

// Option configures an Engine
type Option func(*Engine)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) Option {
	return func(e *Engine) {
		e.ffmpegPath = path
	}
}

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) Option {
	return func(e *Engine) {
		e.ffprobePath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(e *Engine) {
		e.runner = runner
	}
}

// NewEngine creates an ffmpeg-backed engine. Tool paths not given as options
// are resolved with ResolveTool.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		runner: &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.ffmpegPath = ResolveTool(e.ffmpegPath, FFmpegCommand)
	e.ffprobePath = ResolveTool(e.ffprobePath, FFprobeCommand)

	return e
}

// SetToolPaths replaces the tool paths; empty values are re-resolved
func (e *Engine) SetToolPaths(ffmpegPath, ffprobePath string) {
	ffmpegPath = ResolveTool(ffmpegPath, FFmpegCommand)
	ffprobePath = ResolveTool(ffprobePath, FFprobeCommand)

	e.mu.Lock()
	e.ffmpegPath = ffmpegPath
	e.ffprobePath = ffprobePath
	e.mu.Unlock()

	log.Printf("Media tools configured: ffmpeg=%s ffprobe=%s", ffmpegPath, ffprobePath)
}

// ToolPaths returns the ffmpeg and ffprobe paths currently in use
func (e *Engine) ToolPaths() (string, string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ffmpegPath, e.ffprobePath
}

// VerifyInstalled checks that both ffmpeg and ffprobe can be executed
func (e *Engine) VerifyInstalled(ctx context.Context) error {
	ffmpegPath, ffprobePath := e.ToolPaths()

	if _, err := e.runner.Run(ctx, ffmpegPath, VersionFlag); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable (%s): %w", ffmpegPath, err)
	}
	if _, err := e.runner.Run(ctx, ffprobePath, VersionFlag); err != nil {
		return fmt.Errorf("ffprobe not found or not executable (%s): %w", ffprobePath, err)
	}
	return nil
}

// Open opens path read-only and probes its streams. The returned handle keeps
// the file open until Close.
func (e *Engine) Open(ctx context.Context, path string) (Handle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat media file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("media path is a directory: %s", path)
	}

	_, ffprobePath := e.ToolPaths()
	result, err := e.runner.Run(ctx, ffprobePath, BuildProbeArgs(path)...)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to run ffprobe: %s: %w", stderrTail(result.Stderr), err)
	}

	meta, err := ParseProbeOutput([]byte(result.Stdout))
	if err != nil {
		file.Close()
		return nil, err
	}
	meta.Path = path
	meta.SizeBytes = info.Size()

	return &ffmpegHandle{
		engine: e,
		file:   file,
		meta:   meta,
	}, nil
}

// BuildExtractArgs builds the ffmpeg arguments that write the first audio
// stream of inputPath as MP3
func BuildExtractArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",           // Overwrite output file
		"-hide_banner", // Keep stderr short for error messages
		"-nostdin",     // Never wait for console input
		"-i", inputPath,
		"-vn", // Drop video
		"-map", FirstAudioMap,
		"-c:a", AudioCodecMP3,
		outputPath,
	}
}

// ffmpegHandle is an opened media file
type ffmpegHandle struct {
	engine    *Engine
	file      *os.File
	meta      model.MediaMetadata
	closeOnce sync.Once
	closeErr  error
}

func (h *ffmpegHandle) Metadata() model.MediaMetadata {
	return h.meta
}

func (h *ffmpegHandle) HasAudio() bool {
	return h.meta.HasAudio
}

// WriteMP3 transcodes the audio stream to outputPath. On failure a partial
// output file is removed, but only when ffmpeg created it: a file that was
// already there is left alone.
func (h *ffmpegHandle) WriteMP3(ctx context.Context, outputPath string) error {
	if h.file == nil {
		return fmt.Errorf("media handle is closed")
	}

	_, statErr := os.Stat(outputPath)
	existed := statErr == nil

	ffmpegPath, _ := h.engine.ToolPaths()
	args := BuildExtractArgs(h.meta.Path, outputPath)
	log.Printf("Running %s %s", ffmpegPath, strings.Join(args, " "))

	result, err := h.engine.runner.Run(ctx, ffmpegPath, args...)
	if err != nil {
		if !existed {
			os.Remove(outputPath)
		}
		return fmt.Errorf("ffmpeg audio extraction failed (exit %d): %s: %w", result.ExitCode, stderrTail(result.Stderr), err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("ffmpeg completed but output file is missing: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg completed but output file is empty: %s", outputPath)
	}

	return nil
}

func (h *ffmpegHandle) Close() error {
	h.closeOnce.Do(func() {
		if h.file != nil {
			h.closeErr = h.file.Close()
			h.file = nil
		}
	})
	return h.closeErr
}

// stderrTail keeps the last few non-empty stderr lines, which is where ffmpeg
// reports the actual failure
func stderrTail(stderr string) string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "no output"
	}
	if len(lines) > StderrTailLines {
		lines = lines[len(lines)-StderrTailLines:]
	}
	return strings.Join(lines, "; ")
}

// Ensure Engine implements Opener
var _ Opener = (*Engine)(nil)
