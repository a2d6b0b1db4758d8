package media

import (
	"context"

	"github.com/ytget/mp3-extractor/internal/model"
)

// Opener opens media files. The conversion controller depends on this
// interface only.
type Opener interface {
	Open(ctx context.Context, path string) (Handle, error)
}

// Handle is an opened media file. Close must be safe to call more than once.
type Handle interface {
	Metadata() model.MediaMetadata
	HasAudio() bool
	WriteMP3(ctx context.Context, outputPath string) error
	Close() error
}

// CommandRunner abstracts process execution for testability
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// CommandResult captures one process execution
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
