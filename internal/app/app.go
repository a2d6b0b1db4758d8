// Package app wires the media engine, conversion controller and window
// together behind the command line entry point.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/ytget/mp3-extractor/internal/config"
	"github.com/ytget/mp3-extractor/internal/convert"
	"github.com/ytget/mp3-extractor/internal/media"
	"github.com/ytget/mp3-extractor/internal/model"
	"github.com/ytget/mp3-extractor/internal/ui"
)

const (
	AppID   = "com.ytget.mp3-extractor"
	AppName = "MP3 Extractor"
	AppUse  = "mp3-extractor"

	// VerifyTimeout bounds the startup check of ffmpeg/ffprobe
	VerifyTimeout = 15 * time.Second
)

// ErrStartupFailed is returned when the media tools cannot be used
var ErrStartupFailed = errors.New("initialization failed")

// Options are the one-run overrides accepted on the command line
type Options struct {
	FFmpegPath  string
	FFprobePath string
}

// NewRootCommand builds the command tree. With no subcommand the GUI runs.
func NewRootCommand(version string) *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   AppUse,
		Short: "Extract the audio track of an MP4 video as MP3",
		Long: `mp3-extractor opens a window where you pick an MP4 video and a
destination MP3 file. The audio track is extracted with FFmpeg.

FFmpeg and FFprobe are looked up next to the executable, then on $PATH.
Their locations can be set in Settings or overridden for one run:

  mp3-extractor --ffmpeg /opt/ffmpeg/bin/ffmpeg --ffprobe /opt/ffmpeg/bin/ffprobe`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts, version)
		},
	}

	rootCmd.Flags().StringVar(&opts.FFmpegPath, "ffmpeg", "", "FFmpeg executable for this run (default from settings or auto-detect)")
	rootCmd.Flags().StringVar(&opts.FFprobePath, "ffprobe", "", "FFprobe executable for this run (default from settings or auto-detect)")

	rootCmd.AddCommand(newVersionCommand(version))
	return rootCmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout(), version)
		},
	}
}

func printVersion(w io.Writer, version string) {
	fmt.Fprintf(w, "%s v%s\n", AppName, version)
}

// Execute runs the root command and exits 1 on failure
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveToolPaths picks the ffmpeg/ffprobe binaries: command line, then
// settings, then auto-detection
func resolveToolPaths(opts *Options, settings *config.Settings) (string, string) {
	ffmpegPath := opts.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = settings.GetFFmpegPath()
	}
	ffprobePath := opts.FFprobePath
	if ffprobePath == "" {
		ffprobePath = settings.GetFFprobePath()
	}
	return media.ResolveTool(ffmpegPath, media.FFmpegCommand), media.ResolveTool(ffprobePath, media.FFprobeCommand)
}

// logStage traces controller state transitions
func logStage(id string, status model.ConversionStatus) {
	log.Printf("Conversion %s stage: %s", id, status)
}

// runGUI builds the window and blocks until it is closed
func runGUI(opts *Options, version string) error {
	log.Printf("%s v%s starting...", AppName, version)

	myApp := fyneapp.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))
	myWindow.SetMaster()

	settings := config.NewSettings(myApp)
	ffmpegPath, ffprobePath := resolveToolPaths(opts, settings)
	engine := media.NewEngine(media.WithFFmpegPath(ffmpegPath), media.WithFFprobePath(ffprobePath))
	log.Printf("Using ffmpeg=%s ffprobe=%s", ffmpegPath, ffprobePath)

	controller := convert.NewController(engine, convert.Options{
		RetryTranscode: settings.GetRetryTranscode(),
		OnStage:        logStage,
	})

	mainUI := ui.NewMainUI(myWindow, myApp, controller, engine)
	mainUI.SetToolOverrides(opts.FFmpegPath, opts.FFprobePath)
	defer mainUI.Close()

	ctx, cancel := context.WithTimeout(context.Background(), VerifyTimeout)
	verifyErr := engine.VerifyInstalled(ctx)
	cancel()
	if verifyErr != nil {
		log.Printf("Media tools unavailable: %v", verifyErr)
		mainUI.ShowStartupError(verifyErr, myWindow.Close)
	}

	myWindow.ShowAndRun()

	if verifyErr != nil {
		return fmt.Errorf("%w: %v", ErrStartupFailed, verifyErr)
	}
	return nil
}
