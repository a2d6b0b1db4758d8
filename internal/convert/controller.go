package convert

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/mp3-extractor/internal/media"
	"github.com/ytget/mp3-extractor/internal/model"
	"github.com/ytget/mp3-extractor/internal/platform"
)

// ConversionIDPrefix prefixes every conversion ID
const ConversionIDPrefix = "convert-"

// Options configures a Controller
type Options struct {
	// RetryTranscode reopens the input and retries the transcode once when
	// the first attempt fails
	RetryTranscode bool

	// OnStage is called on every state transition. It runs on the worker
	// goroutine and must not touch widgets.
	OnStage func(id string, status model.ConversionStatus)

	// ProbeWritable checks that the output directory accepts new files.
	// Defaults to platform.ProbeWritable.
	ProbeWritable func(dir string) error
}

// Controller validates requests and drives the media engine. At most one
// conversion runs at a time.
type Controller struct {
	opener media.Opener

	mu        sync.Mutex
	status    model.ConversionStatus
	currentID string
	retry     bool
	onStage   func(id string, status model.ConversionStatus)

	stat          func(name string) (os.FileInfo, error)
	probeWritable func(dir string) error
}

// NewController creates a controller in the Idle state
func NewController(opener media.Opener, opts Options) *Controller {
	probe := opts.ProbeWritable
	if probe == nil {
		probe = platform.ProbeWritable
	}
	return &Controller{
		opener:        opener,
		status:        model.StatusIdle,
		retry:         opts.RetryTranscode,
		onStage:       opts.OnStage,
		stat:          os.Stat,
		probeWritable: probe,
	}
}

// SetRetryTranscode toggles the single reopen-and-retry fallback
func (c *Controller) SetRetryTranscode(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retry = enabled
}

// Status returns the current state token
func (c *Controller) Status() model.ConversionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Acknowledge moves a finished conversion back to Idle
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.IsFinished() {
		c.status = model.StatusIdle
		c.currentID = ""
	}
}

// Inspect opens path read-only and returns its metadata
func (c *Controller) Inspect(ctx context.Context, path string) (model.MediaMetadata, error) {
	handle, err := c.opener.Open(ctx, path)
	if err != nil {
		log.Printf("Failed to inspect %s: %v", path, err)
		return model.MediaMetadata{}, newError(KindUnreadableMedia, "Error reading file info", path, err)
	}
	defer handle.Close()

	return handle.Metadata(), nil
}

// Convert runs a conversion synchronously. The returned result is also
// populated on failure; err is the same value as result.Err.
func (c *Controller) Convert(ctx context.Context, req model.ConversionRequest) (model.ConversionResult, error) {
	run, err := c.begin(req)
	if err != nil {
		return run.result, err
	}
	result := run.execute(ctx)
	return result, result.Err
}

// Start dispatches a conversion to a worker goroutine. Request problems that
// need no I/O (missing paths, busy controller) are returned immediately. The
// channel receives exactly one result and is then closed.
func (c *Controller) Start(req model.ConversionRequest) (<-chan model.ConversionResult, error) {
	run, err := c.begin(req)
	if err != nil {
		return nil, err
	}

	results := make(chan model.ConversionResult, 1)
	go func() {
		defer close(results)
		results <- run.execute(context.Background())
	}()

	return results, nil
}

// begin checks the request and claims the state token
func (c *Controller) begin(req model.ConversionRequest) (*conversionRun, error) {
	run := &conversionRun{
		controller: c,
		result: model.ConversionResult{
			ID:        generateConversionID(),
			Request:   req,
			Status:    model.StatusFailed,
			StartedAt: time.Now(),
		},
	}

	var err *Error
	switch {
	case req.InputPath == "":
		err = newError(KindMissingInput, "Please select an input MP4 file", "", nil)
	case req.OutputPath == "":
		err = newError(KindMissingOutput, "Please specify an output MP3 file", "", nil)
	}
	if err != nil {
		return run, run.reject(err)
	}

	c.mu.Lock()
	if c.status.IsActive() {
		c.mu.Unlock()
		return run, run.reject(newError(KindAlreadyRunning, "Conversion is already running", "", nil))
	}
	c.status = model.StatusValidating
	c.currentID = run.result.ID
	retry := c.retry
	c.mu.Unlock()

	run.retry = retry
	log.Printf("Conversion %s started: input=%s output=%s retry=%t", run.result.ID, req.InputPath, req.OutputPath, retry)
	c.notifyStage(run.result.ID, model.StatusValidating)
	return run, nil
}

// transition moves the state token along a legal edge
func (c *Controller) transition(id string, next model.ConversionStatus) {
	c.mu.Lock()
	if c.currentID != id {
		c.mu.Unlock()
		log.Printf("Ignoring transition to %s for stale conversion %s", next, id)
		return
	}
	if !c.status.CanTransition(next) {
		from := c.status
		c.mu.Unlock()
		log.Printf("Invalid transition for conversion %s: %s -> %s", id, from, next)
		return
	}
	c.status = next
	c.mu.Unlock()

	c.notifyStage(id, next)
}

// sameFile reports whether output names the input, either by path or, when
// the output already exists, by file identity
func (c *Controller) sameFile(input, output string) bool {
	inAbs, inErr := filepath.Abs(input)
	outAbs, outErr := filepath.Abs(output)
	if inErr == nil && outErr == nil && filepath.Clean(inAbs) == filepath.Clean(outAbs) {
		return true
	}

	inInfo, err := c.stat(input)
	if err != nil {
		return false
	}
	outInfo, err := c.stat(output)
	if err != nil {
		return false
	}
	return os.SameFile(inInfo, outInfo)
}

// notifyStage calls the stage observer if set
func (c *Controller) notifyStage(id string, status model.ConversionStatus) {
	if c.onStage != nil {
		c.onStage(id, status)
	}
}

// conversionRun carries the state of one conversion attempt
type conversionRun struct {
	controller *Controller
	retry      bool
	result     model.ConversionResult
	handle     media.Handle
}

// logf appends a line to the transcript
func (r *conversionRun) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	r.result.Transcript = append(r.result.Transcript, line)
}

// reject finishes a run that never claimed the state token
func (r *conversionRun) reject(err *Error) error {
	err.Transcript = r.result.Transcript
	r.result.Err = err
	r.result.FinishedAt = time.Now()
	log.Printf("Conversion %s rejected: %s", r.result.ID, err.Kind)
	return err
}

// fail finishes an active run with err
func (r *conversionRun) fail(err *Error) model.ConversionResult {
	err.Transcript = append([]string(nil), r.result.Transcript...)
	r.result.Err = err
	r.result.Status = model.StatusFailed
	r.result.FinishedAt = time.Now()
	r.controller.transition(r.result.ID, model.StatusFailed)
	log.Printf("Conversion %s failed (%s): %v", r.result.ID, err.Kind, err.Err)
	return r.result
}

// closeHandle releases the current media handle, if any
func (r *conversionRun) closeHandle() {
	if r.handle == nil {
		return
	}
	if err := r.handle.Close(); err != nil {
		log.Printf("Failed to close media handle for %s: %v", r.result.ID, err)
	}
	r.handle = nil
}

// execute performs the validation, load, audio check and transcode steps.
// The media handle is released on every path out of this function.
func (r *conversionRun) execute(ctx context.Context) (result model.ConversionResult) {
	defer r.closeHandle()
	defer func() {
		if p := recover(); p != nil {
			r.logf("Unexpected failure: %v", p)
			result = r.fail(newError(KindUnknown, "Unexpected conversion failure", "", fmt.Errorf("%v", p)))
		}
	}()

	c := r.controller
	req := r.result.Request
	r.logf("Input path: %s", req.InputPath)
	r.logf("Output path: %s", req.OutputPath)

	info, err := c.stat(req.InputPath)
	if err != nil || info.IsDir() {
		return r.fail(newError(KindInputNotFound, "Input file does not exist", req.InputPath, err))
	}
	r.logf("Input file exists: OK")

	if c.sameFile(req.InputPath, req.OutputPath) {
		return r.fail(newError(KindOutputIsInput, "Output file must differ from the input file", req.OutputPath, nil))
	}

	outputDir := req.OutputDir()
	dirInfo, err := c.stat(outputDir)
	if err != nil || !dirInfo.IsDir() {
		return r.fail(newError(KindOutputDirMissing, "Output directory does not exist", outputDir, err))
	}
	r.logf("Output directory exists: %s", outputDir)

	if err := c.probeWritable(outputDir); err != nil {
		return r.fail(newError(KindNoWritePermission, "No write permission for directory", outputDir, err))
	}
	r.logf("Write permission test: OK")

	c.transition(r.result.ID, model.StatusLoading)
	r.logf("Loading video file...")
	if err := r.open(ctx); err != nil {
		return r.fail(newError(KindLoadFailed, "Failed to load video file", req.InputPath, err))
	}

	c.transition(r.result.ID, model.StatusCheckingAudio)
	if !r.handle.HasAudio() {
		return r.fail(newError(KindNoAudioTrack, "The selected video file has no audio track", req.InputPath, nil))
	}
	r.logf("Audio track found: OK")

	c.transition(r.result.ID, model.StatusTranscoding)
	r.logf("Starting audio conversion...")
	if err := r.handle.WriteMP3(ctx, req.OutputPath); err != nil {
		r.logf("Primary conversion failed: %v", err)
		if !r.retry {
			return r.fail(newError(KindTranscodeFailed, "Audio conversion failed", req.OutputPath, err))
		}
		if retryErr := r.retryTranscode(ctx); retryErr != nil {
			r.logf("Alternative conversion failed: %v", retryErr)
			return r.fail(newError(KindTranscodeFailed, "Both conversion methods failed", req.OutputPath,
				fmt.Errorf("primary: %w\nalternative: %v", err, retryErr)))
		}
		r.logf("Alternative conversion succeeded: OK")
	}
	r.logf("Audio conversion completed: OK")

	outInfo, err := c.stat(req.OutputPath)
	if err != nil {
		return r.fail(newError(KindTranscodeFailed, "Output file missing after conversion", req.OutputPath, err))
	}

	r.result.OutputSize = outInfo.Size()
	r.result.Status = model.StatusCompleted
	r.result.FinishedAt = time.Now()
	c.transition(r.result.ID, model.StatusCompleted)
	log.Printf("Conversion %s completed: output=%s size=%d elapsed=%s",
		r.result.ID, req.OutputPath, r.result.OutputSize, r.result.Elapsed())
	return r.result
}

// open opens the input and records its metadata in the transcript
func (r *conversionRun) open(ctx context.Context) error {
	handle, err := r.controller.opener.Open(ctx, r.result.Request.InputPath)
	if err != nil {
		return err
	}
	r.handle = handle

	meta := handle.Metadata()
	r.logf("Video loaded successfully. Duration: %.2f", meta.DurationSeconds)
	r.logf("Video FPS: %.2f", meta.FPS)
	r.logf("Video resolution: %s", meta.Resolution())
	return nil
}

// retryTranscode closes the current handle, reopens the input and tries the
// transcode once more
func (r *conversionRun) retryTranscode(ctx context.Context) error {
	c := r.controller
	r.logf("Retrying with a freshly opened input...")
	r.closeHandle()

	c.transition(r.result.ID, model.StatusLoading)
	if err := r.open(ctx); err != nil {
		return err
	}

	c.transition(r.result.ID, model.StatusCheckingAudio)
	if !r.handle.HasAudio() {
		return fmt.Errorf("no audio track in reloaded video")
	}

	c.transition(r.result.ID, model.StatusTranscoding)
	return r.handle.WriteMP3(ctx, r.result.Request.OutputPath)
}

// generateConversionID generates a unique conversion ID using UUID v7
func generateConversionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(ConversionIDPrefix+"%d", time.Now().UnixNano())
	}
	return ConversionIDPrefix + id.String()
}

// Ensure Controller implements Converter
var _ Converter = (*Controller)(nil)
