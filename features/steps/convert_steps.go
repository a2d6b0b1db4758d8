//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ytget/mp3-extractor/internal/convert"
	"github.com/ytget/mp3-extractor/internal/media"
	"github.com/ytget/mp3-extractor/internal/model"
	"github.com/ytget/mp3-extractor/internal/platform"

	"github.com/cucumber/godog"
)

const resultTimeout = 10 * time.Second

// fakeVideo describes what ffprobe reports for a file
type fakeVideo struct {
	duration float64
	fps      int
	width    int
	height   int
	audio    bool
	corrupt  bool
}

// scriptedRunner stands in for the ffmpeg and ffprobe executables
type scriptedRunner struct {
	mu             sync.Mutex
	videos         map[string]fakeVideo
	ffmpegFailures int
	gate           chan struct{}
	probeCalls     int
	ffmpegCalls    int
}

func (r *scriptedRunner) Run(ctx context.Context, name string, args ...string) (media.CommandResult, error) {
	if len(args) == 1 && args[0] == media.VersionFlag {
		return media.CommandResult{Stdout: name + " version test"}, nil
	}
	if filepath.Base(name) == media.FFprobeCommand {
		return r.probe(args[len(args)-1])
	}
	return r.transcode(args[len(args)-1])
}

func (r *scriptedRunner) probe(input string) (media.CommandResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probeCalls++

	video, ok := r.videos[input]
	if !ok || video.corrupt {
		return media.CommandResult{Stderr: input + ": Invalid data found when processing input", ExitCode: 1}, errors.New("exit status 1")
	}

	streams := fmt.Sprintf(`{"index": 0, "codec_type": "video", "codec_name": "h264", "width": %d, "height": %d, "avg_frame_rate": "%d/1"}`,
		video.width, video.height, video.fps)
	if video.audio {
		streams += `, {"index": 1, "codec_type": "audio", "codec_name": "aac"}`
	}
	out := fmt.Sprintf(`{"streams": [%s], "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "%.3f"}}`,
		streams, video.duration)
	return media.CommandResult{Stdout: out}, nil
}

func (r *scriptedRunner) transcode(output string) (media.CommandResult, error) {
	r.mu.Lock()
	r.ffmpegCalls++
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ffmpegFailures > 0 {
		r.ffmpegFailures--
		return media.CommandResult{Stderr: "Error while decoding stream #0:1", ExitCode: 1}, errors.New("exit status 1")
	}
	if err := os.WriteFile(output, []byte("ID3 fake mp3 frames"), 0644); err != nil {
		return media.CommandResult{ExitCode: 1}, err
	}
	return media.CommandResult{}, nil
}

func (r *scriptedRunner) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.probeCalls, r.ffmpegCalls
}

// convertContext holds test state for conversion scenarios
type convertContext struct {
	dir        string
	runner     *scriptedRunner
	controller *convert.Controller
	unwritable map[string]bool
	gateOpen   bool

	result model.ConversionResult
	err    error

	first     <-chan model.ConversionResult
	secondErr error

	suggested  string
	meta       model.MediaMetadata
	inspectErr error
}

// SharedConvertContext is reset before each scenario via Before hook
var SharedConvertContext *convertContext

func getConvertContext() *convertContext {
	return SharedConvertContext
}

func InitializeConvertScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedConvertContext = &convertContext{
			runner:     &scriptedRunner{videos: make(map[string]fakeVideo)},
			unwritable: make(map[string]bool),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		cc := getConvertContext()
		if cc != nil {
			cc.openGate()
			for dir := range cc.unwritable {
				os.Chmod(dir, 0755)
			}
			if cc.dir != "" {
				os.RemoveAll(cc.dir)
			}
		}
		SharedConvertContext = nil
		return c, nil
	})

	ctx.Step(`^a clean working directory$`, aCleanWorkingDirectory)
	ctx.Step(`^a video "([^"]*)" lasting ([\d.]+) seconds at (\d+) fps and (\d+)x(\d+) (with|without) audio$`, aVideoLasting)
	ctx.Step(`^a corrupt file "([^"]*)"$`, aCorruptFile)
	ctx.Step(`^the output directory "([^"]*)" is not writable$`, theOutputDirectoryIsNotWritable)
	ctx.Step(`^ffmpeg is slow to finish$`, ffmpegIsSlowToFinish)
	ctx.Step(`^ffmpeg fails (\d+) times?$`, ffmpegFails)
	ctx.Step(`^retrying a failed transcode is (enabled|disabled)$`, retryingIs)
	ctx.Step(`^I convert "([^"]*)" to "([^"]*)"$`, iConvert)
	ctx.Step(`^I start converting "([^"]*)" to "([^"]*)"$`, iStartConverting)
	ctx.Step(`^ffmpeg is allowed to finish$`, ffmpegIsAllowedToFinish)
	ctx.Step(`^the conversion succeeds$`, theConversionSucceeds)
	ctx.Step(`^the conversion fails with "([^"]*)"$`, theConversionFailsWith)
	ctx.Step(`^starting the second conversion fails with "([^"]*)"$`, startingTheSecondConversionFailsWith)
	ctx.Step(`^the first conversion succeeds$`, theFirstConversionSucceeds)
	ctx.Step(`^the file "([^"]*)" exists and is not empty$`, theFileExistsAndIsNotEmpty)
	ctx.Step(`^the file "([^"]*)" does not exist$`, theFileDoesNotExist)
	ctx.Step(`^the reported output size matches "([^"]*)"$`, theReportedOutputSizeMatches)
	ctx.Step(`^ffmpeg was not run$`, ffmpegWasNotRun)
	ctx.Step(`^ffmpeg was run (\d+) times?$`, ffmpegWasRun)
	ctx.Step(`^the media engine was not called$`, theMediaEngineWasNotCalled)
	ctx.Step(`^I select the input "([^"]*)"$`, iSelectTheInput)
	ctx.Step(`^the suggested output is "([^"]*)"$`, theSuggestedOutputIs)
	ctx.Step(`^I inspect "([^"]*)"$`, iInspect)
	ctx.Step(`^the inspection reports no audio$`, theInspectionReportsNoAudio)
	ctx.Step(`^the inspection reports a resolution of "([^"]*)"$`, theInspectionReportsAResolutionOf)
	ctx.Step(`^the inspection fails with "([^"]*)"$`, theInspectionFailsWith)
}

// resolve maps a scenario file name into the working directory; an empty
// name stays empty
func (cc *convertContext) resolve(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(cc.dir, name)
}

func (cc *convertContext) openGate() {
	cc.runner.mu.Lock()
	defer cc.runner.mu.Unlock()
	if cc.runner.gate != nil && !cc.gateOpen {
		close(cc.runner.gate)
		cc.gateOpen = true
	}
}

func (cc *convertContext) probeWritable(dir string) error {
	if cc.unwritable[dir] {
		return fmt.Errorf("open %s: permission denied", filepath.Join(dir, platform.WriteProbePattern))
	}
	return platform.ProbeWritable(dir)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

func aCleanWorkingDirectory() error {
	cc := getConvertContext()
	dir, err := os.MkdirTemp("", "mp3-extractor-features-")
	if err != nil {
		return err
	}
	cc.dir = dir

	engine := media.NewEngine(
		media.WithFFmpegPath(media.FFmpegCommand),
		media.WithFFprobePath(media.FFprobeCommand),
		media.WithCommandRunner(cc.runner),
	)
	cc.controller = convert.NewController(engine, convert.Options{
		RetryTranscode: true,
		ProbeWritable:  cc.probeWritable,
	})
	return nil
}

func aVideoLasting(name string, duration float64, fps, width, height int, audio string) error {
	cc := getConvertContext()
	path := cc.resolve(name)
	if err := writeFile(path, []byte("fake mp4 container")); err != nil {
		return err
	}

	cc.runner.mu.Lock()
	defer cc.runner.mu.Unlock()
	cc.runner.videos[path] = fakeVideo{
		duration: duration,
		fps:      fps,
		width:    width,
		height:   height,
		audio:    audio == "with",
	}
	return nil
}

func aCorruptFile(name string) error {
	cc := getConvertContext()
	path := cc.resolve(name)
	if err := writeFile(path, []byte("not a video at all")); err != nil {
		return err
	}

	cc.runner.mu.Lock()
	defer cc.runner.mu.Unlock()
	cc.runner.videos[path] = fakeVideo{corrupt: true}
	return nil
}

func theOutputDirectoryIsNotWritable(name string) error {
	cc := getConvertContext()
	dir := cc.resolve(name)
	if err := os.Mkdir(dir, 0755); err != nil {
		return err
	}
	if err := os.Chmod(dir, 0555); err != nil {
		return err
	}
	cc.unwritable[dir] = true
	return nil
}

func ffmpegIsSlowToFinish() error {
	cc := getConvertContext()
	cc.runner.mu.Lock()
	defer cc.runner.mu.Unlock()
	cc.runner.gate = make(chan struct{})
	return nil
}

func ffmpegFails(times int) error {
	cc := getConvertContext()
	cc.runner.mu.Lock()
	defer cc.runner.mu.Unlock()
	cc.runner.ffmpegFailures = times
	return nil
}

func retryingIs(state string) error {
	getConvertContext().controller.SetRetryTranscode(state == "enabled")
	return nil
}

func iConvert(input, output string) error {
	cc := getConvertContext()
	req := model.NewConversionRequest(cc.resolve(input), cc.resolve(output))
	cc.result, cc.err = cc.controller.Convert(context.Background(), req)
	return nil
}

func iStartConverting(input, output string) error {
	cc := getConvertContext()
	req := model.NewConversionRequest(cc.resolve(input), cc.resolve(output))
	results, err := cc.controller.Start(req)
	if cc.first == nil {
		if err != nil {
			return fmt.Errorf("first conversion should start, got: %v", err)
		}
		cc.first = results
		return nil
	}
	cc.secondErr = err
	return nil
}

func ffmpegIsAllowedToFinish() error {
	getConvertContext().openGate()
	return nil
}

func theConversionSucceeds() error {
	cc := getConvertContext()
	if cc.err != nil {
		return fmt.Errorf("expected success, got: %v", cc.err)
	}
	if !cc.result.Succeeded() {
		return fmt.Errorf("expected completed status, got %s", cc.result.Status)
	}
	return nil
}

func theConversionFailsWith(kind string) error {
	cc := getConvertContext()
	if cc.err == nil {
		return fmt.Errorf("expected %s error, conversion succeeded", kind)
	}
	if got := convert.KindOf(cc.err).String(); got != kind {
		return fmt.Errorf("expected %s error, got %s: %v", kind, got, cc.err)
	}
	return nil
}

func startingTheSecondConversionFailsWith(kind string) error {
	cc := getConvertContext()
	if cc.secondErr == nil {
		return fmt.Errorf("expected second start to fail with %s", kind)
	}
	if got := convert.KindOf(cc.secondErr).String(); got != kind {
		return fmt.Errorf("expected %s error, got %s: %v", kind, got, cc.secondErr)
	}
	return nil
}

func theFirstConversionSucceeds() error {
	cc := getConvertContext()
	select {
	case result, ok := <-cc.first:
		if !ok {
			return fmt.Errorf("result channel closed without a result")
		}
		if !result.Succeeded() {
			return fmt.Errorf("expected first conversion to succeed, got: %v", result.Err)
		}
		return nil
	case <-time.After(resultTimeout):
		return fmt.Errorf("timed out waiting for the first conversion")
	}
}

func theFileExistsAndIsNotEmpty(name string) error {
	info, err := os.Stat(getConvertContext().resolve(name))
	if err != nil {
		return fmt.Errorf("expected %s to exist: %w", name, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("expected %s to be non-empty", name)
	}
	return nil
}

func theFileDoesNotExist(name string) error {
	if _, err := os.Stat(getConvertContext().resolve(name)); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s not to exist", name)
	}
	return nil
}

func theReportedOutputSizeMatches(name string) error {
	cc := getConvertContext()
	info, err := os.Stat(cc.resolve(name))
	if err != nil {
		return err
	}
	if cc.result.OutputSize != info.Size() {
		return fmt.Errorf("reported size %d, file size %d", cc.result.OutputSize, info.Size())
	}
	return nil
}

func ffmpegWasNotRun() error {
	return ffmpegWasRun(0)
}

func ffmpegWasRun(times int) error {
	_, ffmpegCalls := getConvertContext().runner.counts()
	if ffmpegCalls != times {
		return fmt.Errorf("expected ffmpeg to run %d times, ran %d", times, ffmpegCalls)
	}
	return nil
}

func theMediaEngineWasNotCalled() error {
	probeCalls, ffmpegCalls := getConvertContext().runner.counts()
	if probeCalls != 0 || ffmpegCalls != 0 {
		return fmt.Errorf("expected no engine calls, got ffprobe=%d ffmpeg=%d", probeCalls, ffmpegCalls)
	}
	return nil
}

func iSelectTheInput(name string) error {
	cc := getConvertContext()
	cc.suggested = platform.DeriveOutputPath(cc.resolve(name))
	return nil
}

func theSuggestedOutputIs(name string) error {
	cc := getConvertContext()
	if expected := cc.resolve(name); cc.suggested != expected {
		return fmt.Errorf("expected suggestion %s, got %s", expected, cc.suggested)
	}
	return nil
}

func iInspect(name string) error {
	cc := getConvertContext()
	cc.meta, cc.inspectErr = cc.controller.Inspect(context.Background(), cc.resolve(name))
	return nil
}

func theInspectionReportsNoAudio() error {
	cc := getConvertContext()
	if cc.inspectErr != nil {
		return fmt.Errorf("inspection failed: %v", cc.inspectErr)
	}
	if cc.meta.HasAudio {
		return fmt.Errorf("expected has_audio=false")
	}
	return nil
}

func theInspectionReportsAResolutionOf(resolution string) error {
	cc := getConvertContext()
	if got := cc.meta.Resolution(); got != resolution {
		return fmt.Errorf("expected resolution %s, got %s", resolution, got)
	}
	return nil
}

func theInspectionFailsWith(kind string) error {
	cc := getConvertContext()
	if cc.inspectErr == nil {
		return fmt.Errorf("expected inspection to fail with %s", kind)
	}
	if got := convert.KindOf(cc.inspectErr).String(); got != kind {
		return fmt.Errorf("expected %s error, got %s: %v", kind, got, cc.inspectErr)
	}
	return nil
}
