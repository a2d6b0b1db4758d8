package media

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Executable names
const (
	FFmpegCommand  = "ffmpeg"
	FFprobeCommand = "ffprobe"
)

// ResolveTool picks the binary to run for name. An explicit configured path
// wins, then a binary shipped next to our own executable, then $PATH. When
// nothing is found the bare name is returned so the failure surfaces at run
// time with the OS error.
func ResolveTool(configured, name string) string {
	if configured != "" {
		return configured
	}

	binary := name
	if runtime.GOOS == "windows" {
		binary += ".exe"
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), binary)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	if found, err := exec.LookPath(binary); err == nil {
		return found
	}

	return name
}

// toolExists reports whether path points at an existing file, resolving bare
// names through $PATH
func toolExists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	_, err := exec.LookPath(path)
	return err == nil
}

// Diagnostics returns system information lines shown alongside conversion
// errors
func (e *Engine) Diagnostics() []string {
	ffmpegPath, ffprobePath := e.ToolPaths()

	lines := []string{}
	if exe, err := os.Executable(); err == nil {
		lines = append(lines, fmt.Sprintf("Executable: %s", exe))
	} else {
		lines = append(lines, fmt.Sprintf("Executable: unknown (%v)", err))
	}
	if wd, err := os.Getwd(); err == nil {
		lines = append(lines, fmt.Sprintf("Current working directory: %s", wd))
	}
	lines = append(lines,
		fmt.Sprintf("Temp directory: %s", os.TempDir()),
		fmt.Sprintf("Platform: %s/%s", runtime.GOOS, runtime.GOARCH),
		fmt.Sprintf("FFmpeg path: %s", ffmpegPath),
		fmt.Sprintf("FFmpeg exists: %t", toolExists(ffmpegPath)),
		fmt.Sprintf("FFprobe path: %s", ffprobePath),
		fmt.Sprintf("FFprobe exists: %t", toolExists(ffprobePath)),
	)
	return lines
}
