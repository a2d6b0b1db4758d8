package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// File naming
const (
	OutputExtensionMP3 = ".mp3"
	DocumentsDirName   = "Documents"
	WriteProbePattern  = ".mp3-extractor-write-test-*.tmp"
	WriteProbePayload  = "test"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// DeriveOutputPath suggests an MP3 path next to the input with the same base name
func DeriveOutputPath(inputPath string) string {
	inputPath = strings.TrimSpace(inputPath)
	if inputPath == "" {
		return ""
	}
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + OutputExtensionMP3
}

// FileExists reports whether path is an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path is an existing directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ProbeWritable checks that files can be created in dir by writing and
// deleting a scratch file
func ProbeWritable(dir string) error {
	f, err := os.CreateTemp(dir, WriteProbePattern)
	if err != nil {
		return fmt.Errorf("cannot create file in %s: %w", dir, err)
	}
	name := f.Name()

	_, writeErr := f.WriteString(WriteProbePayload)
	closeErr := f.Close()
	removeErr := os.Remove(name)

	if writeErr != nil {
		return fmt.Errorf("cannot write to %s: %w", dir, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("cannot write to %s: %w", dir, closeErr)
	}
	if removeErr != nil {
		return fmt.Errorf("cannot delete scratch file in %s: %w", dir, removeErr)
	}
	return nil
}

// GetHomeDocumentsDir returns the user's Documents directory
func GetHomeDocumentsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, DocumentsDirName), nil
}

// DefaultSaveDir picks the starting folder for the save dialog: the input's
// directory, else Documents, else the home directory. Empty when none exists.
func DefaultSaveDir(inputPath string) string {
	if inputPath != "" {
		if dir := filepath.Dir(inputPath); DirExists(dir) {
			return dir
		}
	}
	if docs, err := GetHomeDocumentsDir(); err == nil && DirExists(docs) {
		return docs
	}
	if home, err := os.UserHomeDir(); err == nil && DirExists(home) {
		return home
	}
	return ""
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	absPath, err := resolveExisting(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin: // macOS
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openFileInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFileInManagerLinux opens directory containing file on Linux
// Note: File selection is not standardized on Linux, so we open the parent directory
func openFileInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	// Try xdg-open first (most common)
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	// Fallback to common file managers
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := resolveExisting(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// resolveExisting validates that filePath exists and returns its absolute form
func resolveExisting(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", fmt.Errorf("file does not exist: file path is empty")
	}
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("file does not exist: %v", err)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}
