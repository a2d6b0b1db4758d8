package media

// Package media is the multimedia capability behind the converter. It opens a
// container with ffprobe, reports its streams, and writes the audio stream as
// MP3 with ffmpeg. Everything process-related goes through CommandRunner so the
// package can be exercised without the real binaries.
