package media

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ytget/mp3-extractor/internal/model"
)

// ffprobe stream types
const (
	CodecTypeAudio = "audio"
	CodecTypeVideo = "video"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	Index        int    `json:"index"`
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	Duration     string `json:"duration"`
	Disposition  struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// BuildProbeArgs builds the ffprobe arguments used to inspect a file
func BuildProbeArgs(inputPath string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	}
}

// ParseProbeOutput converts ffprobe JSON into MediaMetadata. Path and size are
// left for the caller, which knows them from the filesystem.
func ParseProbeOutput(data []byte) (model.MediaMetadata, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return model.MediaMetadata{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(out.Streams) == 0 && out.Format.FormatName == "" {
		return model.MediaMetadata{}, fmt.Errorf("ffprobe reported no streams")
	}

	meta := model.MediaMetadata{
		FormatName: out.Format.FormatName,
	}

	var longestStream float64
	videoFound := false
	for _, s := range out.Streams {
		switch s.CodecType {
		case CodecTypeAudio:
			if !meta.HasAudio {
				meta.HasAudio = true
				meta.AudioCodec = s.CodecName
			}
		case CodecTypeVideo:
			// Cover art in MP4/MP3 shows up as a one-frame video stream
			if s.Disposition.AttachedPic == 1 || videoFound {
				continue
			}
			videoFound = true
			meta.VideoCodec = s.CodecName
			meta.Width = s.Width
			meta.Height = s.Height
			meta.FPS = parseFrameRate(s.AvgFrameRate)
			if meta.FPS == 0 {
				meta.FPS = parseFrameRate(s.RFrameRate)
			}
		}
		if d := parseSeconds(s.Duration); d > longestStream {
			longestStream = d
		}
	}

	meta.DurationSeconds = parseSeconds(out.Format.Duration)
	if meta.DurationSeconds == 0 {
		meta.DurationSeconds = longestStream
	}

	if size, err := strconv.ParseInt(out.Format.Size, 10, 64); err == nil {
		meta.SizeBytes = size
	}

	return meta, nil
}

// parseFrameRate parses ffprobe rationals such as "30000/1001"
func parseFrameRate(rate string) float64 {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 0
	}

	num, den, found := strings.Cut(rate, "/")
	if !found {
		return parseSeconds(rate)
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// parseSeconds parses a decimal seconds value, returning 0 for "N/A" and garbage
func parseSeconds(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
