package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ytget/mp3-extractor/internal/convert"
	"github.com/ytget/mp3-extractor/internal/model"
)

// File size formatting
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// formatFileSize returns a human readable size such as "3.4 MB"
func formatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

// formatMetadata renders the file information panel text
func formatMetadata(meta model.MediaMetadata, loc *Localization) string {
	hasAudio := loc.GetText(KeyNo)
	if meta.HasAudio {
		hasAudio = loc.GetText(KeyYes)
	}

	fps := DashPlaceholder
	if meta.FPS > 0 {
		fps = fmt.Sprintf("%.2f", meta.FPS)
	}

	lines := []string{
		fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoFile), filepath.Base(meta.Path)),
		fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoSize), formatFileSize(meta.SizeBytes)),
		fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoDuration), meta.DurationString()),
		fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoResolution), meta.Resolution()),
		fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoFPS), fps),
		fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoHasAudio), hasAudio),
	}
	if meta.AudioCodec != "" {
		lines = append(lines, fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoAudioCodec), meta.AudioCodec))
	}
	if meta.VideoCodec != "" {
		lines = append(lines, fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoVideoCodec), meta.VideoCodec))
	}
	if meta.FormatName != "" {
		lines = append(lines, fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoContainer), meta.FormatName))
	}
	return strings.Join(lines, "\n")
}

// formatOutputSize renders the line appended to the info panel on success
func formatOutputSize(result model.ConversionResult, loc *Localization) string {
	return "\n" + fmt.Sprintf(InfoLineFormat, loc.GetText(KeyInfoOutputSize), formatFileSize(result.OutputSize))
}

// buildErrorReport renders the text of the conversion error dialog: the
// message, the step transcript, and the system information lines
func buildErrorReport(err error, diagnostics []string, loc *Localization) string {
	var b strings.Builder

	var convErr *convert.Error
	if errors.As(err, &convErr) {
		b.WriteString(convErr.Report())
	} else if err != nil {
		b.WriteString(err.Error())
	}

	if len(diagnostics) > 0 {
		b.WriteString("\n\n")
		b.WriteString(loc.GetText(KeySystemInformation))
		b.WriteString(":\n")
		b.WriteString(strings.Join(diagnostics, "\n"))
	}
	return b.String()
}
