package convert

import (
	"context"

	"github.com/ytget/mp3-extractor/internal/model"
)

// Converter defines the interface the UI uses to drive conversions.
type Converter interface {
	Inspect(ctx context.Context, path string) (model.MediaMetadata, error)
	Start(req model.ConversionRequest) (<-chan model.ConversionResult, error)
	Status() model.ConversionStatus
	Acknowledge()
	SetRetryTranscode(enabled bool)
}
