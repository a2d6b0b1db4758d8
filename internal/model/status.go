package model

// ConversionStatus represents the stage of a single conversion
type ConversionStatus string

const (
	// StatusIdle means no conversion is running
	StatusIdle ConversionStatus = "Idle"

	// StatusValidating means request paths are being checked
	StatusValidating ConversionStatus = "Validating"

	// StatusLoading means the input is being opened by the media engine
	StatusLoading ConversionStatus = "Loading"

	// StatusCheckingAudio means the opened media is checked for an audio stream
	StatusCheckingAudio ConversionStatus = "CheckingAudio"

	// StatusTranscoding means the audio stream is being written as MP3
	StatusTranscoding ConversionStatus = "Transcoding"

	// StatusCompleted means the MP3 was written successfully
	StatusCompleted ConversionStatus = "Completed"

	// StatusFailed means the conversion stopped with an error
	StatusFailed ConversionStatus = "Failed"
)

// String returns the string representation of ConversionStatus
func (cs ConversionStatus) String() string {
	return string(cs)
}

// IsActive returns true if a conversion is in flight
func (cs ConversionStatus) IsActive() bool {
	switch cs {
	case StatusValidating, StatusLoading, StatusCheckingAudio, StatusTranscoding:
		return true
	default:
		return false
	}
}

// IsFinished returns true if the status is terminal (completed or failed)
func (cs ConversionStatus) IsFinished() bool {
	return cs == StatusCompleted || cs == StatusFailed
}

// CanTransition reports whether moving from cs to next is a legal edge.
// Failed is reachable from every active stage; terminal states go back to
// Idle or straight into a new Validating run.
func (cs ConversionStatus) CanTransition(next ConversionStatus) bool {
	if cs.IsActive() && next == StatusFailed {
		return true
	}

	switch cs {
	case StatusIdle:
		return next == StatusValidating
	case StatusValidating:
		return next == StatusLoading
	case StatusLoading:
		return next == StatusCheckingAudio
	case StatusCheckingAudio:
		return next == StatusTranscoding
	case StatusTranscoding:
		return next == StatusCompleted || next == StatusLoading
	case StatusCompleted, StatusFailed:
		return next == StatusIdle || next == StatusValidating
	default:
		return false
	}
}
