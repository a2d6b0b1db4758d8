package model

// Package model defines domain data structures used across the app: the
// conversion request, probed media metadata, the conversion state machine and
// the result value posted back to the UI.
