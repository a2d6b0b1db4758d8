// Package ui contains the Fyne-based desktop user interface for the converter.
// It renders the input/output fields, status line and file information panel,
// and forwards conversions to the controller. Widgets are only touched on the
// UI thread; worker results arrive over a channel and are applied via fyne.Do.
package ui
