package ui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/mp3-extractor/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	ffmpegEntry     *widget.Entry
	ffprobeEntry    *widget.Entry
	retryCheck      *widget.Check
	autoRevealCheck *widget.Check
	languageSelect  *widget.Select

	// display name -> language code
	languageCodes map[string]string
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, localization *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:      settings,
		window:        window,
		localization:  localization,
		onSaved:       onSaved,
		languageCodes: make(map[string]string),
	}

	sd.createUI()
	return sd
}

// ShowSettingsDialog builds and shows the settings dialog
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, window, localization, onSaved)
	sd.Show()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	loc := sd.localization

	sd.ffmpegEntry = widget.NewEntry()
	sd.ffmpegEntry.SetPlaceHolder(loc.GetText(KeyAutoDetect))
	ffmpegRow := container.NewBorder(nil, nil, nil,
		widget.NewButton(loc.GetText(KeyBrowse), func() { sd.onBrowseTool(sd.ffmpegEntry) }),
		sd.ffmpegEntry)

	sd.ffprobeEntry = widget.NewEntry()
	sd.ffprobeEntry.SetPlaceHolder(loc.GetText(KeyAutoDetect))
	ffprobeRow := container.NewBorder(nil, nil, nil,
		widget.NewButton(loc.GetText(KeyBrowse), func() { sd.onBrowseTool(sd.ffprobeEntry) }),
		sd.ffprobeEntry)

	sd.retryCheck = widget.NewCheck(loc.GetText(KeyRetryTranscode), nil)
	sd.autoRevealCheck = widget.NewCheck(loc.GetText(KeyAutoReveal), nil)

	// Language selection shows display names, stores codes
	languageOptions := []string{}
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageOptions = append(languageOptions, name)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(loc.GetText(KeyToolsSection)),
		widget.NewSeparator(),

		widget.NewLabel(loc.GetText(KeyFFmpegPath)),
		ffmpegRow,

		widget.NewLabel(loc.GetText(KeyFFprobePath)),
		ffprobeRow,

		widget.NewSeparator(),
		widget.NewLabel(loc.GetText(KeyConversionSection)),
		widget.NewSeparator(),

		sd.retryCheck,
		sd.autoRevealCheck,

		widget.NewSeparator(),
		widget.NewLabel(loc.GetText(KeyInterfaceSection)),
		widget.NewSeparator(),

		widget.NewLabel(loc.GetText(KeyLanguage)),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		loc.GetText(KeySettings),
		loc.GetText(KeySave),
		loc.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.ffmpegEntry.SetText(sd.settings.GetFFmpegPath())
	sd.ffprobeEntry.SetText(sd.settings.GetFFprobePath())
	sd.retryCheck.SetChecked(sd.settings.GetRetryTranscode())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
}

// onBrowseTool picks an executable for entry
func (sd *SettingsDialog) onBrowseTool(entry *widget.Entry) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		entry.SetText(reader.URI().Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	// Empty paths mean auto-detect
	sd.settings.SetFFmpegPath(sd.ffmpegEntry.Text)
	sd.settings.SetFFprobePath(sd.ffprobeEntry.Text)
	sd.settings.SetRetryTranscode(sd.retryCheck.Checked)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}

	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}
