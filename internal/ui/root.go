package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/mp3-extractor/internal/config"
	"github.com/ytget/mp3-extractor/internal/convert"
	"github.com/ytget/mp3-extractor/internal/media"
	"github.com/ytget/mp3-extractor/internal/model"
	"github.com/ytget/mp3-extractor/internal/platform"
	"github.com/ytget/mp3-extractor/internal/watch"
)

// MediaTools is the part of the media engine the window configures and
// reports on
type MediaTools interface {
	SetToolPaths(ffmpegPath, ffprobePath string)
	Diagnostics() []string
}

// statusState is what the one-line status shows
type statusState int

const (
	statusReady statusState = iota
	statusConverting
	statusSucceeded
	statusFailed
)

// statusTextKey returns the localization key for a status line state
func statusTextKey(state statusState) string {
	switch state {
	case statusConverting:
		return KeyStatusConverting
	case statusSucceeded:
		return KeyStatusSuccess
	case statusFailed:
		return KeyStatusFailed
	default:
		return KeyStatusReady
	}
}

// MainUI represents the converter window
type MainUI struct {
	window       fyne.Window
	controller   convert.Converter
	tools        MediaTools
	settings     *config.Settings
	localization *Localization

	titleText       *canvas.Text
	inputLabel      *widget.Label
	outputLabel     *widget.Label
	inputEntry      *widget.Entry
	outputEntry     *widget.Entry
	inputBrowseBtn  *widget.Button
	outputBrowseBtn *widget.Button
	allFilesCheck   *widget.Check
	convertBtn      *widget.Button
	busyBar         *widget.ProgressBarInfinite
	statusText      *canvas.Text
	infoCard        *widget.Card
	infoEntry       *widget.Entry

	// UI-thread state
	status          statusState
	suggestedOutput string
	lastOutput      string
	inspectSeq      int
	watcher         *watch.Watcher

	// Command line tool paths; they win over settings for this run
	ffmpegOverride  string
	ffprobeOverride string
}

// NewMainUI creates and initializes the converter window
func NewMainUI(window fyne.Window, app fyne.App, controller convert.Converter, tools MediaTools) *MainUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &MainUI{
		window:       window,
		controller:   controller,
		tools:        tools,
		settings:     settings,
		localization: localization,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	log.Printf("MainUI initialized: language=%s retry=%t", localization.GetCurrentLanguage(), settings.GetRetryTranscode())
	return ui
}

// setupUI creates and arranges all UI components
func (ui *MainUI) setupUI() {
	loc := ui.localization
	ui.createMenu()

	ui.titleText = canvas.NewText(loc.GetText(KeyAppTitle), nil)
	ui.titleText.TextSize = TitleTextSize
	ui.titleText.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleText.Alignment = fyne.TextAlignCenter

	ui.inputLabel = widget.NewLabel(loc.GetText(KeyInputFile))
	ui.inputEntry = widget.NewEntry()
	ui.inputEntry.OnSubmitted = ui.onInputSelected
	ui.inputBrowseBtn = widget.NewButton(loc.GetText(KeyBrowse), ui.onBrowseInput)
	ui.allFilesCheck = widget.NewCheck(loc.GetText(KeyAllFiles), nil)

	ui.outputLabel = widget.NewLabel(loc.GetText(KeyOutputFile))
	ui.outputEntry = widget.NewEntry()
	ui.outputEntry.OnSubmitted = func(string) { ui.onConvertClick() }
	ui.outputBrowseBtn = widget.NewButton(loc.GetText(KeyBrowse), ui.onBrowseOutput)

	ui.convertBtn = widget.NewButton(loc.GetText(KeyConvert), ui.onConvertClick)
	ui.convertBtn.Importance = widget.HighImportance

	ui.busyBar = widget.NewProgressBarInfinite()
	ui.busyBar.Stop()
	ui.busyBar.Hide()

	ui.statusText = canvas.NewText("", nil)
	ui.statusText.TextSize = StatusTextSize
	ui.statusText.Alignment = fyne.TextAlignCenter
	ui.setStatus(statusReady)

	ui.infoEntry = widget.NewMultiLineEntry()
	ui.infoEntry.Wrapping = fyne.TextWrapWord
	ui.infoEntry.Disable()
	infoScroll := container.NewScroll(ui.infoEntry)
	infoScroll.SetMinSize(fyne.NewSize(0, InfoPanelMinHeight))
	ui.infoCard = widget.NewCard("", loc.GetText(KeyFileInformation), infoScroll)

	inputRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(ui.allFilesCheck, ui.inputBrowseBtn), ui.inputEntry)
	outputRow := container.NewBorder(nil, nil, nil, ui.outputBrowseBtn, ui.outputEntry)

	top := container.NewVBox(
		ui.titleText,
		ui.inputLabel,
		inputRow,
		ui.outputLabel,
		outputRow,
		container.NewCenter(ui.convertBtn),
		ui.busyBar,
		ui.statusText,
	)

	content := container.NewBorder(top, nil, nil, nil, ui.infoCard)
	ui.window.SetContent(container.NewPadded(content))

	log.Printf("UI setup completed successfully")
}

// createMenu creates the application menu
func (ui *MainUI) createMenu() {
	loc := ui.localization

	settingsItem := fyne.NewMenuItem(loc.GetText(KeySettings), ui.onShowSettings)
	revealItem := fyne.NewMenuItem(loc.GetText(KeyRevealLastOutput), ui.onRevealLastOutput)
	openItem := fyne.NewMenuItem(loc.GetText(KeyOpenLastOutput), ui.onOpenLastOutput)
	quitItem := fyne.NewMenuItem(loc.GetText(KeyQuit), func() {
		fyne.CurrentApp().Quit()
	})
	quitItem.IsQuit = true

	languageMenu := fyne.NewMenu(loc.GetText(KeyLanguage))
	available := loc.GetAvailableLanguages()
	codes := make([]string, 0, len(available))
	for code := range available {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = loc.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(loc.GetText(KeyFile), settingsItem, revealItem, openItem, fyne.NewMenuItemSeparator(), quitItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *MainUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *MainUI) refreshUITexts() {
	loc := ui.localization
	ui.window.SetTitle(loc.GetText(KeyAppTitle))
	ui.titleText.Text = loc.GetText(KeyAppTitle)
	ui.titleText.Refresh()
	ui.inputLabel.SetText(loc.GetText(KeyInputFile))
	ui.outputLabel.SetText(loc.GetText(KeyOutputFile))
	ui.inputBrowseBtn.SetText(loc.GetText(KeyBrowse))
	ui.outputBrowseBtn.SetText(loc.GetText(KeyBrowse))
	ui.allFilesCheck.Text = loc.GetText(KeyAllFiles)
	ui.allFilesCheck.Refresh()
	ui.convertBtn.SetText(loc.GetText(KeyConvert))
	ui.infoCard.SetSubTitle(loc.GetText(KeyFileInformation))
	ui.setStatus(ui.status)
}

// onShowSettings shows the settings dialog
func (ui *MainUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.applySettings)
}

// SetToolOverrides records the ffmpeg/ffprobe paths given on the command
// line so that saving settings does not replace them
func (ui *MainUI) SetToolOverrides(ffmpegPath, ffprobePath string) {
	ui.ffmpegOverride = strings.TrimSpace(ffmpegPath)
	ui.ffprobeOverride = strings.TrimSpace(ffprobePath)
}

// applySettings pushes saved settings into the engine, controller and UI
func (ui *MainUI) applySettings() {
	ffmpegPath := ui.ffmpegOverride
	if ffmpegPath == "" {
		ffmpegPath = ui.settings.GetFFmpegPath()
	}
	ffprobePath := ui.ffprobeOverride
	if ffprobePath == "" {
		ffprobePath = ui.settings.GetFFprobePath()
	}
	ffmpegPath = media.ResolveTool(ffmpegPath, media.FFmpegCommand)
	ffprobePath = media.ResolveTool(ffprobePath, media.FFprobeCommand)
	if ui.tools != nil {
		ui.tools.SetToolPaths(ffmpegPath, ffprobePath)
	}
	ui.controller.SetRetryTranscode(ui.settings.GetRetryTranscode())

	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(lang)
		ui.refreshUITexts()
		ui.createMenu()
	}
	log.Printf("Settings applied: ffmpeg=%s ffprobe=%s retry=%t", ffmpegPath, ffprobePath, ui.settings.GetRetryTranscode())
}

// setStatus updates the one-line status with the state's text and colour
func (ui *MainUI) setStatus(state statusState) {
	ui.status = state
	ui.statusText.Text = ui.localization.GetText(statusTextKey(state))
	ui.statusText.Color = themeColor(statusColorName(state))
	ui.statusText.Refresh()
}

// setBusy toggles the convert action and the busy indicator
func (ui *MainUI) setBusy(busy bool) {
	if busy {
		ui.convertBtn.Disable()
		ui.busyBar.Show()
		ui.busyBar.Start()
		ui.setStatus(statusConverting)
		return
	}
	ui.busyBar.Stop()
	ui.busyBar.Hide()
	ui.convertBtn.Enable()
}

// setInfo replaces the file information panel text
func (ui *MainUI) setInfo(text string) {
	ui.infoEntry.SetText(text)
}

// onBrowseInput opens the input file picker
func (ui *MainUI) onBrowseInput() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			log.Printf("Input dialog error: %v", err)
			dialog.ShowError(err, ui.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		ui.onInputSelected(path)
	}, ui.window)

	if !ui.allFilesCheck.Checked {
		fileDialog.SetFilter(storage.NewExtensionFileFilter(InputExtensions))
	}
	if dir := ui.settings.GetLastInputDirectory(); dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fileDialog.SetLocation(lister)
		}
	}
	fileDialog.Show()
}

// onBrowseOutput opens the MP3 save dialog
func (ui *MainUI) onBrowseOutput() {
	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			log.Printf("Output dialog error: %v", err)
			dialog.ShowError(err, ui.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		ui.onOutputSelected(path)
	}, ui.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(OutputExtensions))

	current := strings.TrimSpace(ui.outputEntry.Text)
	if current == "" {
		current = platform.DeriveOutputPath(ui.inputEntry.Text)
	}
	if current != "" {
		fileDialog.SetFileName(filepath.Base(current))
	}

	dir := platform.DefaultSaveDir(ui.inputEntry.Text)
	if current != "" && platform.DirExists(filepath.Dir(current)) {
		dir = filepath.Dir(current)
	}
	if dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fileDialog.SetLocation(lister)
		}
	}
	fileDialog.Show()
}

// onOutputSelected stores the path chosen in the save dialog
func (ui *MainUI) onOutputSelected(path string) {
	// The save dialog creates the file; an empty placeholder is removed so a
	// cancelled conversion leaves nothing behind
	if info, err := os.Stat(path); err == nil && info.Size() == 0 {
		if err := os.Remove(path); err != nil {
			log.Printf("Failed to remove placeholder %s: %v", path, err)
		}
	}

	if !strings.EqualFold(filepath.Ext(path), platform.OutputExtensionMP3) {
		path += platform.OutputExtensionMP3
	}
	ui.outputEntry.SetText(path)
	ui.suggestedOutput = ""
}

// onInputSelected derives the output suggestion, refreshes the info panel
// and starts watching the file
func (ui *MainUI) onInputSelected(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	log.Printf("Input selected: %s", path)

	ui.inputEntry.SetText(path)
	ui.settings.SetLastInputDirectory(filepath.Dir(path))

	current := strings.TrimSpace(ui.outputEntry.Text)
	if current == "" || current == ui.suggestedOutput {
		ui.suggestedOutput = platform.DeriveOutputPath(path)
		ui.outputEntry.SetText(ui.suggestedOutput)
	}

	ui.inspectInput(path)
	ui.watchInput(path)
}

// inspectInput reads metadata off the UI thread and shows it when it is
// still the latest request
func (ui *MainUI) inspectInput(path string) {
	ui.inspectSeq++
	seq := ui.inspectSeq

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), InspectTimeout)
		defer cancel()

		meta, err := ui.controller.Inspect(ctx, path)
		fyne.Do(func() {
			if seq != ui.inspectSeq {
				return
			}
			if err != nil {
				loc := ui.localization
				ui.setInfo(fmt.Sprintf("%s: %s\n\n%v", loc.GetText(KeyInfoReadError), loc.GetText(KeyUnreadableMediaMsg), err))
				return
			}
			ui.setInfo(formatMetadata(meta, ui.localization))
		})
	}()
}

// watchInput replaces the input watcher
func (ui *MainUI) watchInput(path string) {
	ui.stopWatching()

	w, err := watch.File(path)
	if err != nil {
		log.Printf("Not watching %s: %v", path, err)
		return
	}
	ui.watcher = w

	go func() {
		for event := range w.Events() {
			event := event
			fyne.Do(func() {
				if ui.watcher != w {
					return
				}
				ui.onInputEvent(event)
			})
		}
	}()
}

// onInputEvent refreshes the info panel after the input changed on disk
func (ui *MainUI) onInputEvent(event watch.Event) {
	log.Printf("Input %s %s", event.Path, event.Kind)
	if ui.status == statusConverting {
		return
	}
	switch event.Kind {
	case watch.Removed:
		ui.inspectSeq++
		ui.setInfo(ui.localization.GetText(KeyInfoInputRemoved))
	case watch.Changed:
		ui.inspectInput(ui.inputEntry.Text)
	}
}

// stopWatching closes the current input watcher, if any
func (ui *MainUI) stopWatching() {
	if ui.watcher == nil {
		return
	}
	if err := ui.watcher.Close(); err != nil {
		log.Printf("Failed to close watcher: %v", err)
	}
	ui.watcher = nil
}

// onConvertClick validates through the controller and dispatches the worker
func (ui *MainUI) onConvertClick() {
	req := model.NewConversionRequest(ui.inputEntry.Text, ui.outputEntry.Text)
	log.Printf("Convert requested: input=%s output=%s", req.InputPath, req.OutputPath)

	results, err := ui.controller.Start(req)
	if err != nil {
		if convert.KindOf(err) == convert.KindAlreadyRunning {
			dialog.ShowInformation(ui.localization.GetText(KeyError), ui.localization.GetText(KeyConversionRunning), ui.window)
			return
		}
		ui.setStatus(statusFailed)
		dialog.ShowError(err, ui.window)
		return
	}

	ui.setBusy(true)
	go ui.awaitResult(results)
}

// awaitResult drains the worker channel and applies results on the UI thread
func (ui *MainUI) awaitResult(results <-chan model.ConversionResult) {
	for result := range results {
		result := result
		log.Printf("Conversion result received: id=%s status=%s elapsed=%s", result.ID, result.Status, result.Elapsed())
		fyne.Do(func() {
			ui.applyResult(result)
		})
	}
}

// applyResult renders a finished conversion and acknowledges it
func (ui *MainUI) applyResult(result model.ConversionResult) {
	defer ui.controller.Acknowledge()
	ui.setBusy(false)

	if !result.Succeeded() {
		ui.setStatus(statusFailed)
		ui.setInfo(buildErrorReport(result.Err, nil, ui.localization))
		ui.showConversionError(result.Err)
		return
	}

	ui.setStatus(statusSucceeded)
	ui.lastOutput = result.Request.OutputPath
	ui.setInfo(ui.infoEntry.Text + formatOutputSize(result, ui.localization))

	loc := ui.localization
	message := fmt.Sprintf("%s\n%s: %s", loc.GetText(KeyConversionDone), loc.GetText(KeyFileSavedAs), result.Request.OutputPath)
	dialog.ShowInformation(loc.GetText(KeySuccess), message, ui.window)

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   loc.GetText(KeyConversionDone),
		Content: filepath.Base(result.Request.OutputPath),
	})

	if ui.settings.GetAutoRevealOnComplete() {
		log.Printf("Auto-revealing completed conversion %s: %s", result.ID, result.Request.OutputPath)
		ui.revealFile(result.Request.OutputPath)
	}
}

// showConversionError shows the error with its transcript and system information
func (ui *MainUI) showConversionError(err error) {
	var diagnostics []string
	if ui.tools != nil {
		diagnostics = ui.tools.Diagnostics()
	}
	report := buildErrorReport(err, diagnostics, ui.localization)
	log.Printf("Conversion error shown to user: %v", err)

	details := widget.NewMultiLineEntry()
	details.SetText(report)
	details.Wrapping = fyne.TextWrapWord

	heading := widget.NewLabel(ui.localization.GetText(KeyFailedToConvert) + ":")
	content := container.NewBorder(heading, nil, nil, nil, container.NewScroll(details))

	d := dialog.NewCustom(ui.localization.GetText(KeyConversionError), "OK", content, ui.window)
	d.Resize(fyne.NewSize(ErrorDialogWidth, ErrorDialogHeight))
	d.Show()
}

// lastOutputKey returns the message to show instead of acting on the last
// output, or "" when the file is still there
func (ui *MainUI) lastOutputKey() string {
	if ui.lastOutput == "" {
		return KeyNoOutputYet
	}
	if !platform.FileExists(ui.lastOutput) {
		return KeyOutputMissing
	}
	return ""
}

// onRevealLastOutput reveals the most recent MP3 in the file manager
func (ui *MainUI) onRevealLastOutput() {
	if key := ui.lastOutputKey(); key != "" {
		dialog.ShowInformation(ui.localization.GetText(KeyRevealLastOutput), ui.localization.GetText(key), ui.window)
		return
	}
	ui.revealFile(ui.lastOutput)
}

// onOpenLastOutput plays the most recent MP3 with the system default app
func (ui *MainUI) onOpenLastOutput() {
	if key := ui.lastOutputKey(); key != "" {
		dialog.ShowInformation(ui.localization.GetText(KeyOpenLastOutput), ui.localization.GetText(key), ui.window)
		return
	}
	if err := platform.OpenFileWithDefaultApp(ui.lastOutput); err != nil {
		log.Printf("Error opening file %s: %v", ui.lastOutput, err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
		return
	}
	log.Printf("File opened successfully: %s", ui.lastOutput)
}

// revealFile handles revealing a file in the system file manager
func (ui *MainUI) revealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		log.Printf("Error revealing file %s: %v", filePath, err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
		return
	}
	log.Printf("File revealed successfully: %s", filePath)
}

// ShowStartupError shows why the engine could not be used. onClosed runs
// when the dialog is dismissed.
func (ui *MainUI) ShowStartupError(err error, onClosed func()) {
	ui.convertBtn.Disable()
	ui.setStatus(statusFailed)

	var diagnostics []string
	if ui.tools != nil {
		diagnostics = ui.tools.Diagnostics()
	}
	text := ui.localization.GetText(KeyFFmpegMissing) + "\n\n" + buildErrorReport(err, diagnostics, ui.localization)
	ui.setInfo(text)

	d := dialog.NewInformation(ui.localization.GetText(KeyStartupError), ui.localization.GetText(KeyFFmpegMissing), ui.window)
	d.SetOnClosed(onClosed)
	d.Show()
}

// Close releases background resources held by the window
func (ui *MainUI) Close() {
	ui.stopWatching()
}
