package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyInputFile          = "input_file"
	KeyOutputFile         = "output_file"
	KeyBrowse             = "browse"
	KeyAllFiles           = "all_files"
	KeyConvert            = "convert"
	KeyFileInformation    = "file_information"
	KeyStatusReady        = "status_ready"
	KeyStatusConverting   = "status_converting"
	KeyStatusSuccess      = "status_success"
	KeyStatusFailed       = "status_failed"
	KeySuccess            = "success"
	KeyConversionDone     = "conversion_done"
	KeyFileSavedAs        = "file_saved_as"
	KeyConversionError    = "conversion_error"
	KeyFailedToConvert    = "failed_to_convert"
	KeySystemInformation  = "system_information"
	KeyError              = "error"
	KeyInfoFile           = "info_file"
	KeyInfoSize           = "info_size"
	KeyInfoDuration       = "info_duration"
	KeyInfoResolution     = "info_resolution"
	KeyInfoFPS            = "info_fps"
	KeyInfoHasAudio       = "info_has_audio"
	KeyInfoAudioCodec     = "info_audio_codec"
	KeyInfoVideoCodec     = "info_video_codec"
	KeyInfoContainer      = "info_container"
	KeyInfoOutputSize     = "info_output_size"
	KeyInfoReadError      = "info_read_error"
	KeyInfoInputRemoved   = "info_input_removed"
	KeyYes                = "yes"
	KeyNo                 = "no"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyQuit               = "quit"
	KeyRevealLastOutput   = "reveal_last_output"
	KeyNoOutputYet        = "no_output_yet"
	KeyOpenLastOutput     = "open_last_output"
	KeyOutputMissing      = "output_missing"
	KeyErrorOpeningFile   = "error_opening_file"
	KeyFFmpegPath         = "ffmpeg_path"
	KeyFFprobePath        = "ffprobe_path"
	KeyAutoDetect         = "auto_detect"
	KeyRetryTranscode     = "retry_transcode"
	KeyAutoReveal         = "auto_reveal"
	KeyToolsSection       = "tools_section"
	KeyConversionSection  = "conversion_section"
	KeyInterfaceSection   = "interface_section"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeySettingsSaved      = "settings_saved"
	KeyStartupError       = "startup_error"
	KeyFFmpegMissing      = "ffmpeg_missing"
	KeyConversionRunning  = "conversion_running"
	KeyUnreadableMediaMsg = "unreadable_media"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "MP4 to MP3 Converter",
		KeyInputFile:          "Input MP4 File:",
		KeyOutputFile:         "Output MP3 File:",
		KeyBrowse:             "Browse",
		KeyAllFiles:           "All files",
		KeyConvert:            "Convert to MP3",
		KeyFileInformation:    "File Information",
		KeyStatusReady:        "Ready to convert",
		KeyStatusConverting:   "Converting...",
		KeyStatusSuccess:      "Conversion completed successfully!",
		KeyStatusFailed:       "Conversion failed",
		KeySuccess:            "Success",
		KeyConversionDone:     "Conversion completed!",
		KeyFileSavedAs:        "File saved as",
		KeyConversionError:    "Conversion Error",
		KeyFailedToConvert:    "Failed to convert file",
		KeySystemInformation:  "System Information",
		KeyError:              "Error",
		KeyInfoFile:           "File",
		KeyInfoSize:           "Size",
		KeyInfoDuration:       "Duration",
		KeyInfoResolution:     "Resolution",
		KeyInfoFPS:            "FPS",
		KeyInfoHasAudio:       "Has Audio",
		KeyInfoAudioCodec:     "Audio Codec",
		KeyInfoVideoCodec:     "Video Codec",
		KeyInfoContainer:      "Container",
		KeyInfoOutputSize:     "Output MP3 Size",
		KeyInfoReadError:      "Error reading file info",
		KeyInfoInputRemoved:   "The input file was removed from disk",
		KeyYes:                "Yes",
		KeyNo:                 "No",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyQuit:               "Quit",
		KeyRevealLastOutput:   "Reveal Last Output",
		KeyNoOutputYet:        "No file has been converted yet",
		KeyOpenLastOutput:     "Open Last Output",
		KeyOutputMissing:      "The last converted file no longer exists",
		KeyErrorOpeningFile:   "Error opening file",
		KeyFFmpegPath:         "FFmpeg executable:",
		KeyFFprobePath:        "FFprobe executable:",
		KeyAutoDetect:         "Auto-detect",
		KeyRetryTranscode:     "Retry once if conversion fails",
		KeyAutoReveal:         "Reveal the MP3 when conversion completes",
		KeyToolsSection:       "Media Tools",
		KeyConversionSection:  "Conversion",
		KeyInterfaceSection:   "Interface Settings",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeySettingsSaved:      "Settings saved successfully!",
		KeyStartupError:       "Startup Error",
		KeyFFmpegMissing:      "FFmpeg could not be started. Install FFmpeg or set its location in Settings, then restart the application.",
		KeyConversionRunning:  "A conversion is already running",
		KeyUnreadableMediaMsg: "The selected file could not be read as a video",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Конвертер MP4 в MP3",
		KeyInputFile:          "Входной файл MP4:",
		KeyOutputFile:         "Выходной файл MP3:",
		KeyBrowse:             "Обзор",
		KeyAllFiles:           "Все файлы",
		KeyConvert:            "Конвертировать в MP3",
		KeyFileInformation:    "Информация о файле",
		KeyStatusReady:        "Готов к конвертации",
		KeyStatusConverting:   "Конвертация...",
		KeyStatusSuccess:      "Конвертация успешно завершена!",
		KeyStatusFailed:       "Ошибка конвертации",
		KeySuccess:            "Готово",
		KeyConversionDone:     "Конвертация завершена!",
		KeyFileSavedAs:        "Файл сохранён как",
		KeyConversionError:    "Ошибка конвертации",
		KeyFailedToConvert:    "Не удалось конвертировать файл",
		KeySystemInformation:  "Информация о системе",
		KeyError:              "Ошибка",
		KeyInfoFile:           "Файл",
		KeyInfoSize:           "Размер",
		KeyInfoDuration:       "Длительность",
		KeyInfoResolution:     "Разрешение",
		KeyInfoFPS:            "Кадров/с",
		KeyInfoHasAudio:       "Есть звук",
		KeyInfoAudioCodec:     "Аудиокодек",
		KeyInfoVideoCodec:     "Видеокодек",
		KeyInfoContainer:      "Контейнер",
		KeyInfoOutputSize:     "Размер MP3",
		KeyInfoReadError:      "Ошибка чтения информации о файле",
		KeyInfoInputRemoved:   "Входной файл был удалён с диска",
		KeyYes:                "Да",
		KeyNo:                 "Нет",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyQuit:               "Выход",
		KeyRevealLastOutput:   "Показать последний файл",
		KeyNoOutputYet:        "Ещё ни один файл не сконвертирован",
		KeyOpenLastOutput:     "Открыть последний файл",
		KeyOutputMissing:      "Последний сконвертированный файл больше не существует",
		KeyErrorOpeningFile:   "Ошибка открытия файла",
		KeyFFmpegPath:         "Исполняемый файл FFmpeg:",
		KeyFFprobePath:        "Исполняемый файл FFprobe:",
		KeyAutoDetect:         "Автоопределение",
		KeyRetryTranscode:     "Повторить один раз при ошибке",
		KeyAutoReveal:         "Показать MP3 после конвертации",
		KeyToolsSection:       "Медиаинструменты",
		KeyConversionSection:  "Конвертация",
		KeyInterfaceSection:   "Настройки интерфейса",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeySettingsSaved:      "Настройки успешно сохранены!",
		KeyStartupError:       "Ошибка запуска",
		KeyFFmpegMissing:      "Не удалось запустить FFmpeg. Установите FFmpeg или укажите путь в настройках и перезапустите приложение.",
		KeyConversionRunning:  "Конвертация уже выполняется",
		KeyUnreadableMediaMsg: "Выбранный файл не удалось прочитать как видео",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Conversor de MP4 para MP3",
		KeyInputFile:          "Arquivo MP4 de entrada:",
		KeyOutputFile:         "Arquivo MP3 de saída:",
		KeyBrowse:             "Navegar",
		KeyAllFiles:           "Todos os arquivos",
		KeyConvert:            "Converter para MP3",
		KeyFileInformation:    "Informações do Arquivo",
		KeyStatusReady:        "Pronto para converter",
		KeyStatusConverting:   "Convertendo...",
		KeyStatusSuccess:      "Conversão concluída com sucesso!",
		KeyStatusFailed:       "Falha na conversão",
		KeySuccess:            "Sucesso",
		KeyConversionDone:     "Conversão concluída!",
		KeyFileSavedAs:        "Arquivo salvo como",
		KeyConversionError:    "Erro de Conversão",
		KeyFailedToConvert:    "Falha ao converter o arquivo",
		KeySystemInformation:  "Informações do Sistema",
		KeyError:              "Erro",
		KeyInfoFile:           "Arquivo",
		KeyInfoSize:           "Tamanho",
		KeyInfoDuration:       "Duração",
		KeyInfoResolution:     "Resolução",
		KeyInfoFPS:            "FPS",
		KeyInfoHasAudio:       "Tem Áudio",
		KeyInfoAudioCodec:     "Codec de Áudio",
		KeyInfoVideoCodec:     "Codec de Vídeo",
		KeyInfoContainer:      "Contêiner",
		KeyInfoOutputSize:     "Tamanho do MP3",
		KeyInfoReadError:      "Erro ao ler informações do arquivo",
		KeyInfoInputRemoved:   "O arquivo de entrada foi removido do disco",
		KeyYes:                "Sim",
		KeyNo:                 "Não",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyQuit:               "Sair",
		KeyRevealLastOutput:   "Mostrar Último Arquivo",
		KeyNoOutputYet:        "Nenhum arquivo foi convertido ainda",
		KeyOpenLastOutput:     "Abrir Último Arquivo",
		KeyOutputMissing:      "O último arquivo convertido não existe mais",
		KeyErrorOpeningFile:   "Erro ao abrir arquivo",
		KeyFFmpegPath:         "Executável do FFmpeg:",
		KeyFFprobePath:        "Executável do FFprobe:",
		KeyAutoDetect:         "Detectar automaticamente",
		KeyRetryTranscode:     "Tentar novamente uma vez em caso de falha",
		KeyAutoReveal:         "Mostrar o MP3 ao concluir a conversão",
		KeyToolsSection:       "Ferramentas de Mídia",
		KeyConversionSection:  "Conversão",
		KeyInterfaceSection:   "Configurações de Interface",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeySettingsSaved:      "Configurações salvas com sucesso!",
		KeyStartupError:       "Erro de Inicialização",
		KeyFFmpegMissing:      "Não foi possível iniciar o FFmpeg. Instale o FFmpeg ou defina o caminho nas Configurações e reinicie o aplicativo.",
		KeyConversionRunning:  "Uma conversão já está em andamento",
		KeyUnreadableMediaMsg: "O arquivo selecionado não pôde ser lido como vídeo",
	}
}
