package domain

// ReadStatus is the user-assigned shelf for a library entry. It is
// independent of the upstream publication status.
type ReadStatus string

const (
	ReadStatusReading    ReadStatus = "reading"
	ReadStatusCompleted  ReadStatus = "completed"
	ReadStatusPlanToRead ReadStatus = "plan_to_read"
	ReadStatusDropped    ReadStatus = "dropped"
)

// LibraryEntry is a persisted library row. Unique by ID.
type LibraryEntry struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Cover         string     `json:"cover"`
	Status        ReadStatus `json:"status"`
	APIStatus     string     `json:"apiStatus,omitempty"` // Upstream status ("releasing", "finished", ...)
	Rating        float64    `json:"rating,omitempty"`
	Year          int        `json:"year,omitempty"`
	Type          string     `json:"type,omitempty"`
	TotalChapters int        `json:"totalChapters,omitempty"`
	UpdatedAt     int64      `json:"updatedAt"` // Unix millis, used for sorting
}

// HistoryEntry records the last-read position for a manga. History holds at
// most one entry per MangaID, ordered most-recent-first.
type HistoryEntry struct {
	MangaID      string `json:"mangaId"`
	MangaTitle   string `json:"mangaTitle"`
	MangaCover   string `json:"mangaCover"`
	ChapterID    string `json:"chapterId"`
	ChapterTitle string `json:"chapterTitle"`
	Page         int    `json:"page"`
	ReadAt       int64  `json:"readAt"` // Unix millis
}

// SettingsVersion is bumped when the settings shape changes so imports from
// older snapshots stay well-defined.
const SettingsVersion = 1

// Settings holds reader preferences. Unknown fields in imported documents
// are dropped by typed decoding; missing fields keep their defaults.
type Settings struct {
	Version         int    `json:"version"`
	IncludeNSFW     bool   `json:"includeNSFW"`
	ReaderMode      string `json:"readerMode"` // "webtoon", "single", "double"
	DefaultLanguage string `json:"defaultLanguage"`
	DataSaver       bool   `json:"dataSaver"`
	GPUAcceleration bool   `json:"gpuAcceleration"`
}

// DefaultSettings returns the fixed settings defaults
func DefaultSettings() Settings {
	return Settings{
		Version:         SettingsVersion,
		IncludeNSFW:     false,
		ReaderMode:      "webtoon",
		DefaultLanguage: "en",
		DataSaver:       false,
		GPUAcceleration: true,
	}
}

// SettingsPatch is a partial settings update. Nil fields are left untouched
// by Merge, so callers can change one preference without knowing the rest.
type SettingsPatch struct {
	IncludeNSFW     *bool   `json:"includeNSFW,omitempty"`
	ReaderMode      *string `json:"readerMode,omitempty"`
	DefaultLanguage *string `json:"defaultLanguage,omitempty"`
	DataSaver       *bool   `json:"dataSaver,omitempty"`
	GPUAcceleration *bool   `json:"gpuAcceleration,omitempty"`
}

// Merge applies a patch on top of s and returns the result
func (s Settings) Merge(p SettingsPatch) Settings {
	out := s
	out.Version = SettingsVersion
	if p.IncludeNSFW != nil {
		out.IncludeNSFW = *p.IncludeNSFW
	}
	if p.ReaderMode != nil {
		out.ReaderMode = *p.ReaderMode
	}
	if p.DefaultLanguage != nil {
		out.DefaultLanguage = *p.DefaultLanguage
	}
	if p.DataSaver != nil {
		out.DataSaver = *p.DataSaver
	}
	if p.GPUAcceleration != nil {
		out.GPUAcceleration = *p.GPUAcceleration
	}
	return out
}

// Snapshot is the persisted local state written wholesale on every mutation
// and produced verbatim by Export.
type Snapshot struct {
	Library  []LibraryEntry `json:"library"`
	History  []HistoryEntry `json:"history"`
	Settings Settings       `json:"settings"`
}
