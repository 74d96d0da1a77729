// Package session keeps the per-user conversation state for the export flow.
package session

import (
	"github.com/parsertg/parsertg/internal/catalog"
	"github.com/parsertg/parsertg/internal/texts"
)

// Stage is the position of a user inside the export conversation.
type Stage int

const (
	StageInit Stage = iota
	StageAwaitingLocale
	StageAwaitingDatasetType
	StageAwaitingCategory
	StageAwaitingCount
	StageAwaitingFormat
	StageHome
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageAwaitingLocale:
		return "awaiting_locale"
	case StageAwaitingDatasetType:
		return "awaiting_dataset_type"
	case StageAwaitingCategory:
		return "awaiting_category"
	case StageAwaitingCount:
		return "awaiting_count"
	case StageAwaitingFormat:
		return "awaiting_format"
	case StageHome:
		return "home"
	}
	return "unknown"
}

// Session holds one user's accumulated choices. RecordLimit is zero until
// chosen; export.AllRecords means the whole dataset.
type Session struct {
	Locale              texts.Locale
	Stage               Stage
	DatasetType         catalog.DatasetType
	Category            string
	RecordLimit         int
	AwaitingManualCount bool
}

// SetDatasetType stores the dataset type and clears every downstream choice,
// so a user who goes back and picks again never exports stale selections.
func (s *Session) SetDatasetType(dt catalog.DatasetType) {
	s.DatasetType = dt
	s.Category = ""
	s.RecordLimit = 0
	s.AwaitingManualCount = false
}

// SetCategory stores the category and clears downstream choices.
func (s *Session) SetCategory(key string) {
	s.Category = key
	s.RecordLimit = 0
	s.AwaitingManualCount = false
}

// Reset returns the session to the home screen, keeping only the locale.
func (s *Session) Reset() {
	locale := s.Locale
	*s = Session{Locale: locale, Stage: StageHome}
}
