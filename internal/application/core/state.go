package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/core/timeline"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
)

// SessionState is everything derived from one bootstrap. It is replaced
// as a whole; nothing survives a Reset.
type SessionState struct {
	ID         string
	LoadedAt   time.Time
	Sources    []EntrySource
	Presenters []*viewer.Presenter
	Timeline   timeline.Result

	current  *model.Timestamp
	snapshot model.Snapshot
}

func newSessionState(sources []EntrySource, presenters []*viewer.Presenter, tl timeline.Result) *SessionState {
	return &SessionState{
		ID:         uuid.New().String(),
		LoadedAt:   time.Now(),
		Sources:    sources,
		Presenters: presenters,
		Timeline:   tl,
		snapshot:   model.Snapshot{},
	}
}

// Reset discards all derived state
func (s *SessionState) Reset() {
	*s = SessionState{snapshot: model.Snapshot{}}
}

// IsLoaded reports whether a bootstrap has succeeded since the last reset
func (s *SessionState) IsLoaded() bool {
	return s.ID != ""
}
