package models

import "time"

type Interview struct {
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"currentIndex"`
	Complete     bool       `json:"complete"`
	CreatedAt    time.Time  `json:"createdAt"`
	JobRole      string     `json:"jobRole,omitempty"`
	TestID       string     `json:"testId,omitempty"`
	Source       string     `json:"source,omitempty"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	EndReason    string     `json:"endReason,omitempty"`
	FinalizedAt  *time.Time `json:"finalizedAt,omitempty"`
}

// InterviewMeta carries the optional descriptive fields set at initialisation.
type InterviewMeta struct {
	JobRole string
	TestID  string
	Source  string
}

// CurrentQuestion returns the question at CurrentIndex, or nil once complete.
func (iv *Interview) CurrentQuestion() *Question {
	if iv.CurrentIndex < 0 || iv.CurrentIndex >= len(iv.Questions) {
		return nil
	}
	return &iv.Questions[iv.CurrentIndex]
}

// FindQuestion returns the index of the question with the given id, or -1.
func (iv *Interview) FindQuestion(id string) int {
	for i := range iv.Questions {
		if iv.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to hand out of a locked section.
func (iv *Interview) Clone() *Interview {
	if iv == nil {
		return nil
	}
	out := *iv
	out.Questions = make([]Question, len(iv.Questions))
	copy(out.Questions, iv.Questions)
	return &out
}
