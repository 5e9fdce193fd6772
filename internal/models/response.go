package models

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// Grade is the outcome of scoring one answer.
type Grade struct {
	QuestionID string `json:"questionId"`
	Score      int    `json:"score"`
	Points     int    `json:"points"`
	MaxPoints  int    `json:"maxPoints"`
	Feedback   string `json:"feedback"`
	Fallback   bool   `json:"fallback,omitempty"`
}

type InterviewResponse struct {
	CandidateID string        `json:"candidateId"`
	Interview   *Interview    `json:"interview"`
	Messages    []ChatMessage `json:"messages,omitempty"`
}

type AnswerResponse struct {
	CandidateID string     `json:"candidateId"`
	Interview   *Interview `json:"interview"`
	Grade       *Grade     `json:"grade,omitempty"`
	FinalScore  *int       `json:"finalScore,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Warning     string     `json:"warning,omitempty"`
}

type CandidateResponse struct {
	Candidate CandidateProfile `json:"candidate"`
	Updated   bool             `json:"updated"`
}

type SessionResponse struct {
	User              *PublicUser `json:"user,omitempty"`
	ActiveCandidateID string      `json:"activeCandidateId,omitempty"`
	CurrentTestID     string      `json:"currentTestId,omitempty"`
	ResumeAvailable   bool        `json:"resumeAvailable"`
	ShowWelcomeBack   bool        `json:"showWelcomeBack"`
}
