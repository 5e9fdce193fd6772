package models

// Candidate statuses
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Account roles
const (
	RoleInterviewee = "interviewee"
	RoleInterviewer = "interviewer"
)

// Chat message roles
const (
	ChatRoleSystem = "system"
	ChatRoleAI     = "ai"
	ChatRoleUser   = "user"
	ChatRoleMeta   = "meta"
)

// Interview sources
const (
	SourceResume = "resume"
	SourceForm   = "form"
)

// Interview end reasons
const (
	EndReasonAnswered = "answered"
	EndReasonManual   = "manual"
	EndReasonTimeout  = "timeout"
)

// QuestionsPerInterview is the fixed length of every interview.
const QuestionsPerInterview = 6
