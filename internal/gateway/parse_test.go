package gateway

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"peerprep/interview/internal/models"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q%d", n)
	}
}

func assertTemplate(t *testing.T, questions []models.Question) {
	t.Helper()
	if len(questions) != models.QuestionsPerInterview {
		t.Fatalf("expected %d questions, got %d", models.QuestionsPerInterview, len(questions))
	}
	for i, q := range questions {
		want := models.QuestionTemplate[i]
		if q.Difficulty != want {
			t.Fatalf("slot %d: expected %s, got %s", i, want, q.Difficulty)
		}
		policy := want.Policy()
		if q.DurationSec != policy.DurationSec || q.MaxPoints != policy.MaxPoints {
			t.Fatalf("slot %d: policy mismatch %+v", i, q)
		}
	}
}

func TestParseQuestions_WellFormed(t *testing.T) {
	reply := strings.Join([]string{
		"easy|What keyword declares a constant in Go? (one word)",
		"Easy | Which command formats Go code? (one word)",
		"medium|Explain how a buffered channel differs from an unbuffered one.",
		"MEDIUM|How does context cancellation propagate?",
		"hard|Design a rate limiter for a multi-tenant API.",
		"hard|How would you shard a write-heavy Postgres table?",
	}, "\n")

	questions, err := ParseQuestions(reply, sequentialIDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTemplate(t, questions)
	if questions[1].Text != "Which command formats Go code? (one word)" {
		t.Fatalf("unexpected text: %q", questions[1].Text)
	}
	if questions[0].ID != "q1" || questions[5].ID != "q6" {
		t.Fatalf("unexpected ids: %s..%s", questions[0].ID, questions[5].ID)
	}
}

func TestParseQuestions_ReordersByDifficulty(t *testing.T) {
	reply := "hard|H1\nmedium|M1\neasy|E1\r\nhard|H2\n\n  easy|E2  \nmedium|M2\n"

	questions, err := ParseQuestions(reply, sequentialIDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTemplate(t, questions)

	got := make([]string, len(questions))
	for i, q := range questions {
		got[i] = q.Text
	}
	want := "E1,E2,M1,M2,H1,H2"
	if strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %s", want, strings.Join(got, ","))
	}
}

func TestParseQuestions_BackfillsFromLeftovers(t *testing.T) {
	reply := "easy|E1\neasy|E2\neasy|E3\nmedium|M1\nhard|H1\nhard|H2\nhard|H3"

	questions, err := ParseQuestions(reply, sequentialIDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTemplate(t, questions)

	if questions[3].Text != "E3" {
		t.Fatalf("expected the first leftover to fill the missing medium slot, got %q", questions[3].Text)
	}
	if questions[3].MaxPoints != 15 {
		t.Fatalf("backfilled slot must use the slot's policy, got %d", questions[3].MaxPoints)
	}
}

func TestParseQuestions_FallsBackToRawLines(t *testing.T) {
	reply := "Here are your questions:\n1. What is a goroutine?\n2) What is a mutex?\n- What is a channel?\n• What is select?\n* What is defer?"

	questions, err := ParseQuestions(reply, sequentialIDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTemplate(t, questions)

	want := []string{
		"Here are your questions:",
		"What is a goroutine?",
		"What is a mutex?",
		"What is a channel?",
		"What is select?",
		"What is defer?",
	}
	for i := range want {
		if questions[i].Text != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], questions[i].Text)
		}
	}
}

func TestParseQuestions_TooFew(t *testing.T) {
	_, err := ParseQuestions("easy|one\nmedium|two\n\nthree", sequentialIDs())
	if !errors.Is(err, ErrTooFewQuestions) {
		t.Fatalf("expected ErrTooFewQuestions, got %v", err)
	}
	if _, err := ParseQuestions("", sequentialIDs()); !errors.Is(err, ErrTooFewQuestions) {
		t.Fatalf("expected ErrTooFewQuestions for empty reply, got %v", err)
	}
}

func TestParseGrade(t *testing.T) {
	hard := models.NewQuestion("h", models.DifficultyHard, "design")

	tests := []struct {
		name     string
		reply    string
		score    int
		points   int
		feedback string
		fallback bool
	}{
		{"plain json", `{"score": 8, "feedback": "Solid."}`, 8, 20, "Solid.", false},
		{"wrapped in prose", "Sure! ```json\n{\"score\": 6.5, \"feedback\": \"OK\"}\n``` hope it helps", 7, 18, "OK", false},
		{"clamped high", `{"score": 14}`, 10, 25, "Good answer.", false},
		{"clamped low", `{"score": -3, "feedback": "No."}`, 0, 0, "No.", false},
		{"string score", `{"score": "9", "feedback": "Great"}`, 9, 23, "Great", false},
		{"missing score", `{"feedback": "Hmm"}`, 7, 18, "Hmm", false},
		{"no json", `I would give this a 9`, 7, 18, "Reasonable answer.", true},
		{"broken json", `{"score": 9, "feedback": }`, 7, 18, "Reasonable answer.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grade := ParseGrade(tt.reply, &hard)
			if grade.Score != tt.score || grade.Points != tt.points || grade.Feedback != tt.feedback || grade.Fallback != tt.fallback {
				t.Fatalf("unexpected grade: %+v", grade)
			}
			if grade.MaxPoints != 25 || grade.QuestionID != "h" {
				t.Fatalf("unexpected grade metadata: %+v", grade)
			}
		})
	}
}

func TestDefaultGrade(t *testing.T) {
	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		q := models.NewQuestion("x", d, "t")
		grade := DefaultGrade(&q)
		want := map[models.Difficulty]int{
			models.DifficultyEasy:   7,
			models.DifficultyMedium: 11,
			models.DifficultyHard:   18,
		}[d]
		if grade.Score != 7 || grade.Points != want || grade.Feedback != "Reasonable answer." {
			t.Fatalf("%s: unexpected default grade %+v", d, grade)
		}
	}

	legacy := models.Question{ID: "legacy"}
	if grade := DefaultGrade(&legacy); grade.Points != 7 || grade.MaxPoints != 10 {
		t.Fatalf("expected legacy max of 10, got %+v", grade)
	}
}

func TestScoreLine(t *testing.T) {
	p := func(v int) *int { return &v }

	pointQs := []models.Question{
		{MaxPoints: 10, Points: p(7)},
		{MaxPoints: 15},
	}
	if got := ScoreLine(pointQs); got != "Q1(7/10), Q2(0/15)" {
		t.Fatalf("unexpected points line: %q", got)
	}

	legacyQs := []models.Question{{Score: p(6)}, {}}
	if got := ScoreLine(legacyQs); got != "Q1(6/10), Q2(0/10)" {
		t.Fatalf("unexpected legacy line: %q", got)
	}
}

func TestCleanSummaryAndFallback(t *testing.T) {
	if got := CleanSummary("  \"Strong systems thinking.\"\n"); got != "Strong systems thinking." {
		t.Fatalf("unexpected cleaned summary: %q", got)
	}
	long := CleanSummary(strings.Repeat("a", 400))
	if len([]rune(long)) > 280 || !strings.HasSuffix(long, "...") {
		t.Fatalf("expected summary capped at 280 characters, got %d", len(long))
	}

	if got := FallbackSummary("Ada", 83); got != "Candidate Ada scored 83." {
		t.Fatalf("unexpected fallback: %q", got)
	}
	if got := FallbackSummary("", 40); got != "Candidate scored 40." {
		t.Fatalf("unexpected anonymous fallback: %q", got)
	}
}
