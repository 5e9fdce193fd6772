package gateway

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"peerprep/interview/internal/models"
)

const (
	defaultScore         = 7
	defaultFeedback      = "Good answer."
	fallbackFeedback     = "Reasonable answer."
	legacyMaxPoints      = 10
	maxSummaryCharacters = 280
)

var (
	questionLinePattern = regexp.MustCompile(`(?i)^(easy|medium|hard)\s*\|\s*(.+)$`)
	listMarkerPattern   = regexp.MustCompile(`^(?:[-•*]+|\d+[.)]|\s)+`)
	lineSplitPattern    = regexp.MustCompile(`\r?\n`)
)

// ErrTooFewQuestions is returned when a reply cannot yield a full interview.
var ErrTooFewQuestions = errors.New("model reply did not contain 6 questions")

type draftQuestion struct {
	difficulty models.Difficulty
	text       string
}

// ParseQuestions turns a model reply into the six interview questions.
// Strict "difficulty|question" lines are preferred; when fewer than six parse,
// the first six raw lines are used instead. Each slot takes the template's
// difficulty so durations and points always follow the fixed order.
func ParseQuestions(content string, newID func() string) ([]models.Question, error) {
	lines := nonEmptyLines(content)

	var parsed []draftQuestion
	for _, line := range lines {
		m := questionLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		if text == "" {
			continue
		}
		parsed = append(parsed, draftQuestion{
			difficulty: models.Difficulty(strings.ToLower(m[1])),
			text:       text,
		})
	}

	var texts []string
	if len(parsed) < models.QuestionsPerInterview {
		for _, line := range lines {
			stripped := strings.TrimSpace(listMarkerPattern.ReplaceAllString(line, ""))
			if stripped == "" {
				continue
			}
			texts = append(texts, stripped)
			if len(texts) == models.QuestionsPerInterview {
				break
			}
		}
		if len(texts) < models.QuestionsPerInterview {
			return nil, ErrTooFewQuestions
		}
	} else {
		texts = arrangeByDifficulty(parsed)
	}

	questions := make([]models.Question, 0, models.QuestionsPerInterview)
	for i, text := range texts {
		questions = append(questions, models.NewQuestion(newID(), models.QuestionTemplate[i], text))
	}
	return questions, nil
}

// arrangeByDifficulty fills the template slots from matching buckets in reply
// order, then backfills empty slots with the leftovers.
func arrangeByDifficulty(parsed []draftQuestion) []string {
	used := make([]bool, len(parsed))
	slots := make([]string, models.QuestionsPerInterview)

	for i, want := range models.QuestionTemplate {
		for j := range parsed {
			if !used[j] && parsed[j].difficulty == want {
				used[j] = true
				slots[i] = parsed[j].text
				break
			}
		}
	}

	next := 0
	for i := range slots {
		if slots[i] != "" {
			continue
		}
		for next < len(parsed) && used[next] {
			next++
		}
		if next < len(parsed) {
			used[next] = true
			slots[i] = parsed[next].text
		}
	}
	return slots
}

func nonEmptyLines(content string) []string {
	var out []string
	for _, line := range lineSplitPattern.Split(content, -1) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseGrade extracts the {"score","feedback"} object from a model reply.
// Anything unusable yields the deterministic default grade.
func ParseGrade(content string, q *models.Question) models.Grade {
	maxPoints := q.MaxPoints
	if maxPoints <= 0 {
		maxPoints = legacyMaxPoints
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return DefaultGrade(q)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return DefaultGrade(q)
	}

	score := defaultScore
	if v, ok := raw["score"]; ok && v != nil {
		if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			score = int(math.Round(math.Max(-1, math.Min(11, f))))
		}
	}
	score = clamp(score, 0, 10)

	feedback := defaultFeedback
	if v, ok := raw["feedback"]; ok && v != nil {
		feedback = toString(v)
	}

	return models.Grade{
		QuestionID: q.ID,
		Score:      score,
		Points:     int(math.Round(float64(score) / 10 * float64(maxPoints))),
		MaxPoints:  maxPoints,
		Feedback:   feedback,
	}
}

// DefaultGrade is used when a score reply is missing or malformed.
func DefaultGrade(q *models.Question) models.Grade {
	maxPoints := q.MaxPoints
	if maxPoints <= 0 {
		maxPoints = legacyMaxPoints
	}
	return models.Grade{
		QuestionID: q.ID,
		Score:      defaultScore,
		Points:     int(math.Round(float64(maxPoints) * 0.7)),
		MaxPoints:  maxPoints,
		Feedback:   fallbackFeedback,
		Fallback:   true,
	}
}

// ScoreLine renders per-question results for the summary prompt.
func ScoreLine(questions []models.Question) string {
	pointsBased := false
	for i := range questions {
		if questions[i].Points != nil || questions[i].MaxPoints > 0 {
			pointsBased = true
			break
		}
	}

	parts := make([]string, 0, len(questions))
	for i, q := range questions {
		label := "Q" + strconv.Itoa(i+1)
		if pointsBased {
			parts = append(parts, label+"("+strconv.Itoa(derefInt(q.Points))+"/"+strconv.Itoa(q.MaxPoints)+")")
		} else {
			parts = append(parts, label+"("+strconv.Itoa(derefInt(q.Score))+"/10)")
		}
	}
	return strings.Join(parts, ", ")
}

// CleanSummary trims whitespace and one pair of wrapping quotes, and caps the length.
func CleanSummary(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > maxSummaryCharacters {
		s = strings.TrimSpace(string(runes[:maxSummaryCharacters-3])) + "..."
	}
	return s
}

// FallbackSummary is the templated sentence used when no summary can be generated.
func FallbackSummary(name string, finalScore int) string {
	parts := []string{"Candidate"}
	if name = strings.TrimSpace(name); name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, "scored", strconv.Itoa(finalScore)+".")
	return strings.Join(parts, " ")
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return defaultFeedback
	}
	return string(b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
