package resume

import (
	"regexp"
	"strings"
	"unicode"
)

// Fields holds the contact details recovered from resume text. Empty means not found.
type Fields struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[\s-]?)?(?:\(?\d{3}\)?[\s-]?)?\d{3}[\s-]?\d{4}`)

	blankRun      = regexp.MustCompile(`[\t\f\v]+`)
	spaceRun      = regexp.MustCompile(` +`)
	nonNameChar   = regexp.MustCompile(`[^A-Za-z'\-\s]`)
	emailSplit    = regexp.MustCompile(`[._-]+`)
	properCase    = regexp.MustCompile(`^[A-Z][a-z'-]+$`)
	allCaps       = regexp.MustCompile(`^[A-Z]{2,}$`)
	allCapsWindow = regexp.MustCompile(`^[A-Z\s'-]+$`)
	titleWord     = regexp.MustCompile(`[A-Za-z][^\s-]*`)
)

const (
	headChars    = 1000
	headTokens   = 40
	windowStarts = 20
	minWindow    = 2
	maxWindow    = 4
)

var headerWords = map[string]bool{
	"resume": true, "curriculum": true, "vitae": true, "cv": true, "profile": true,
	"summary": true, "contact": true, "experience": true, "education": true,
	"skills": true, "projects": true, "objective": true, "professional": true,
	"work": true, "address": true, "phone": true, "email": true, "mobile": true,
}

// ExtractFields pulls the first email and phone number out of text and guesses
// the candidate's name from the document header.
func ExtractFields(text string) Fields {
	f := Fields{
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
	}
	f.Name = guessName(text, f.Email)
	return f
}

// guessName slides a 2 to 4 token window over the start of the document and
// keeps the best scoring run of name-like tokens.
func guessName(raw, email string) string {
	text := strings.TrimSpace(spaceRun.ReplaceAllString(blankRun.ReplaceAllString(raw, " "), " "))

	var emailParts []string
	if local, _, ok := strings.Cut(email, "@"); ok {
		for _, p := range emailSplit.Split(local, -1) {
			if p != "" {
				emailParts = append(emailParts, strings.ToLower(p))
			}
		}
	}

	head := text
	if r := []rune(text); len(r) > headChars {
		head = string(r[:headChars])
	}
	tokens := strings.Fields(nonNameChar.ReplaceAllString(head, " "))
	if len(tokens) > headTokens {
		tokens = tokens[:headTokens]
	}

	best, bestScore, found := "", 0, false
	for i := 0; i < len(tokens) && i < windowStarts; i++ {
		for w := minWindow; w <= maxWindow && i+w <= len(tokens); w++ {
			window := tokens[i : i+w]
			candidate := strings.Join(window, " ")
			if len(candidate) < 3 || len(candidate) > 80 {
				continue
			}
			if strings.Contains(strings.ToLower(candidate), "gmail") {
				continue
			}

			score, valid := 0, 0
			for _, tok := range window {
				if !isNameToken(tok) {
					score--
					continue
				}
				valid++
				if allCaps.MatchString(tok) {
					score++
				} else {
					score += 2
				}
				if contains(emailParts, strings.ToLower(tok)) {
					score += 2
				}
			}
			if valid < 2 {
				continue
			}
			if !found || score > bestScore {
				if allCapsWindow.MatchString(candidate) {
					candidate = titleCase(candidate)
				}
				best, bestScore, found = candidate, score, true
			}
		}
	}
	return best
}

func isNameToken(tok string) bool {
	if headerWords[strings.ToLower(tok)] {
		return false
	}
	return properCase.MatchString(tok) || allCaps.MatchString(tok)
}

func titleCase(s string) string {
	return titleWord.ReplaceAllStringFunc(s, func(w string) string {
		r := []rune(w)
		return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
