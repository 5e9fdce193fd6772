package repositories

import (
	"sort"
	"strings"
	"time"

	"peerprep/interview/internal/models"
)

// Workspace is everything one interviewer owns: their tests and the candidates,
// interviews and transcripts that came in through those tests.
type Workspace struct {
	OwnerID      string                              `json:"ownerId"`
	Tests        map[string]*models.TestDefinition   `json:"tests"`
	Candidates   map[string]*models.CandidateProfile `json:"candidates"`
	CandidateIDs []string                            `json:"candidateIds"`
	EmailIndex   map[string]string                   `json:"emailIndex"`
	Interviews   map[string]*models.Interview        `json:"interviews"`
	Messages     map[string][]models.ChatMessage     `json:"messages"`
}

func (ws *Workspace) ensure() {
	if ws.Tests == nil {
		ws.Tests = make(map[string]*models.TestDefinition)
	}
	if ws.Candidates == nil {
		ws.Candidates = make(map[string]*models.CandidateProfile)
	}
	if ws.EmailIndex == nil {
		ws.EmailIndex = make(map[string]string)
	}
	if ws.Interviews == nil {
		ws.Interviews = make(map[string]*models.Interview)
	}
	if ws.Messages == nil {
		ws.Messages = make(map[string][]models.ChatMessage)
	}
}

// --- tests ---

func (ws *Workspace) AddTest(def models.TestDefinition) error {
	ws.ensure()
	if _, exists := ws.Tests[def.ID]; exists {
		return ErrTestExists
	}
	ws.Tests[def.ID] = &def
	return nil
}

func (ws *Workspace) Test(id string) (*models.TestDefinition, error) {
	def, ok := ws.Tests[id]
	if !ok {
		return nil, ErrTestNotFound
	}
	return def, nil
}

// ListTests returns tests newest first.
func (ws *Workspace) ListTests() []models.TestDefinition {
	out := make([]models.TestDefinition, 0, len(ws.Tests))
	for _, def := range ws.Tests {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (ws *Workspace) UpdateTest(id string, patch models.UpdateTestRequest) (*models.TestDefinition, error) {
	def, err := ws.Test(id)
	if err != nil {
		return nil, err
	}
	if patch.Label != nil {
		def.Label = strings.TrimSpace(*patch.Label)
	}
	if patch.Active != nil {
		def.Active = *patch.Active
	}
	if patch.ExpiresAt != nil {
		expiry := *patch.ExpiresAt
		def.ExpiresAt = &expiry
	}
	if patch.ClearExpiry {
		def.ExpiresAt = nil
	}
	return def, nil
}

// DeleteTest removes the test. Candidates that came through it stay in the
// workspace but are no longer listed.
func (ws *Workspace) DeleteTest(id string) error {
	if _, err := ws.Test(id); err != nil {
		return err
	}
	delete(ws.Tests, id)
	return nil
}

// --- candidates ---

// UpsertCandidate stores a new candidate, or, when the same email already
// applied to the same test, refreshes that record in place and wipes its
// interview and transcript. It reports whether an existing record was reused.
func (ws *Workspace) UpsertCandidate(profile models.CandidateProfile) (*models.CandidateProfile, bool) {
	ws.ensure()

	if profile.Email != "" && profile.TestID != "" {
		key := models.CandidateKey(profile.TestID, profile.Email)
		if id, ok := ws.EmailIndex[key]; ok {
			if existing, ok := ws.Candidates[id]; ok {
				mergeProfile(existing, &profile)
				existing.Status = models.StatusNew
				existing.FinalScore = nil
				existing.Summary = ""
				existing.ExportedAt = nil
				delete(ws.Interviews, id)
				delete(ws.Messages, id)
				return existing, true
			}
			delete(ws.EmailIndex, key)
		}
	}

	if profile.Status == "" {
		profile.Status = models.StatusNew
	}
	stored := profile
	ws.Candidates[stored.ID] = &stored
	ws.CandidateIDs = append([]string{stored.ID}, ws.CandidateIDs...)
	if stored.Email != "" && stored.TestID != "" {
		ws.EmailIndex[models.CandidateKey(stored.TestID, stored.Email)] = stored.ID
	}
	return &stored, false
}

func mergeProfile(dst, src *models.CandidateProfile) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.JobRole != "" {
		dst.JobRole = src.JobRole
	}
	if src.ResumeFileName != "" {
		dst.ResumeFileName = src.ResumeFileName
		dst.ResumeMimeType = src.ResumeMimeType
	}
}

func (ws *Workspace) Candidate(id string) (*models.CandidateProfile, error) {
	c, ok := ws.Candidates[id]
	if !ok {
		return nil, ErrCandidateNotFound
	}
	return c, nil
}

// CandidateForTest returns the candidate only if it applied through testID.
func (ws *Workspace) CandidateForTest(id, testID string) (*models.CandidateProfile, error) {
	c, err := ws.Candidate(id)
	if err != nil {
		return nil, err
	}
	if c.TestID != testID {
		return nil, ErrCandidateNotFound
	}
	return c, nil
}

// CandidateFilter narrows ListCandidates. Empty fields match everything.
type CandidateFilter struct {
	Query  string
	TestID string
}

// ListCandidates returns candidates of existing tests, best final score first
// (unscored last), then newest first.
func (ws *Workspace) ListCandidates(filter CandidateFilter) []models.CandidateProfile {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]models.CandidateProfile, 0, len(ws.CandidateIDs))
	for _, id := range ws.CandidateIDs {
		c, ok := ws.Candidates[id]
		if !ok {
			continue
		}
		if _, ok := ws.Tests[c.TestID]; !ok {
			continue
		}
		if filter.TestID != "" && c.TestID != filter.TestID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Email), query) {
			continue
		}
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if si, sj := out[i].SortScore(), out[j].SortScore(); si != sj {
			return si > sj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// DeleteCandidate removes the record, its interview, transcript and index entry.
func (ws *Workspace) DeleteCandidate(id string) error {
	c, err := ws.Candidate(id)
	if err != nil {
		return err
	}
	if c.Email != "" && c.TestID != "" {
		key := models.CandidateKey(c.TestID, c.Email)
		if ws.EmailIndex[key] == id {
			delete(ws.EmailIndex, key)
		}
	}
	delete(ws.Candidates, id)
	delete(ws.Interviews, id)
	delete(ws.Messages, id)
	for i, cid := range ws.CandidateIDs {
		if cid == id {
			ws.CandidateIDs = append(ws.CandidateIDs[:i], ws.CandidateIDs[i+1:]...)
			break
		}
	}
	return nil
}

// ResetCandidate prepares a candidate to take the interview again.
func (ws *Workspace) ResetCandidate(id string) (*models.CandidateProfile, error) {
	c, err := ws.Candidate(id)
	if err != nil {
		return nil, err
	}
	c.Status = models.StatusInProgress
	c.FinalScore = nil
	c.Summary = ""
	c.ExportedAt = nil
	delete(ws.Interviews, id)
	delete(ws.Messages, id)
	return c, nil
}

func (ws *Workspace) SetFinalResult(id string, finalScore int, summary string) error {
	c, err := ws.Candidate(id)
	if err != nil {
		return err
	}
	score := finalScore
	c.FinalScore = &score
	c.Summary = summary
	c.Status = models.StatusCompleted
	return nil
}

// --- interviews & chat ---

func (ws *Workspace) Interview(candidateID string) (*models.Interview, error) {
	iv, ok := ws.Interviews[candidateID]
	if !ok || iv == nil {
		return nil, ErrInterviewNotFound
	}
	return iv, nil
}

// SetInterview replaces any prior interview for the candidate.
func (ws *Workspace) SetInterview(candidateID string, iv *models.Interview) error {
	ws.ensure()
	if _, err := ws.Candidate(candidateID); err != nil {
		return err
	}
	ws.Interviews[candidateID] = iv
	return nil
}

func (ws *Workspace) AppendMessage(candidateID string, msg models.ChatMessage) error {
	ws.ensure()
	if _, err := ws.Candidate(candidateID); err != nil {
		return err
	}
	ws.Messages[candidateID] = append(ws.Messages[candidateID], msg)
	return nil
}

// Detail bundles a candidate with its transcript and interview.
func (ws *Workspace) Detail(candidateID string) (*models.CandidateDetail, error) {
	c, err := ws.Candidate(candidateID)
	if err != nil {
		return nil, err
	}
	detail := &models.CandidateDetail{
		Candidate: *c,
		Messages:  append([]models.ChatMessage(nil), ws.Messages[candidateID]...),
	}
	if iv, ok := ws.Interviews[candidateID]; ok {
		detail.Interview = iv.Clone()
	}
	return detail, nil
}

// UnexportedResults lists completed candidates not yet exported.
func (ws *Workspace) UnexportedResults() []models.CandidateDetail {
	var out []models.CandidateDetail
	for _, id := range ws.CandidateIDs {
		c, ok := ws.Candidates[id]
		if !ok || c.Status != models.StatusCompleted || c.ExportedAt != nil {
			continue
		}
		if detail, err := ws.Detail(id); err == nil {
			out = append(out, *detail)
		}
	}
	return out
}

func (ws *Workspace) MarkExported(ids []string, at time.Time) {
	for _, id := range ids {
		if c, ok := ws.Candidates[id]; ok {
			exported := at
			c.ExportedAt = &exported
		}
	}
}
