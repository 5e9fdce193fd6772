package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

const resumeFormField = "resume"

type CandidateHandler struct {
	candidates *services.CandidateService
	logger     *zap.Logger
}

func NewCandidateHandler(candidates *services.CandidateService, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, logger: logger}
}

// ResumeSubmission is the upload response: the stored candidate plus the
// fields read from the resume, so the client can ask for whatever is missing.
type ResumeSubmission struct {
	models.CandidateResponse
	Extracted resume.Fields `json:"extracted"`
}

func (h *CandidateHandler) SubmitProfileHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CandidateProfileRequest](r)

	resp, err := h.candidates.SubmitProfile(r.Context(), middleware.ScopeFrom(r.Context()), testIDParam(r), req)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to save candidate")
		return
	}
	utils.JSON(w, submitStatus(resp), resp)
}

func (h *CandidateHandler) SubmitResumeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(resume.MaxUploadBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_upload", "Expected a multipart form with a resume file")
		return
	}
	file, header, err := r.FormFile(resumeFormField)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "missing_resume", "resume file is required")
		return
	}
	defer file.Close()

	resp, fields, err := h.candidates.SubmitResume(r.Context(), middleware.ScopeFrom(r.Context()), testIDParam(r),
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to process resume")
		return
	}
	utils.JSON(w, submitStatus(resp), ResumeSubmission{CandidateResponse: *resp, Extracted: *fields})
}

func submitStatus(resp *models.CandidateResponse) int {
	if resp.Updated {
		return http.StatusOK
	}
	return http.StatusCreated
}

func (h *CandidateHandler) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	filter := repositories.CandidateFilter{
		Query:  r.URL.Query().Get("q"),
		TestID: utils.NormalizeTestID(r.URL.Query().Get("testId")),
	}
	items, err := h.candidates.List(r.Context(), ownerID(r), filter)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to list candidates")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

func (h *CandidateHandler) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.candidates.Detail(r.Context(), ownerID(r), chi.URLParam(r, "candidateId"))
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to load candidate")
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

func (h *CandidateHandler) DeleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.candidates.Delete(r.Context(), ownerID(r), chi.URLParam(r, "candidateId")); err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to delete candidate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetCandidateHandler lets the candidate begin the interview again.
func (h *CandidateHandler) ResetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.candidates.Reset(r.Context(), ownerID(r), chi.URLParam(r, "candidateId"))
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to reset candidate")
		return
	}
	utils.JSON(w, http.StatusOK, c)
}
