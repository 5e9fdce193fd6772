package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

// InterviewHandler drives a candidate's interview: question generation, the
// per-question countdown, answers and the early end.
type InterviewHandler struct {
	interviews *services.InterviewService
	logger     *zap.Logger
}

func NewInterviewHandler(interviews *services.InterviewService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, logger: logger}
}

type interviewParams struct {
	testID      string
	candidateID string
	questionID  string
}

func params(r *http.Request) interviewParams {
	return interviewParams{
		testID:      testIDParam(r),
		candidateID: chi.URLParam(r, "candidateId"),
		questionID:  chi.URLParam(r, "questionId"),
	}
}

func (h *InterviewHandler) StartInterviewHandler(w http.ResponseWriter, r *http.Request) {
	p := params(r)
	logger := utils.RequestLogger(h.logger, r)

	resp, err := h.interviews.Start(r.Context(), p.testID, p.candidateID)
	if err != nil {
		writeError(w, logger, err, "Failed to generate interview questions")
		return
	}
	logger.Info("Interview started",
		zap.String("test_id", p.testID),
		zap.String("candidate_id", p.candidateID))
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *InterviewHandler) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	p := params(r)
	resp, err := h.interviews.Get(r.Context(), p.testID, p.candidateID)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to load interview")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) StartQuestionHandler(w http.ResponseWriter, r *http.Request) {
	p := params(r)
	resp, err := h.interviews.StartQuestion(r.Context(), p.testID, p.candidateID, p.questionID)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to start question")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) SaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.DraftRequest](r)
	p := params(r)

	if err := h.interviews.SaveDraft(r.Context(), p.testID, p.candidateID, p.questionID, req.Text); err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to save draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InterviewHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)
	p := params(r)
	logger := utils.RequestLogger(h.logger, r)

	resp, err := h.interviews.SubmitAnswer(r.Context(), p.testID, p.candidateID, p.questionID, req.Answer, req.AutoSubmitted)
	if err != nil {
		writeError(w, logger, err, "Failed to submit answer")
		return
	}
	if resp.Grade != nil && resp.Grade.Fallback {
		logger.Warn("Answer graded with default score", zap.String("question_id", p.questionID))
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) EndInterviewHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.EndInterviewRequest](r)
	p := params(r)

	resp, err := h.interviews.End(r.Context(), p.testID, p.candidateID, req.Reason)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to end interview")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
