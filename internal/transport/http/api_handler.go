package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quiz-draw-service/internal/app"
	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/scoring"
)

// APIHandler serves the REST surface: quiz authoring, submissions,
// fuzzy-match previews, draw candidates and recorded winners.
type APIHandler struct {
	quizzes     *app.QuizService
	submissions *app.SubmissionService
	draws       *app.DrawService
	loc         *time.Location
}

func NewAPIHandler(quizzes *app.QuizService, submissions *app.SubmissionService, draws *app.DrawService, loc *time.Location) *APIHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &APIHandler{quizzes: quizzes, submissions: submissions, draws: draws, loc: loc}
}

// Register mounts the REST routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quizzes", h.saveQuiz)
	mux.HandleFunc("GET /api/quizzes/{id}", h.getQuiz)
	mux.HandleFunc("PUT /api/quizzes/{id}", h.saveQuiz)
	mux.HandleFunc("POST /api/submissions", h.createSubmission)
	mux.HandleFunc("GET /api/submissions", h.listSubmissions)
	mux.HandleFunc("GET /api/submissions/export", h.exportSubmissions)
	mux.HandleFunc("GET /api/submissions/{id}", h.getSubmission)
	mux.HandleFunc("GET /api/submissions/{id}/review", h.reviewSubmission)
	mux.HandleFunc("DELETE /api/submissions/{id}", h.deleteSubmission)
	mux.HandleFunc("POST /api/match", h.match)
	mux.HandleFunc("GET /api/draw/candidates", h.drawCandidates)
	mux.HandleFunc("GET /api/draw-winners", h.drawWinners)
}

// saveQuiz creates a quiz, or replaces it when the path names one.
func (h *APIHandler) saveQuiz(w http.ResponseWriter, r *http.Request) {
	var quiz domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := http.StatusCreated
	if id := r.PathValue("id"); id != "" {
		quiz.ID = id
		status = http.StatusOK
	}
	saved, err := h.quizzes.Save(r.Context(), quiz)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, saved)
}

func (h *APIHandler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *APIHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	var req app.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.submissions.Submit(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *APIHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	filter, err := h.submissionFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	subs, err := h.submissions.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *APIHandler) exportSubmissions(w http.ResponseWriter, r *http.Request) {
	filter, err := h.submissionFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions.csv"`)
	if err := h.submissions.ExportCSV(r.Context(), filter, w); err != nil {
		// Headers are already out; the client sees a truncated file.
		log.Printf("export submissions: %v", err)
	}
}

func (h *APIHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.submissions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *APIHandler) reviewSubmission(w http.ResponseWriter, r *http.Request) {
	review, err := h.submissions.Review(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *APIHandler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := h.submissions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type matchRequest struct {
	UserText    string `json:"userText"`
	CorrectText string `json:"correctText"`
}

func (h *APIHandler) match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, scoring.Compare(req.UserText, req.CorrectText))
}

type candidatesResponse struct {
	Key        string             `json:"key"`
	Candidates []domain.Candidate `json:"candidates"`
}

func (h *APIHandler) drawCandidates(w http.ResponseWriter, r *http.Request) {
	key, candidates, err := resolvePool(r, h.draws)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	writeJSON(w, http.StatusOK, candidatesResponse{Key: key, Candidates: candidates})
}

func (h *APIHandler) drawWinners(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r.URL.Query(), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	winners, err := h.draws.Winners(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if winners == nil {
		winners = []domain.DrawWinner{}
	}
	writeJSON(w, http.StatusOK, winners)
}

func (h *APIHandler) submissionFilter(q url.Values) (domain.SubmissionFilter, error) {
	from, to, err := parseDateRange(q, h.loc)
	if err != nil {
		return domain.SubmissionFilter{}, err
	}
	return domain.SubmissionFilter{QuizID: q.Get("quizId"), From: from, To: to}, nil
}

// badRequest marks errors caused by the caller's input.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

// resolvePool reads quizId or weekOffset from the query and builds the
// matching candidate pool.
func resolvePool(r *http.Request, draws *app.DrawService) (string, []domain.Candidate, error) {
	q := r.URL.Query()
	if quizID := q.Get("quizId"); quizID != "" {
		candidates, err := draws.QuizCandidates(r.Context(), quizID)
		return app.QuizPoolKey(quizID), candidates, err
	}
	raw := q.Get("weekOffset")
	if raw == "" {
		return "", nil, badRequest{"missing quizId or weekOffset"}
	}
	offset, err := strconv.Atoi(raw)
	if err != nil {
		return "", nil, badRequest{"invalid weekOffset"}
	}
	return draws.WeeklyCandidates(r.Context(), offset)
}

// parseDateRange reads fromDate/toDate (yyyy-mm-dd) in loc. toDate covers
// its whole day.
func parseDateRange(q url.Values, loc *time.Location) (from, to time.Time, err error) {
	if raw := q.Get("fromDate"); raw != "" {
		if from, err = time.ParseInLocation(time.DateOnly, raw, loc); err != nil {
			return from, to, fmt.Errorf("invalid fromDate %q", raw)
		}
	}
	if raw := q.Get("toDate"); raw != "" {
		day, perr := time.ParseInLocation(time.DateOnly, raw, loc)
		if perr != nil {
			return from, to, fmt.Errorf("invalid toDate %q", raw)
		}
		to = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

func writeDomainError(w http.ResponseWriter, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br),
		errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrInvalidQuiz):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrDrawNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoWinner), errors.Is(err, domain.ErrAlreadyConfirmed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
