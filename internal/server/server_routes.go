package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brk3/wellnest/internal/analytics"
	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/internal/tracker"
	"github.com/brk3/wellnest/pkg/versioninfo"
)

// user resolves the caller, writing a 401 when there is none.
func (s *Server) user(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		s.handleAuthFailure(w, r)
		return "", false
	}
	return userID, true
}

func (s *Server) respond(w http.ResponseWriter, code int, v any) {
	if err := writeJSON(w, code, v); err != nil {
		logger.Error("Failed to serialize response", "error", err)
	}
}

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	info := versioninfo.VersionInfo{
		Version:   versioninfo.Version,
		BuildDate: versioninfo.BuildDate,
	}
	s.respond(w, http.StatusOK, info)
}

// Analytics

func (s *Server) getPeriodAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	window, err := analytics.ParseWindow(chi.URLParam(r, "window"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.svc.PeriodAnalytics(userID, window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) getDailySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	out, err := s.svc.DailySummary(userID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) getQuickStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	out, err := s.svc.QuickStats(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cc, err := s.svc.ChatContext(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	reply, err := s.responder.Respond(r.Context(), cc, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.Debug("Chat reply generated", "user_id", userID, "length", len(reply))
	s.respond(w, http.StatusOK, ChatResponse{Reply: reply})
}

// Habits

func (s *Server) refreshHabitGauge(userID string) {
	habits, err := s.store.FindHabitsByUser(userID)
	if err != nil {
		logger.Warn("Failed to update active habits metric", "user_id", userID, "error", err)
		return
	}
	UpdateActiveHabitsForUser(userID, len(habits))
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	habits, err := s.tracker.ListHabits(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.Debug("Listed habits successfully", "user_id", userID, "count", len(habits))
	s.respond(w, http.StatusOK, HabitListResponse{Habits: habits})
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	var in tracker.HabitInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	h, err := s.tracker.CreateHabit(userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.refreshHabitGauge(userID)
	s.respond(w, http.StatusCreated, h)
}

func (s *Server) toggleHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	var req ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h, err := s.tracker.ToggleHabit(userID, chi.URLParam(r, "habit_id"), req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, h)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	if err := s.tracker.DeleteHabit(userID, chi.URLParam(r, "habit_id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.refreshHabitGauge(userID)
	s.respond(w, http.StatusOK, MessageResponse{Message: "Habit deleted."})
}

// Food

func (s *Server) listFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	logs, err := s.tracker.ListFood(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, FoodListResponse{Food: logs})
}

func (s *Server) createFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	var in tracker.FoodInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := s.tracker.CreateFood(userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, f)
}

func (s *Server) deleteFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	if err := s.tracker.DeleteFood(userID, chi.URLParam(r, "food_id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, MessageResponse{Message: "Food log deleted."})
}

// Journal

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	entries, err := s.tracker.ListJournal(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, JournalListResponse{Entries: entries})
}

func (s *Server) upsertJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	var in tracker.JournalInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	j, created, err := s.tracker.UpsertJournal(userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	s.respond(w, code, j)
}

func (s *Server) getJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	j, err := s.tracker.Journal(userID, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, j)
}

// Goals

func (s *Server) getGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	g, _, err := s.tracker.Goals(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, g)
}

// upsertGoals decodes the body over the current goals, so fields absent from
// the request keep their stored values.
func (s *Server) upsertGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	current, set, err := s.tracker.Goals(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(w, r, &current); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.tracker.PutGoals(userID, current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	code := http.StatusOK
	if !set {
		code = http.StatusCreated
	}
	s.respond(w, code, g)
}

func (s *Server) resetGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	if err := s.tracker.ResetGoals(userID); err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, MessageResponse{Message: "Goals reset to default."})
}

// Profile

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	u, err := s.tracker.Profile(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, u)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.user(w, r)
	if !ok {
		return
	}
	var in tracker.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.tracker.UpdateProfile(userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, u)
}
