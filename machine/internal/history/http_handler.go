package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HTTPHandler обрабатывает HTTP запросы истории вращений (Presentation Layer)
type HTTPHandler struct {
	manager *Manager
	logger  *zap.SugaredLogger
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(manager *Manager, logger *zap.SugaredLogger) *HTTPHandler {
	return &HTTPHandler{
		manager: manager,
		logger:  logger,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/sessions").Subrouter()

	api.HandleFunc("", h.ListSessions).Methods("GET")
	api.HandleFunc("/current", h.GetCurrentSession).Methods("GET")
	api.HandleFunc("/{id}", h.GetSession).Methods("GET")
	api.HandleFunc("/{id}/spins", h.GetSpins).Methods("GET")
	api.HandleFunc("/{id}/save", h.SaveSession).Methods("POST")
	api.HandleFunc("/{id}", h.DeleteSession).Methods("DELETE")
}

// ListSessions возвращает список сохранённых сессий
// @Summary Список сохранённых сессий
// @Tags History
// @Produce json
// @Param limit query int false "Количество" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions [get]
func (h *HTTPHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := getQueryInt(r, "limit", 50)
	offset := getQueryInt(r, "offset", 0)

	sessions, err := h.manager.ListSessions(r.Context(), limit, offset)
	if err != nil {
		h.logger.Errorf("[ERROR] Failed to list sessions: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
		"count":    len(sessions),
	})
}

// GetCurrentSession возвращает активную сессию
// @Summary Текущая сессия
// @Tags History
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/current [get]
func (h *HTTPHandler) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	session := h.manager.CurrentSession()
	if session == nil {
		respondError(w, http.StatusNotFound, "No active session")
		return
	}

	spins, _ := h.manager.GetSpins(r.Context(), session.ID, 10, recentOffset(session.TotalSpins, 10))
	respondJSON(w, http.StatusOK, SessionResponse{Session: session, RecentSpins: spins})
}

// GetSession получает информацию о сессии
// @Summary Сессия по ID
// @Tags History
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/{id} [get]
func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.manager.GetSession(r.Context(), sessionID)
	if err != nil {
		h.respondStoreError(w, err, "Failed to get session")
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{Session: session})
}

// GetSpins возвращает вращения сессии
// @Summary Вращения сессии
// @Tags History
// @Produce json
// @Param id path string true "ID сессии"
// @Param limit query int false "Количество" default(100)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/{id}/spins [get]
func (h *HTTPHandler) GetSpins(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	limit := getQueryInt(r, "limit", 100)
	offset := getQueryInt(r, "offset", 0)

	spins, err := h.manager.GetSpins(r.Context(), sessionID, limit, offset)
	if err != nil {
		h.respondStoreError(w, err, "Failed to get spins")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"spins":      spins,
		"count":      len(spins),
	})
}

// SaveSession сохраняет сессию в базу данных
// @Summary Сохранить сессию в архив
// @Tags History
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body SaveSessionRequest false "Заметки"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/{id}/save [post]
func (h *HTTPHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req SaveSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	session, err := h.manager.SaveSession(r.Context(), sessionID, req.Notes)
	if err != nil {
		h.respondStoreError(w, err, "Failed to save session")
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{Session: session})
}

// DeleteSession удаляет сессию
// @Summary Удалить сохранённую сессию
// @Tags History
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/sessions/{id} [delete]
func (h *HTTPHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.manager.DeleteSession(r.Context(), sessionID); err != nil {
		h.respondStoreError(w, err, "Failed to delete session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Session deleted successfully",
		"session_id": sessionID,
	})
}

func (h *HTTPHandler) respondStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrSessionActive):
		respondError(w, http.StatusConflict, "Session is active")
	default:
		h.logger.Errorf("[ERROR] %s: %v", message, err)
		respondError(w, http.StatusInternalServerError, message)
	}
}

func recentOffset(total int64, n int) int {
	if total <= int64(n) {
		return 0
	}
	return int(total) - n
}

// ===== Утилиты =====

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

func getQueryInt(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
