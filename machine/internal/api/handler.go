package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Krimson/reelspin/internal/spin"
	"github.com/Krimson/reelspin/machine/internal/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Machine операции движка, доступные через HTTP (Domain Layer)
type Machine interface {
	RequestSpin(value float64) (engine.SpinStatus, error)
	Snapshot() spin.Frame
	SpinConfig() spin.Config
	SetSpinConfig(cfg spin.Config) error
	ApplyEffects(update engine.EffectsUpdate) spin.EffectsState
	Effects() spin.EffectsState
	GetStats() engine.Stats
}

// SpinRequest запрос на вращение; число приходит как JSON number
type SpinRequest struct {
	Number *float64 `json:"number" example:"42"`
}

// SpinResponse принятое вращение
type SpinResponse struct {
	Number int               `json:"number" example:"42"`
	Status engine.SpinStatus `json:"status" example:"started"`
}

// HealthResponse ответ liveness проверки
type HealthResponse struct {
	Status    string       `json:"status" example:"ok"`
	Uptime    string       `json:"uptime"`
	Spinning  bool         `json:"spinning"`
	Stats     engine.Stats `json:"stats"`
	Timestamp time.Time    `json:"timestamp"`
}

// HTTPHandler HTTP интерфейс автомата (Presentation Layer)
type HTTPHandler struct {
	machine   Machine
	logger    *zap.SugaredLogger
	startedAt time.Time
}

func NewHTTPHandler(machine Machine, logger *zap.SugaredLogger) *HTTPHandler {
	return &HTTPHandler{
		machine:   machine,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/spins", h.RequestSpin).Methods("POST")
	api.HandleFunc("/state", h.GetState).Methods("GET")
	api.HandleFunc("/config", h.GetConfig).Methods("GET")
	api.HandleFunc("/config", h.PutConfig).Methods("PUT")
	api.HandleFunc("/effects", h.GetEffects).Methods("GET")
	api.HandleFunc("/effects", h.PutEffects).Methods("PUT")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
}

// RequestSpin запускает вращение или ставит его в очередь
// @Summary Запросить вращение к числу
// @Description Число от 0 до 999. Если барабаны крутятся, запрос встаёт в очередь
// @Tags Machine
// @Accept json
// @Produce json
// @Param request body SpinRequest true "Целевое число"
// @Success 202 {object} SpinResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/spins [post]
func (h *HTTPHandler) RequestSpin(w http.ResponseWriter, r *http.Request) {
	var req SpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Number == nil {
		respondError(w, http.StatusBadRequest, "number is required")
		return
	}

	status, err := h.machine.RequestSpin(*req.Number)
	if err != nil {
		if errors.Is(err, spin.ErrOutOfRange) || errors.Is(err, spin.ErrNotInteger) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("[ERROR] Failed to request spin: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to request spin")
		return
	}

	respondJSON(w, http.StatusAccepted, SpinResponse{
		Number: int(*req.Number),
		Status: status,
	})
}

// GetState текущий кадр автомата
// @Summary Текущее состояние
// @Tags Machine
// @Produce json
// @Success 200 {object} spin.Frame
// @Router /api/state [get]
func (h *HTTPHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.machine.Snapshot())
}

// GetConfig конфигурация барабанов
// @Summary Конфигурация вращения
// @Tags Machine
// @Produce json
// @Success 200 {array} spin.ReelConfig
// @Router /api/config [get]
func (h *HTTPHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.machine.SpinConfig())
}

// PutConfig заменяет конфигурацию барабанов
// @Summary Заменить конфигурацию вращения
// @Description Действует со следующего вращения
// @Tags Machine
// @Accept json
// @Produce json
// @Param request body []spin.ReelConfig true "Три барабана"
// @Success 200 {array} spin.ReelConfig
// @Failure 400 {object} map[string]interface{}
// @Router /api/config [put]
func (h *HTTPHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg spin.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.machine.SetSpinConfig(cfg); err != nil {
		if errors.Is(err, spin.ErrInvalidConfig) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("[ERROR] Failed to set spin config: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to set spin config")
		return
	}

	respondJSON(w, http.StatusOK, h.machine.SpinConfig())
}

// GetEffects состояние эффектов
// @Summary Эффекты сцены
// @Tags Machine
// @Produce json
// @Success 200 {object} spin.EffectsState
// @Router /api/effects [get]
func (h *HTTPHandler) GetEffects(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.machine.Effects())
}

// PutEffects частично обновляет эффекты
// @Summary Обновить эффекты сцены
// @Description Отсутствующие поля не меняются
// @Tags Machine
// @Accept json
// @Produce json
// @Param request body engine.EffectsUpdate true "Изменения"
// @Success 200 {object} spin.EffectsState
// @Failure 400 {object} map[string]interface{}
// @Router /api/effects [put]
func (h *HTTPHandler) PutEffects(w http.ResponseWriter, r *http.Request) {
	var update engine.EffectsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if update.ShakesPerSecond != nil && *update.ShakesPerSecond < 0 {
		respondError(w, http.StatusBadRequest, "shakes_per_second must not be negative")
		return
	}
	if update.ShakeAmplitude != nil && *update.ShakeAmplitude < 0 {
		respondError(w, http.StatusBadRequest, "shake_amplitude must not be negative")
		return
	}

	respondJSON(w, http.StatusOK, h.machine.ApplyEffects(update))
}

// GetStats счётчики движка
// @Summary Статистика движка
// @Tags Machine
// @Produce json
// @Success 200 {object} engine.Stats
// @Router /api/stats [get]
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.machine.GetStats())
}

// Health liveness проверка
// @Summary Проверка живости
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	frame := h.machine.Snapshot()
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Spinning:  frame.State == spin.StateSpinning,
		Stats:     h.machine.GetStats(),
		Timestamp: time.Now(),
	})
}

// EnableCORS разрешает запросы из браузерного клиента
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

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
