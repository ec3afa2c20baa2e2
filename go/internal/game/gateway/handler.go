package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/game/orchestrator"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// PhaseController defines what the HTTP layer needs from the orchestrator
type PhaseController interface {
	AssignRoles(ctx context.Context, roomID string, playerIDs []string, settings models.GameSettings) (*orchestrator.AssignResult, error)
	ResolveNight(ctx context.Context, gameID string) (*models.GameState, error)
	ResolveVoting(ctx context.Context, gameID string) (*models.GameState, error)
	RemainingSeconds(gameID string) (int, bool)
	View(ctx context.Context, gameID, viewer string) (*models.GameState, error)
}

// AssignRolesRequest is the body of POST /api/assign-roles
type AssignRolesRequest struct {
	RoomID       string              `json:"roomId"`
	PlayerIDs    []string            `json:"playerIds"`
	GameSettings models.GameSettings `json:"gameSettings"`
}

// AssignRolesResponse is returned once a game has started
type AssignRolesResponse struct {
	Success     bool                   `json:"success"`
	GameStateID string                 `json:"gameStateId"`
	PlayerRoles map[string]models.Role `json:"playerRoles"`
	Message     string                 `json:"message"`
}

// ResolveRequest is the body of the explicit resolution endpoints
type ResolveRequest struct {
	GameStateID string `json:"gameStateId"`
}

// ResolveResponse summarizes the state after an explicit resolution
type ResolveResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Phase        models.Phase  `json:"phase"`
	CurrentDay   int           `json:"currentDay"`
	CurrentNight int           `json:"currentNight"`
	Winner       models.Winner `json:"winner,omitempty"`
}

// TimerResponse is returned by GET /api/timer-remaining/{id}
type TimerResponse struct {
	Success          bool `json:"success"`
	RemainingSeconds int  `json:"remainingSeconds"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler serves the game HTTP API
type Handler struct {
	controller PhaseController
}

// NewHandler creates a new game API handler
func NewHandler(controller PhaseController) *Handler {
	return &Handler{controller: controller}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/assign-roles", h.HandleAssignRoles)
	mux.HandleFunc("POST /api/process-night-actions", h.HandleProcessNight)
	mux.HandleFunc("POST /api/process-voting", h.HandleProcessVoting)
	mux.HandleFunc("GET /api/timer-remaining/{id}", h.HandleTimerRemaining)
	mux.HandleFunc("GET /api/game-state/{id}", h.HandleGameState)
}

// HandleAssignRoles handles POST /api/assign-roles
func (h *Handler) HandleAssignRoles(w http.ResponseWriter, r *http.Request) {
	var req AssignRolesRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RoomID) == "" {
		writeError(w, http.StatusBadRequest, "roomId is required")
		return
	}

	res, err := h.controller.AssignRoles(r.Context(), req.RoomID, req.PlayerIDs, req.GameSettings)
	if err != nil {
		h.fail(w, err, "room_id", req.RoomID)
		return
	}

	writeJSON(w, http.StatusOK, AssignRolesResponse{
		Success:     true,
		GameStateID: res.GameStateID,
		PlayerRoles: res.PlayerRoles,
		Message:     "Roles assigned successfully",
	})
}

// HandleProcessNight handles POST /api/process-night-actions
func (h *Handler) HandleProcessNight(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.controller.ResolveNight, "Night actions processed")
}

// HandleProcessVoting handles POST /api/process-voting
func (h *Handler) HandleProcessVoting(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.controller.ResolveVoting, "Voting processed")
}

func (h *Handler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, string) (*models.GameState, error),
	message string,
) {
	var req ResolveRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.GameStateID) == "" {
		writeError(w, http.StatusBadRequest, "gameStateId is required")
		return
	}

	gs, err := fn(r.Context(), req.GameStateID)
	if err != nil {
		h.fail(w, err, "game_id", req.GameStateID)
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{
		Success:      true,
		Message:      message,
		Phase:        gs.Phase,
		CurrentDay:   gs.CurrentDay,
		CurrentNight: gs.CurrentNight,
		Winner:       gs.Winner,
	})
}

// HandleTimerRemaining handles GET /api/timer-remaining/{id}
func (h *Handler) HandleTimerRemaining(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rem, ok := h.controller.RemainingSeconds(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no active timer for game")
		return
	}
	writeJSON(w, http.StatusOK, TimerResponse{Success: true, RemainingSeconds: rem})
}

// HandleGameState handles GET /api/game-state/{id}?playerId=
func (h *Handler) HandleGameState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	gs, err := h.controller.View(r.Context(), id, r.URL.Query().Get("playerId"))
	if err != nil {
		h.fail(w, err, "game_id", id)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// HandleHealth handles GET /health
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error, key, value string) {
	status := StatusFor(err)
	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Str(key, value).Int("status", status).Msg("request failed")
	writeError(w, status, err.Error())
}

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInsufficientPlayers), errors.Is(err, game.ErrTooManyRoles):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidPhase):
		return http.StatusConflict
	case errors.Is(err, game.ErrStoreFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}
