package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcdev12/mafia/go/internal/game"
	"github.com/mcdev12/mafia/go/internal/game/orchestrator"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	assignErr  error
	resolveErr error
	gotRoom    string
	gotPlayers []string
	gotSetting models.GameSettings
	remaining  map[string]int
}

func (f *fakeController) AssignRoles(_ context.Context, roomID string, playerIDs []string, settings models.GameSettings) (*orchestrator.AssignResult, error) {
	f.gotRoom, f.gotPlayers, f.gotSetting = roomID, playerIDs, settings
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	return &orchestrator.AssignResult{
		GameStateID: "game-1",
		PlayerRoles: map[string]models.Role{"a": models.RoleMafia},
	}, nil
}

func (f *fakeController) ResolveNight(_ context.Context, id string) (*models.GameState, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &models.GameState{ID: id, Phase: models.PhaseDay, CurrentDay: 1, CurrentNight: 1}, nil
}

func (f *fakeController) ResolveVoting(_ context.Context, id string) (*models.GameState, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &models.GameState{ID: id, Phase: models.PhaseGameOver, Winner: models.WinnerMafia}, nil
}

func (f *fakeController) RemainingSeconds(id string) (int, bool) {
	rem, ok := f.remaining[id]
	return rem, ok
}

func (f *fakeController) View(_ context.Context, id, viewer string) (*models.GameState, error) {
	if id != "game-1" {
		return nil, fmt.Errorf("get game %s: %w", id, game.ErrNotFound)
	}
	return &models.GameState{ID: id, Phase: models.PhaseNight, PlayerRoles: map[string]models.Role{viewer: models.RoleDoctor}}, nil
}

func serve(t *testing.T, ctrl PhaseController, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(ctrl).Register(mux)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_AssignRoles(t *testing.T) {
	ctrl := &fakeController{}
	rec := serve(t, ctrl, http.MethodPost, "/api/assign-roles",
		`{"roomId":"r1","playerIds":["a","b","c","d"],"gameSettings":{"mafiaCount":1,"nightTime":30}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AssignRolesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "game-1", resp.GameStateID)
	assert.Equal(t, models.RoleMafia, resp.PlayerRoles["a"])

	assert.Equal(t, "r1", ctrl.gotRoom)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ctrl.gotPlayers)
	assert.Equal(t, 1, ctrl.gotSetting.MafiaCount)
	assert.Equal(t, 30, ctrl.gotSetting.NightTime)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"insufficient players", fmt.Errorf("assign: %w", game.ErrInsufficientPlayers), http.StatusBadRequest},
		{"too many roles", game.ErrTooManyRoles, http.StatusBadRequest},
		{"not found", fmt.Errorf("get room r1: %w", game.ErrNotFound), http.StatusNotFound},
		{"invalid phase", game.ErrInvalidPhase, http.StatusConflict},
		{"store failure", game.StoreError("update", errors.New("boom")), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{assignErr: tt.err, resolveErr: tt.err}

			rec := serve(t, ctrl, http.MethodPost, "/api/assign-roles", `{"roomId":"r1","playerIds":["a"]}`)
			assert.Equal(t, tt.status, rec.Code)

			rec = serve(t, ctrl, http.MethodPost, "/api/process-night-actions", `{"gameStateId":"g1"}`)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed assign body", "/api/assign-roles", `{"roomId":`},
		{"missing room", "/api/assign-roles", `{"playerIds":["a","b","c","d"]}`},
		{"missing game id", "/api/process-voting", `{}`},
		{"malformed resolve body", "/api/process-night-actions", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeController{}, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_ProcessVoting(t *testing.T) {
	rec := serve(t, &fakeController{}, http.MethodPost, "/api/process-voting", `{"gameStateId":"g1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.PhaseGameOver, resp.Phase)
	assert.Equal(t, models.WinnerMafia, resp.Winner)
}

func TestHandler_TimerRemaining(t *testing.T) {
	ctrl := &fakeController{remaining: map[string]int{"g1": 42}}

	rec := serve(t, ctrl, http.MethodGet, "/api/timer-remaining/g1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp TimerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.RemainingSeconds)

	rec = serve(t, ctrl, http.MethodGet, "/api/timer-remaining/g2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GameState(t *testing.T) {
	rec := serve(t, &fakeController{}, http.MethodGet, "/api/game-state/game-1?playerId=p1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var gs models.GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gs))
	assert.Equal(t, models.RoleDoctor, gs.PlayerRoles["p1"])

	rec = serve(t, &fakeController{}, http.MethodGet, "/api/game-state/other", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := serve(t, &fakeController{}, http.MethodGet, "/api/assign-roles", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
