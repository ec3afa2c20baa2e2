package repository

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/mcdev12/mafia/go/internal/store"
)

// Field names a top-level key of a game_states document.
type Field string

const (
	FieldRoomID             Field = "roomId"
	FieldPhase              Field = "phase"
	FieldCurrentDay         Field = "currentDay"
	FieldCurrentNight       Field = "currentNight"
	FieldPlayerRoles        Field = "playerRoles"
	FieldPlayerAlive        Field = "playerAlive"
	FieldPlayerUsernames    Field = "playerUsernames"
	FieldExecutionerTargets Field = "executionerTargets"
	FieldEliminatedPlayers  Field = "eliminatedPlayers"
	FieldNightActions       Field = "nightActions"
	FieldVotes              Field = "votes"
	FieldPhaseStartTime     Field = "phaseStartTime"
	FieldPhaseTimeRemaining Field = "phaseTimeRemaining"
	FieldSettings           Field = "settings"
	FieldWinner             Field = "winner"
	FieldGameLog            Field = "gameLog"
)

// AllFields lists every persisted field, used when creating a document.
var AllFields = []Field{
	FieldRoomID, FieldPhase, FieldCurrentDay, FieldCurrentNight,
	FieldPlayerRoles, FieldPlayerAlive, FieldPlayerUsernames, FieldExecutionerTargets,
	FieldEliminatedPlayers, FieldNightActions, FieldVotes,
	FieldPhaseStartTime, FieldPhaseTimeRemaining, FieldSettings, FieldWinner, FieldGameLog,
}

// FieldsFor returns the fields written by the transition leaving phase.
func FieldsFor(phase models.Phase) []Field {
	switch phase {
	case models.PhaseStarting:
		return []Field{FieldPhase, FieldCurrentNight, FieldNightActions, FieldPhaseStartTime, FieldPhaseTimeRemaining}
	case models.PhaseNight:
		return []Field{
			FieldPhase, FieldCurrentDay, FieldPlayerAlive, FieldEliminatedPlayers, FieldNightActions,
			FieldPhaseStartTime, FieldPhaseTimeRemaining, FieldWinner, FieldGameLog,
		}
	case models.PhaseDay:
		return []Field{FieldPhase, FieldVotes, FieldPhaseStartTime, FieldPhaseTimeRemaining}
	case models.PhaseVoting:
		return []Field{
			FieldPhase, FieldCurrentNight, FieldPlayerAlive, FieldEliminatedPlayers, FieldVotes,
			FieldPhaseStartTime, FieldPhaseTimeRemaining, FieldWinner, FieldGameLog,
		}
	}
	return nil
}

// Encode renders the listed fields of gs as a document. Structured fields are stored as
// JSON strings.
func Encode(gs *models.GameState, fields ...Field) (store.Document, error) {
	doc := make(store.Document, len(fields))
	for _, f := range fields {
		var (
			v   any
			err error
		)
		switch f {
		case FieldRoomID:
			v = gs.RoomID
		case FieldPhase:
			v = string(gs.Phase)
		case FieldCurrentDay:
			v = gs.CurrentDay
		case FieldCurrentNight:
			v = gs.CurrentNight
		case FieldPlayerRoles:
			v, err = jsonString(gs.PlayerRoles)
		case FieldPlayerAlive:
			v, err = jsonString(gs.PlayerAlive)
		case FieldPlayerUsernames:
			v, err = jsonString(gs.PlayerUsernames)
		case FieldExecutionerTargets:
			v, err = jsonString(gs.ExecutionerTargets)
		case FieldEliminatedPlayers:
			v, err = jsonString(gs.EliminatedPlayers)
		case FieldNightActions:
			v, err = jsonString(gs.NightActions)
		case FieldVotes:
			v, err = jsonString(gs.Votes)
		case FieldPhaseStartTime:
			v = gs.PhaseStartTime.UTC().Format(time.RFC3339Nano)
		case FieldPhaseTimeRemaining:
			v = gs.PhaseTimeRemaining
		case FieldSettings:
			v, err = jsonString(gs.Settings)
		case FieldWinner:
			v = string(gs.Winner)
		case FieldGameLog:
			v, err = jsonString(gs.GameLog)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		doc[string(f)] = v
	}
	return doc, nil
}

// Decode builds a GameState from a document. Missing or malformed fields decode to
// zero or empty values; decoding never fails.
func Decode(doc store.Document) *models.GameState {
	gs := &models.GameState{
		ID:                 doc.ID(),
		RoomID:             stringField(doc, FieldRoomID),
		Phase:              models.Phase(stringField(doc, FieldPhase)),
		CurrentDay:         intField(doc, FieldCurrentDay),
		CurrentNight:       intField(doc, FieldCurrentNight),
		PhaseTimeRemaining: intField(doc, FieldPhaseTimeRemaining),
		Winner:             models.Winner(stringField(doc, FieldWinner)),
	}

	decodeJSON(doc, FieldPlayerRoles, &gs.PlayerRoles, map[string]models.Role{})
	decodeJSON(doc, FieldPlayerAlive, &gs.PlayerAlive, map[string]bool{})
	decodeJSON(doc, FieldPlayerUsernames, &gs.PlayerUsernames, map[string]string{})
	decodeJSON(doc, FieldExecutionerTargets, &gs.ExecutionerTargets, map[string]string{})
	decodeJSON(doc, FieldEliminatedPlayers, &gs.EliminatedPlayers, []string{})
	decodeJSON(doc, FieldNightActions, &gs.NightActions, map[models.ActionKind]models.NightAction{})
	decodeJSON(doc, FieldVotes, &gs.Votes, map[string]string{})
	decodeJSON(doc, FieldSettings, &gs.Settings, models.PhaseDurations{})
	decodeJSON(doc, FieldGameLog, &gs.GameLog, []models.LogEntry{})

	if ts, err := time.Parse(time.RFC3339Nano, stringField(doc, FieldPhaseStartTime)); err == nil {
		gs.PhaseStartTime = ts.UTC()
	}
	return gs
}

func jsonString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSON unmarshals a JSON string field into target. A missing, non-string, blank,
// null or malformed field leaves target set to empty.
func decodeJSON[T any](doc store.Document, f Field, target *T, empty T) {
	*target = empty
	raw, ok := doc[string(f)].(string)
	if !ok {
		return
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return
	}
	*target = v
}

func stringField(doc store.Document, f Field) string {
	s, _ := doc[string(f)].(string)
	return s
}

// intField accepts the numeric shapes produced by the store backends: native ints from
// the memory store and float64 after a JSON round trip.
func intField(doc store.Document, f Field) int {
	switch v := doc[string(f)].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}
