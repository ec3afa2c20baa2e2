package models

import (
	"slices"
	"time"
)

// Phase is the current stage of the turn cycle.
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhaseNight    Phase = "night"
	PhaseDay      Phase = "day"
	PhaseVoting   Phase = "voting"
	PhaseGameOver Phase = "gameOver"
)

// Role is a player's hidden role.
type Role string

const (
	RoleMafia       Role = "mafia"
	RoleDoctor      Role = "doctor"
	RoleDetective   Role = "detective"
	RoleWitch       Role = "witch"
	RoleJester      Role = "jester"
	RoleExecutioner Role = "executioner"
	RoleVillager    Role = "villager"
)

// IsTown reports whether the role counts toward the villager side of the parity check.
// Neutral roles (witch, jester, executioner) are not town.
func (r Role) IsTown() bool {
	switch r {
	case RoleDoctor, RoleDetective, RoleVillager:
		return true
	}
	return false
}

// Winner is the winning faction of a finished game.
type Winner string

const (
	WinnerNone      Winner = ""
	WinnerVillagers Winner = "villagers"
	WinnerMafia     Winner = "mafia"
)

// ActionKind keys a submitted night action.
type ActionKind string

const (
	ActionMafiaKill            ActionKind = "mafia_kill"
	ActionDoctorProtect        ActionKind = "doctor_protect"
	ActionWitch                ActionKind = "witch_action"
	ActionDetectiveInvestigate ActionKind = "detective_investigate"
)

// NightAction is one submitted night action. Witch actions use SaveTarget/KillTarget,
// everything else uses Target.
type NightAction struct {
	Actor      string `json:"actor,omitempty"`
	Target     string `json:"target,omitempty"`
	SaveTarget string `json:"saveTarget,omitempty"`
	KillTarget string `json:"killTarget,omitempty"`
}

// LogKind identifies a game log event.
type LogKind string

const (
	LogMafiaKill            LogKind = "mafia_kill"
	LogDoctorProtect        LogKind = "doctor_protect"
	LogWitchSave            LogKind = "witch_save"
	LogWitchKill            LogKind = "witch_kill"
	LogDetectiveInvestigate LogKind = "detective_investigate"
	LogElimination          LogKind = "elimination"
	LogJesterWin            LogKind = "jester_win"
	LogExecutionerWin       LogKind = "executioner_win"
	LogVoteTie              LogKind = "vote_tie"
)

// LogEntry is a single game log event. An empty VisibleTo means the entry is public.
type LogEntry struct {
	Kind      LogKind   `json:"kind"`
	Targets   []string  `json:"targets,omitempty"`
	Message   string    `json:"message"`
	VisibleTo string    `json:"visibleTo,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsVisibleTo reports whether viewer may see the entry.
func (e LogEntry) IsVisibleTo(viewer string) bool {
	return e.VisibleTo == "" || e.VisibleTo == viewer
}

// RoleCounts configures how many of each special role are dealt.
type RoleCounts struct {
	MafiaCount       int `json:"mafiaCount"`
	DoctorCount      int `json:"doctorCount"`
	DetectiveCount   int `json:"detectiveCount"`
	JesterCount      int `json:"jesterCount"`
	ExecutionerCount int `json:"executionerCount"`
	WitchCount       int `json:"witchCount"`
}

// PhaseDurations holds per-phase durations in seconds.
type PhaseDurations struct {
	SelectionTime  int `json:"selectionTime" yaml:"selection_time"`
	NightTime      int `json:"nightTime" yaml:"night_time"`
	DiscussionTime int `json:"discussionTime" yaml:"discussion_time"`
	VotingTime     int `json:"votingTime" yaml:"voting_time"`
}

// Seconds returns the configured duration for phase, or 0 for GameOver.
func (d PhaseDurations) Seconds(phase Phase) int {
	switch phase {
	case PhaseStarting:
		return d.SelectionTime
	case PhaseNight:
		return d.NightTime
	case PhaseDay:
		return d.DiscussionTime
	case PhaseVoting:
		return d.VotingTime
	}
	return 0
}

// For returns the configured duration for phase.
func (d PhaseDurations) For(phase Phase) time.Duration {
	return time.Duration(d.Seconds(phase)) * time.Second
}

// Overlay returns d with every positive field of o applied on top.
func (d PhaseDurations) Overlay(o PhaseDurations) PhaseDurations {
	if o.SelectionTime > 0 {
		d.SelectionTime = o.SelectionTime
	}
	if o.NightTime > 0 {
		d.NightTime = o.NightTime
	}
	if o.DiscussionTime > 0 {
		d.DiscussionTime = o.DiscussionTime
	}
	if o.VotingTime > 0 {
		d.VotingTime = o.VotingTime
	}
	return d
}

// GameState is the persisted state of one running game.
type GameState struct {
	ID                 string                     `json:"id"`
	RoomID             string                     `json:"roomId"`
	Phase              Phase                      `json:"phase"`
	CurrentDay         int                        `json:"currentDay"`
	CurrentNight       int                        `json:"currentNight"`
	PlayerRoles        map[string]Role            `json:"playerRoles"`
	PlayerAlive        map[string]bool            `json:"playerAlive"`
	PlayerUsernames    map[string]string          `json:"playerUsernames"`
	ExecutionerTargets map[string]string          `json:"executionerTargets"`
	EliminatedPlayers  []string                   `json:"eliminatedPlayers"`
	NightActions       map[ActionKind]NightAction `json:"nightActions"`
	Votes              map[string]string          `json:"votes"`
	PhaseStartTime     time.Time                  `json:"phaseStartTime"`
	PhaseTimeRemaining int                        `json:"phaseTimeRemaining"`
	Settings           PhaseDurations             `json:"settings"`
	Winner             Winner                     `json:"winner"`
	GameLog            []LogEntry                 `json:"gameLog"`
}

// Clone returns a deep copy of the game state.
func (g *GameState) Clone() *GameState {
	c := *g
	c.PlayerRoles = cloneMap(g.PlayerRoles)
	c.PlayerAlive = cloneMap(g.PlayerAlive)
	c.PlayerUsernames = cloneMap(g.PlayerUsernames)
	c.ExecutionerTargets = cloneMap(g.ExecutionerTargets)
	c.NightActions = cloneMap(g.NightActions)
	c.Votes = cloneMap(g.Votes)
	c.EliminatedPlayers = slices.Clone(g.EliminatedPlayers)
	c.GameLog = slices.Clone(g.GameLog)
	for i := range c.GameLog {
		c.GameLog[i].Targets = slices.Clone(c.GameLog[i].Targets)
	}
	return &c
}

// Username returns the display name recorded for playerID.
func (g *GameState) Username(playerID string) string {
	if name, ok := g.PlayerUsernames[playerID]; ok && name != "" {
		return name
	}
	return UnknownPlayerName
}

// VisibleLog returns the log entries viewer is allowed to see, in order.
func (g *GameState) VisibleLog(viewer string) []LogEntry {
	out := make([]LogEntry, 0, len(g.GameLog))
	for _, e := range g.GameLog {
		if e.IsVisibleTo(viewer) {
			out = append(out, e)
		}
	}
	return out
}

// UnknownPlayerName is the display name used when a username cannot be resolved.
const UnknownPlayerName = "Unknown Player"

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
