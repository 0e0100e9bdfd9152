package model

import "time"

// SessionName is the human-chosen session identifier; it acts as the
// document key in the store.
type SessionName string

// SessionStatus is the session's lifecycle flag. It is written once at
// creation and never transitioned by anything in the lobby flow; the
// field is kept as an explicit no-op state.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
)

// GameType sets the status-stone win condition
type GameType string

const (
	GameTypeBeginner     GameType = "Beginner"     // win 3 status stones
	GameTypeIntermediate GameType = "Intermediate" // win 6 status stones
	GameTypeAdvanced     GameType = "Advanced"     // win 9 status stones
)

// GameRounds is the match length setting
type GameRounds string

const (
	RoundsBestOf1 GameRounds = "Best of 1"
	RoundsBestOf3 GameRounds = "Best of 3"
)

// Player-count and deal constants
const (
	MinPlayers        = 2
	MaxPlayersLimit   = 5
	TotalMissionCards = 60
)

// StartingHand is the card deal every player receives at join time
type StartingHand struct {
	TacticalCards int `json:"tacticalCards"`
	PowerCards    int `json:"powerCards"`
}

// DefaultStartingHand returns the fixed 6-card deal (5 tactical, 1 power).
func DefaultStartingHand() StartingHand {
	return StartingHand{TacticalCards: 5, PowerCards: 1}
}

// Session is the persisted game-lobby document. The store is its sole
// owner; clients hold transient copies fetched via get/subscribe.
//
// Invariants: len(Players) <= MaxPlayers, and player names are unique
// within the session.
type Session struct {
	GameName                SessionName   `json:"gameName"`
	MaxPlayers              int           `json:"maxPlayers"`
	GameType                GameType      `json:"gameType"`
	GameRounds              GameRounds    `json:"gameRounds"`
	StartingHand            StartingHand  `json:"startingHand"`
	StartingBloodOathStones int           `json:"startingBloodOathStones"`
	InitialMissionCards     int           `json:"initialMissionCards"`
	TurnTimeLimit           int           `json:"turnTimeLimit"`
	AccessKey               string        `json:"password"`
	CreatedAt               time.Time     `json:"createdAt"`
	Players                 []Player      `json:"players"`
	Board                   Board         `json:"board"`
	SessionStatus           SessionStatus `json:"sessionStatus"`

	// Version counts document writes. Subscribers observe a monotonic
	// sequence; the store bumps it on every save so conflicting updates
	// are detectable.
	Version int64 `json:"version"`
}

// GetPlayer returns the roster entry with the given name, or nil.
func (s *Session) GetPlayer(name PlayerName) *Player {
	for i := range s.Players {
		if s.Players[i].PlayerName == name {
			return &s.Players[i]
		}
	}
	return nil
}

// IsFull reports whether the roster has reached MaxPlayers.
func (s *Session) IsFull() bool {
	return len(s.Players) >= s.MaxPlayers
}
