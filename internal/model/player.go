package model

import "time"

// PlayerName is a player's display name, unique within a session.
// It is derived from the account email, so it also keys the player's
// roster entry across re-joins.
type PlayerName string

// PlayerCards is the card portion of a player's starting resources.
type PlayerCards struct {
	// EntryMissionCards is 0 at join time; mission cards are dealt
	// from the session's pool when play begins.
	EntryMissionCards int `json:"entryMissionCards"`
	TacticalCards     int `json:"tacticalCards"`
	PowerCards        int `json:"powerCards"`
}

// PlayerProps is the token portion of a player's starting resources.
type PlayerProps struct {
	BloodOathStones int `json:"bloodOathStones"`
	StatusStones    int `json:"statusStones"`
	SilverCoins     int `json:"silverCoins"`
}

// Player is a participant record within a session. Created on first
// join, mutated in place when the player selects an assassin, never
// deleted.
type Player struct {
	PlayerName PlayerName  `json:"playerName"`
	Assassin   AssassinID  `json:"assassin,omitempty"`
	Cards      PlayerCards `json:"cards"`
	Props      PlayerProps `json:"props"`
	JoinedAt   time.Time   `json:"joinedAt"`
}

// Starting resource bundle assigned at join time
const (
	StartingSilverCoins  = 5
	StartingStatusStones = 0
)

// NewPlayer constructs a roster entry with the session's starting
// resource bundle.
func NewPlayer(name PlayerName, hand StartingHand, bloodOathStones int, joinedAt time.Time) Player {
	return Player{
		PlayerName: name,
		Cards: PlayerCards{
			EntryMissionCards: 0,
			TacticalCards:     hand.TacticalCards,
			PowerCards:        hand.PowerCards,
		},
		Props: PlayerProps{
			BloodOathStones: bloodOathStones,
			StatusStones:    StartingStatusStones,
			SilverCoins:     StartingSilverCoins,
		},
		JoinedAt: joinedAt,
	}
}
