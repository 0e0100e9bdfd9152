package response

import (
	"time"

	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/services/identity"
)

// Account represents an account in API responses
type Account struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:          string(a.ID),
		Email:       a.Email,
		DisplayName: string(model.DisplayNameForEmail(a.Email)),
		CreatedAt:   a.CreatedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromLogin creates an AuthResponse from a login
func AuthResponseFromLogin(l *identity.Login) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&l.Account),
		SessionToken: l.Token,
	}
}

// PasswordResetResponse is the response for a password reset request.
// Token delivery is out of band; the token is echoed here so clients
// without a mail integration can complete the flow.
type PasswordResetResponse struct {
	Token string `json:"token"`
}

// PlayerCards represents a player's card counts
type PlayerCards struct {
	EntryMissionCards int `json:"entry_mission_cards"`
	TacticalCards     int `json:"tactical_cards"`
	PowerCards        int `json:"power_cards"`
}

// PlayerProps represents a player's token counts
type PlayerProps struct {
	BloodOathStones int `json:"blood_oath_stones"`
	StatusStones    int `json:"status_stones"`
	SilverCoins     int `json:"silver_coins"`
}

// Player represents a roster entry in API responses
type Player struct {
	PlayerName string      `json:"player_name"`
	Assassin   string      `json:"assassin,omitempty"`
	Cards      PlayerCards `json:"cards"`
	Props      PlayerProps `json:"props"`
	JoinedAt   time.Time   `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		PlayerName: string(p.PlayerName),
		Assassin:   string(p.Assassin),
		Cards: PlayerCards{
			EntryMissionCards: p.Cards.EntryMissionCards,
			TacticalCards:     p.Cards.TacticalCards,
			PowerCards:        p.Cards.PowerCards,
		},
		Props: PlayerProps{
			BloodOathStones: p.Props.BloodOathStones,
			StatusStones:    p.Props.StatusStones,
			SilverCoins:     p.Props.SilverCoins,
		},
		JoinedAt: p.JoinedAt,
	}
}

// Session represents a session in API responses. The access key is
// deliberately absent; clients learn it out of band from the creator.
type Session struct {
	GameName                string    `json:"game_name"`
	MaxPlayers              int       `json:"max_players"`
	GameType                string    `json:"game_type"`
	GameRounds              string    `json:"game_rounds"`
	StartingTacticalCards   int       `json:"starting_tactical_cards"`
	StartingPowerCards      int       `json:"starting_power_cards"`
	StartingBloodOathStones int       `json:"starting_blood_oath_stones"`
	InitialMissionCards     int       `json:"initial_mission_cards"`
	TurnTimeLimit           int       `json:"turn_time_limit"`
	CreatedAt               time.Time `json:"created_at"`
	Players                 []Player  `json:"players"`
	SessionStatus           string    `json:"session_status"`
	Version                 int64     `json:"version"`
}

// SessionFromModel converts a model.Session to a response Session
func SessionFromModel(s *model.Session) Session {
	players := make([]Player, len(s.Players))
	for i := range s.Players {
		players[i] = PlayerFromModel(&s.Players[i])
	}

	return Session{
		GameName:                string(s.GameName),
		MaxPlayers:              s.MaxPlayers,
		GameType:                string(s.GameType),
		GameRounds:              string(s.GameRounds),
		StartingTacticalCards:   s.StartingHand.TacticalCards,
		StartingPowerCards:      s.StartingHand.PowerCards,
		StartingBloodOathStones: s.StartingBloodOathStones,
		InitialMissionCards:     s.InitialMissionCards,
		TurnTimeLimit:           s.TurnTimeLimit,
		CreatedAt:               s.CreatedAt,
		Players:                 players,
		SessionStatus:           string(s.SessionStatus),
		Version:                 s.Version,
	}
}

// CreatedSession is the creation response: the full session plus the
// generated access key, shown once to the creator.
type CreatedSession struct {
	Session
	AccessKey string `json:"access_key"`
}

// CreatedSessionFromModel converts a model.Session including its access key
func CreatedSessionFromModel(s *model.Session) CreatedSession {
	return CreatedSession{
		Session:   SessionFromModel(s),
		AccessKey: s.AccessKey,
	}
}

// Assassin represents a roster character in API responses
type Assassin struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Faction       string   `json:"faction"`
	Age           int      `json:"age"`
	Abilities     []string `json:"abilities"`
	PortraitImage string   `json:"portrait_image"`
	CardImage     string   `json:"card_image"`
}

// AssassinFromModel converts a model.Assassin to a response Assassin
func AssassinFromModel(a *model.Assassin) Assassin {
	return Assassin{
		ID:            string(a.ID),
		Name:          a.Name,
		Faction:       string(a.Faction),
		Age:           a.Age,
		Abilities:     a.Abilities,
		PortraitImage: a.PortraitImage,
		CardImage:     a.CardImage,
	}
}

// AssassinsFromModel converts the full roster
func AssassinsFromModel(assassins []model.Assassin) []Assassin {
	out := make([]Assassin, len(assassins))
	for i := range assassins {
		out[i] = AssassinFromModel(&assassins[i])
	}
	return out
}
