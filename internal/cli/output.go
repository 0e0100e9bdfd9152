package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// AccountResult mirrors the API account response
type AccountResult struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResult mirrors the API authentication response
type AuthResult struct {
	Account      AccountResult `json:"account"`
	SessionToken string        `json:"session_token"`
}

// ResetResult mirrors the API password reset response
type ResetResult struct {
	Token string `json:"token"`
}

// PlayerResult mirrors a roster entry in API responses
type PlayerResult struct {
	PlayerName string `json:"player_name"`
	Assassin   string `json:"assassin,omitempty"`
	Cards      struct {
		EntryMissionCards int `json:"entry_mission_cards"`
		TacticalCards     int `json:"tactical_cards"`
		PowerCards        int `json:"power_cards"`
	} `json:"cards"`
	Props struct {
		BloodOathStones int `json:"blood_oath_stones"`
		StatusStones    int `json:"status_stones"`
		SilverCoins     int `json:"silver_coins"`
	} `json:"props"`
	JoinedAt time.Time `json:"joined_at"`
}

// SessionResult mirrors the API session response
type SessionResult struct {
	GameName                string         `json:"game_name"`
	MaxPlayers              int            `json:"max_players"`
	GameType                string         `json:"game_type"`
	GameRounds              string         `json:"game_rounds"`
	StartingTacticalCards   int            `json:"starting_tactical_cards"`
	StartingPowerCards      int            `json:"starting_power_cards"`
	StartingBloodOathStones int            `json:"starting_blood_oath_stones"`
	InitialMissionCards     int            `json:"initial_mission_cards"`
	TurnTimeLimit           int            `json:"turn_time_limit"`
	CreatedAt               time.Time      `json:"created_at"`
	Players                 []PlayerResult `json:"players"`
	SessionStatus           string         `json:"session_status"`
	Version                 int64          `json:"version"`
	AccessKey               string         `json:"access_key,omitempty"`
}

// AssassinResult mirrors the API assassin response
type AssassinResult struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Faction       string   `json:"faction"`
	Age           int      `json:"age"`
	Abilities     []string `json:"abilities"`
	PortraitImage string   `json:"portrait_image"`
	CardImage     string   `json:"card_image"`
}

// HealthResult mirrors the API health response
type HealthResult struct {
	Status string `json:"status"`
}

// Output formats and prints results
type Output struct {
	format string
}

// NewOutput creates an Output with the given format ("text" or "json")
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print formats and prints a result to stdout
func (o *Output) Print(v any) {
	if o.format == "json" {
		o.printJSON(v)
		return
	}

	switch r := v.(type) {
	case AccountResult:
		o.printAccount(r)
	case AuthResult:
		o.printAccount(r.Account)
		fmt.Printf("Token: %s\n", r.SessionToken)
	case ResetResult:
		fmt.Printf("Reset token: %s\n", r.Token)
	case SessionResult:
		o.printSession(r)
	case AssassinResult:
		o.printAssassin(r)
	case []AssassinResult:
		o.printAssassinList(r)
	case HealthResult:
		fmt.Printf("Status: %s\n", r.Status)
	default:
		o.printJSON(v)
	}
}

func (o *Output) printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (o *Output) printAccount(a AccountResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", a.ID)
	fmt.Fprintf(w, "Email:\t%s\n", a.Email)
	fmt.Fprintf(w, "Display name:\t%s\n", a.DisplayName)
	fmt.Fprintf(w, "Created:\t%s\n", a.CreatedAt.Format(time.RFC3339))
	_ = w.Flush()
}

func (o *Output) printSession(s SessionResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Game:\t%s\n", s.GameName)
	fmt.Fprintf(w, "Status:\t%s\n", s.SessionStatus)
	fmt.Fprintf(w, "Type:\t%s (%s)\n", s.GameType, s.GameRounds)
	fmt.Fprintf(w, "Players:\t%d/%d\n", len(s.Players), s.MaxPlayers)
	fmt.Fprintf(w, "Turn limit:\t%ds\n", s.TurnTimeLimit)
	fmt.Fprintf(w, "Mission cards:\t%d\n", s.InitialMissionCards)
	if s.AccessKey != "" {
		fmt.Fprintf(w, "Access key:\t%s\n", s.AccessKey)
	}
	_ = w.Flush()

	if len(s.Players) > 0 {
		fmt.Println()
		pw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(pw, "PLAYER\tASSASSIN\tJOINED")
		for _, p := range s.Players {
			assassin := p.Assassin
			if assassin == "" {
				assassin = "-"
			}
			fmt.Fprintf(pw, "%s\t%s\t%s\n", p.PlayerName, assassin, p.JoinedAt.Format(time.RFC3339))
		}
		_ = pw.Flush()
	}
}

func (o *Output) printAssassin(a AssassinResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", a.ID)
	fmt.Fprintf(w, "Name:\t%s\n", a.Name)
	fmt.Fprintf(w, "Faction:\t%s\n", a.Faction)
	fmt.Fprintf(w, "Age:\t%d\n", a.Age)
	fmt.Fprintf(w, "Abilities:\t%s\n", strings.Join(a.Abilities, ", "))
	_ = w.Flush()
}

func (o *Output) printAssassinList(assassins []AssassinResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFACTION\tAGE")
	for _, a := range assassins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", a.ID, a.Name, a.Faction, a.Age)
	}
	_ = w.Flush()
}
