package request

// CreateAccountRequest is the request body for creating an account
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest is the request body for requesting a password reset
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest is the request body for completing a password reset
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	GameName      string `json:"game_name"`
	MaxPlayers    int    `json:"max_players"`
	GameType      string `json:"game_type,omitempty"`
	GameRounds    string `json:"game_rounds,omitempty"`
	TurnTimeLimit int    `json:"turn_time_limit,omitempty"`
}

// JoinSessionRequest is the request body for joining a session
type JoinSessionRequest struct {
	AccessKey string `json:"access_key"`
}

// SelectAssassinRequest is the request body for selecting an assassin.
// The access key is required because selection joins the session when
// the player is not yet on the roster.
type SelectAssassinRequest struct {
	AssassinID string `json:"assassin_id"`
	AccessKey  string `json:"access_key"`
}
