package redis

import (
	"fmt"

	"github.com/velatum/bellum/internal/model"
)

// Key prefix for all lobby data
const keyPrefix = "vbellum"

// sessionKey returns the Redis key for a Session document
func sessionKey(name model.SessionName) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, name)
}

// sessionChannel returns the Pub/Sub channel session updates are
// published to
func sessionChannel(name model.SessionName) string {
	return fmt.Sprintf("%s:session:%s:updates", keyPrefix, name)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> account_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// resetKey returns the Redis key for a password-reset token
func resetKey(token string) string {
	return fmt.Sprintf("%s:reset:%s", keyPrefix, token)
}
