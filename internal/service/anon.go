package service

import (
	"encoding/json"
	"feednana/config"
	"feednana/internal/repo"
	"feednana/utils"
	"strconv"

	"golang.org/x/net/context"
)

// Identity is who a request acts as: either an authenticated user or a
// per-session pseudonymous id with its two tag colors.
type Identity struct {
	UserID     *uint64 `json:"user_id,omitempty"`
	UserName   string  `json:"user_name,omitempty"`
	AnonID     string  `json:"anon_id,omitempty"`
	AnonColorA string  `json:"anon_color_a,omitempty"`
	AnonColorB string  `json:"anon_color_b,omitempty"`
}

// VoterKey returns the one-ballot-per-voter key for this identity.
func (i Identity) VoterKey() string {
	if i.UserID != nil {
		return "u:" + strconv.FormatUint(*i.UserID, 10)
	}
	return "a:" + i.AnonID
}

func anonSessionKey(token string) string {
	return "anon:" + token
}

// GetOrCreateAnonIdentity resolves the anon identity behind a session
// token, minting a fresh one when the token is unknown or empty. The
// returned token must go back to the client as its session cookie.
func GetOrCreateAnonIdentity(ctx context.Context, token string) (Identity, string, error) {
	if repo.Redis == nil {
		// No session store: fall back to a one-shot identity.
		id := utils.GetToken()
		a, b := utils.AnonColors(id)
		return Identity{AnonID: id, AnonColorA: a, AnonColorB: b}, token, nil
	}
	if token != "" {
		raw, err := repo.Redis.Get(ctx, anonSessionKey(token)).Result()
		if err == nil {
			var identity Identity
			if err := json.Unmarshal([]byte(raw), &identity); err == nil && identity.AnonID != "" {
				// Sliding expiry: active sessions keep their identity.
				repo.Redis.Expire(ctx, anonSessionKey(token), config.AppConfig.AnonSessionTTL)
				return identity, token, nil
			}
		}
	}

	id := utils.GetToken()
	a, b := utils.AnonColors(id)
	identity := Identity{AnonID: id, AnonColorA: a, AnonColorB: b}
	newToken := utils.GetToken()
	body, err := json.Marshal(identity)
	if err != nil {
		return Identity{}, "", err
	}
	if err := repo.Redis.Set(ctx, anonSessionKey(newToken), body, config.AppConfig.AnonSessionTTL).Err(); err != nil {
		return Identity{}, "", err
	}
	return identity, newToken, nil
}
