package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hako/branca"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
)

var (
	ErrInvalidToken = errs.UnauthenticatedError("invalid token")
	ErrExpiredToken = errs.UnauthenticatedError("expired token")
)

// Codec encodes caller identities as branca bearer tokens.
// Tokens are issued by the identity provider sharing the same key.
type Codec struct {
	key string
	ttl time.Duration
}

// NewCodec takes the 32 bytes branca key. A zero ttl disables expiration.
func NewCodec(key string, ttl time.Duration) (*Codec, error) {
	if len(key) != 32 {
		return nil, errors.New("token key must be 32 bytes long")
	}
	return &Codec{key: key, ttl: ttl}, nil
}

func (c *Codec) Encode(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("json marshal token payload: %w", err)
	}

	token, err := c.branca().EncodeToString(string(b))
	if err != nil {
		return "", fmt.Errorf("could not create token: %w", err)
	}

	return token, nil
}

func (c *Codec) Decode(token string) (User, error) {
	var u User

	payload, err := c.branca().DecodeToString(token)
	if err != nil {
		if _, ok := err.(*branca.ErrExpiredToken); ok {
			return u, ErrExpiredToken
		}

		// Malformed input, another version or a token sealed with another key.
		return u, ErrInvalidToken
	}

	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		return u, ErrInvalidToken
	}

	u.ID = types.NormalizeID(u.ID)
	if u.ID == "" {
		return u, ErrInvalidToken
	}

	return u, nil
}

func (c *Codec) branca() *branca.Branca {
	b := branca.NewBranca(c.key)
	b.SetTTL(uint32(c.ttl.Seconds()))
	return b
}
