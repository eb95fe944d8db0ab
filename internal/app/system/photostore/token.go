package photostore

import (
	"fmt"

	"github.com/gorilla/securecookie"
)

// Photo access tokens let a page embed <img> URLs without exposing raw
// storage keys or requiring a second authorization lookup on every image
// request. The token binds the storage key to the user it was issued to
// and expires with the codec's MaxAge.

type accessClaims struct {
	Key    string `json:"k"`
	UserID string `json:"u"`
}

// TokenCodec signs and verifies photo access tokens.
type TokenCodec struct {
	sc *securecookie.SecureCookie
}

// NewTokenCodec builds a codec from hash and block keys. maxAgeSeconds
// bounds token validity; 0 means the securecookie default.
func NewTokenCodec(hashKey, blockKey []byte, maxAgeSeconds int) (*TokenCodec, error) {
	if len(hashKey) < 32 {
		return nil, fmt.Errorf("photo token hash key must be at least 32 bytes")
	}
	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	if maxAgeSeconds > 0 {
		sc.MaxAge(maxAgeSeconds)
	}
	return &TokenCodec{sc: sc}, nil
}

// Issue returns a signed token granting userID access to the photo at key.
func (c *TokenCodec) Issue(key, userID string) (string, error) {
	tok, err := c.sc.Encode("photo", accessClaims{Key: key, UserID: userID})
	if err != nil {
		return "", fmt.Errorf("encode photo token: %w", err)
	}
	return tok, nil
}

// Verify decodes a token and returns the storage key and the user it was
// issued to. Expired or tampered tokens fail.
func (c *TokenCodec) Verify(token string) (key, userID string, err error) {
	var claims accessClaims
	if err := c.sc.Decode("photo", token, &claims); err != nil {
		return "", "", fmt.Errorf("invalid photo token: %w", err)
	}
	return claims.Key, claims.UserID, nil
}
