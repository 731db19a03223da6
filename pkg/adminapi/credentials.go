package adminapi

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Wire header names for the ProStore admin API. The server recomputes the
// token from the nonce and the shared private token, so the exact names and
// the nonce format below must not change.
const (
	HeaderUserID = "ProStore-Auth-UserId"
	HeaderNonce  = "ProStore-Auth-Nonce"
	HeaderToken  = "ProStore-Auth-Token"
)

const (
	nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	nonceLength   = 32
)

// AuthHeaders carries the three per-request credential headers.
type AuthHeaders struct {
	UserID string
	Nonce  string
	Token  string
}

// Map returns the headers keyed by their wire names.
func (h AuthHeaders) Map() map[string]string {
	return map[string]string{
		HeaderUserID: h.UserID,
		HeaderNonce:  h.Nonce,
		HeaderToken:  h.Token,
	}
}

// DeriveHeaders produces single-use credentials for one outbound request: a
// fresh 32-character nonce and the lowercase-hex SHA-256 digest of
// "nonce:privateToken". It must be called once per request; reusing a
// nonce/token pair defeats the replay resistance of the scheme.
func DeriveHeaders(userID, privateToken string) (AuthHeaders, error) {
	if userID == "" {
		return AuthHeaders{}, fmt.Errorf("derive auth headers: user id is empty")
	}
	if privateToken == "" {
		return AuthHeaders{}, fmt.Errorf("derive auth headers: private token is empty")
	}

	nonce, err := newNonce()
	if err != nil {
		return AuthHeaders{}, err
	}

	return AuthHeaders{
		UserID: userID,
		Nonce:  nonce,
		Token:  signToken(nonce, privateToken),
	}, nil
}

// newNonce draws nonceLength characters from nonceAlphabet using
// crypto/rand. Bytes >= 248 are discarded: 248 is the largest multiple of
// len(nonceAlphabet) below 256, so the modulo stays unbiased.
func newNonce() (string, error) {
	const limit = 248

	out := make([]byte, 0, nonceLength)
	buf := make([]byte, nonceLength)
	for len(out) < nonceLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read nonce entropy: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, nonceAlphabet[int(b)%len(nonceAlphabet)])
			if len(out) == nonceLength {
				break
			}
		}
	}
	return string(out), nil
}

// signToken computes the lowercase-hex SHA-256 digest binding a nonce to the
// shared secret. Any verifier holding the secret can recompute it.
func signToken(nonce, privateToken string) string {
	sum := sha256.Sum256([]byte(nonce + ":" + privateToken))
	return hex.EncodeToString(sum[:])
}
