package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const tokenTTL = 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("token is malformed or incorrectly signed")
	ErrTokenExpired = errors.New("token has expired")
)

// encodedHeader is the fixed HS256 header segment. Incoming tokens are not
// allowed to negotiate another algorithm; the signature check simply fails.
var encodedHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

type JWTClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// JWT signs and validates the session tokens this application issues.
type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

// Generate issues a token for the user that expires after 24 hours.
func (j *JWT) Generate(userID int64, email string) (string, error) {
	now := time.Now()
	payload, err := json.Marshal(JWTClaims{
		UserID: userID,
		Email:  email,
		Iat:    now.Unix(),
		Exp:    now.Add(tokenTTL).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	message := encodedHeader + "." + base64.RawURLEncoding.EncodeToString(payload)
	return message + "." + j.sign(message), nil
}

// Validate checks the signature and expiry and returns the embedded claims.
func (j *JWT) Validate(token string) (*JWTClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrTokenInvalid
	}

	message := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(j.sign(message))) {
		return nil, ErrTokenInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable claims segment", ErrTokenInvalid)
	}

	var claims JWTClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: claims are not valid JSON", ErrTokenInvalid)
	}

	if time.Now().Unix() > claims.Exp {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}

func (j *JWT) sign(message string) string {
	mac := hmac.New(sha256.New, j.secret)
	mac.Write([]byte(message))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
