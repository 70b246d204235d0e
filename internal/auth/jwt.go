package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer           = "farm-service"
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

type Claims struct {
	jwt.RegisteredClaims

	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Parser validates access tokens presented on API requests.
type Parser struct {
	secret []byte
	now    func() time.Time
}

func NewParser(accessSecret string) *Parser {
	return &Parser{secret: []byte(accessSecret), now: time.Now}
}

func (p *Parser) Parse(token string) (*Claims, error) {
	return parse(token, p.secret, tokenTypeAccess, p.now)
}

// Issuer signs access and refresh tokens.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (i *Issuer) IssuePair(userID uint, username string) (TokenPair, error) {
	access, err := i.sign(userID, username, tokenTypeAccess, i.accessTTL, i.accessSecret)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(userID, username, tokenTypeRefresh, i.refreshTTL, i.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh validates a refresh token and returns a new access token.
func (i *Issuer) Refresh(refreshToken string) (string, error) {
	claims, err := parse(refreshToken, i.refreshSecret, tokenTypeRefresh, i.now)
	if err != nil {
		return "", err
	}
	return i.sign(claims.UserID, claims.Username, tokenTypeAccess, i.accessTTL, i.accessSecret)
}

func (i *Issuer) sign(userID uint, username, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := i.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func parse(token string, secret []byte, tokenType string, now func() time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
