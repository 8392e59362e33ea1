// Package session issues the tokens a client presents to take its seat back
// after a dropped connection.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"callbreak/internal/game"
)

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	Table  string
	Player game.PlayerID
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(tableCode string, player game.PlayerID) (string, error) {
	if tableCode == "" || player == "" {
		return "", fmt.Errorf("table and player are required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": string(player),
		"tbl": tableCode,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Verify(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	tbl, _ := mc["tbl"].(string)
	if sub == "" || tbl == "" {
		return Claims{}, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return Claims{Table: tbl, Player: game.PlayerID(sub)}, nil
}
