package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/websocket"
	"github.com/npezzotti/homeease/internal/types"
)

const (
	idClaim   = "id"
	roleClaim = "role"

	tokenCookieKey = "token"
	tokenQueryKey  = "token"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	requestIdKey contextKey = "request-id"
)

func WithActor(ctx context.Context, actor types.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated identity stored by the auth middleware.
func ActorFrom(ctx context.Context) (types.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(types.Actor)
	return actor, ok
}

// tokenFromRequest finds the bearer token. Browsers cannot set headers on a
// websocket handshake, so upgrades may pass it as a query parameter instead.
func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", errors.New("malformed authorization header")
		}
		return token, nil
	}

	if cookie, err := r.Cookie(tokenCookieKey); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if websocket.IsWebSocketUpgrade(r) {
		if token := r.URL.Query().Get(tokenQueryKey); token != "" {
			return token, nil
		}
	}

	return "", errors.New("no token")
}

// actorFromToken verifies an HS256 token and reads the actor claims.
func actorFromToken(signingKey []byte, tokenString string) (types.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		return types.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return types.Actor{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return types.Actor{}, errors.New("invalid token claims")
	}

	id, ok := claims[idClaim].(float64)
	if !ok || id <= 0 {
		return types.Actor{}, errors.New("invalid id claim")
	}

	role, _ := claims[roleClaim].(string)
	actor := types.Actor{Id: int64(id), Role: types.Role(role)}
	if !actor.Role.Valid() {
		return types.Actor{}, fmt.Errorf("invalid role claim %q", role)
	}

	return actor, nil
}
