package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type subjectKey struct{}

var errMissingToken = errors.New("missing bearer token")

// parseSubject verifies an HS256 access token and returns its subject.
func parseSubject(secret []byte, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// authenticate requires a valid bearer token when a secret is configured and
// stores its subject in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.jwtSecret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", errMissingToken.Error())
			return
		}
		sub, err := parseSubject(s.jwtSecret, token)
		if err != nil {
			s.logger.Debug("rejected token", "error", err)
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey{}, sub)))
	})
}

// authorizeOwner reports whether the caller may act for ownerID. Without a
// configured secret every caller may.
func (s *Server) authorizeOwner(w http.ResponseWriter, r *http.Request, ownerID string) bool {
	if len(s.jwtSecret) == 0 {
		return true
	}
	sub, _ := r.Context().Value(subjectKey{}).(string)
	if sub != ownerID {
		s.writeError(w, http.StatusForbidden, "forbidden", "token subject does not match user")
		return false
	}
	return true
}
