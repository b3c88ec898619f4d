// Package main provides authentication for the RecordDB TCP server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nickyhof/RecordDB/core"
	"github.com/nickyhof/RecordDB/db"
)

// AuthConfig configures server authentication.
type AuthConfig struct {
	// JWTSecret is the shared secret for HMAC JWT validation.
	JWTSecret string

	// Issuer is the expected "iss" claim in JWTs (optional).
	Issuer string

	// Audience is the expected "aud" claim in JWTs (optional).
	Audience string

	// NameClaim is the JWT claim for user's name (default: "name").
	NameClaim string

	// EmailClaim is the JWT claim for user's email (default: "email").
	EmailClaim string
}

// AuthResponse is the result payload of a successful AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
	ExpiresIn     int    `json:"expires_in,omitempty"` // seconds
}

var (
	errAuthRequired = errors.New("authentication required")
	errTokenExpired = errors.New("token expired, authenticate again")
)

// ConnectionState tracks per-connection authentication and the first line of
// a two-line CREATE.
type ConnectionState struct {
	identity      *core.Identity
	authenticated bool
	tokenExpiry   time.Time
	pending       string
}

// IsAuthenticated returns true if the connection holds an unexpired token.
func (cs *ConnectionState) IsAuthenticated() bool {
	if !cs.authenticated {
		return false
	}
	return cs.tokenExpiry.IsZero() || time.Now().Before(cs.tokenExpiry)
}

// Identity returns the connection's identity, or nil if not authenticated.
func (cs *ConnectionState) Identity() *core.Identity {
	return cs.identity
}

// checkAuth returns nil when the connection may run commands.
func (s *Server) checkAuth(state *ConnectionState) error {
	switch {
	case s.authConfig == nil:
		return nil
	case state.IsAuthenticated():
		return nil
	case state.authenticated:
		return errTokenExpired
	default:
		return errAuthRequired
	}
}

type authResult struct {
	identity  core.Identity
	expiresAt time.Time
	err       error
}

// validateJWT validates a JWT token and extracts identity claims.
func (s *Server) validateJWT(tokenString string) authResult {
	if s.authConfig == nil || s.authConfig.JWTSecret == "" {
		return authResult{err: errors.New("authentication not configured")}
	}

	nameClaim := s.authConfig.NameClaim
	if nameClaim == "" {
		nameClaim = "name"
	}
	emailClaim := s.authConfig.EmailClaim
	if emailClaim == "" {
		emailClaim = "email"
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if s.authConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.authConfig.Issuer))
	}
	if s.authConfig.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.authConfig.Audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	}, opts...)
	if err != nil {
		return authResult{err: fmt.Errorf("invalid token: %w", err)}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authResult{err: errors.New("invalid token claims")}
	}

	name, _ := claims[nameClaim].(string)
	email, _ := claims[emailClaim].(string)
	if name == "" && email == "" {
		return authResult{err: fmt.Errorf("token missing identity claims (%s or %s)", nameClaim, emailClaim)}
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return authResult{
		identity:  core.Identity{Name: name, Email: email},
		expiresAt: expiresAt,
	}
}

// isAuthCommand reports whether line starts with the AUTH keyword.
func isAuthCommand(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.EqualFold(fields[0], "AUTH")
}

// parseAuthCommand parses an AUTH command and returns the auth type and token.
// Supported formats:
//   - AUTH JWT <token>
func parseAuthCommand(line string) (authType, token string, err error) {
	if !isAuthCommand(line) {
		return "", "", errors.New("not an AUTH command")
	}

	parts := strings.Fields(line)
	if len(parts) != 3 {
		return "", "", errors.New("invalid AUTH command: expected AUTH <type> <credentials>")
	}

	authType = strings.ToUpper(parts[1])
	if !slices.Contains([]string{"JWT"}, authType) {
		return "", "", fmt.Errorf("unsupported auth type: %s", parts[1])
	}
	return authType, parts[2], nil
}

// handleAuth processes an AUTH command and returns the response.
func (s *Server) handleAuth(line string, state *ConnectionState) db.Response {
	_, token, err := parseAuthCommand(line)
	if err != nil {
		return authError(err)
	}

	result := s.validateJWT(token)
	if result.err != nil {
		return authError(result.err)
	}

	state.identity = &result.identity
	state.authenticated = true
	state.tokenExpiry = result.expiresAt

	ar := AuthResponse{
		Authenticated: true,
		Identity:      result.identity.String(),
	}
	if !result.expiresAt.IsZero() {
		ar.ExpiresIn = int(time.Until(result.expiresAt).Seconds())
	}

	data, _ := json.Marshal(ar)
	return db.Response{
		Success: true,
		Type:    "auth",
		Result:  data,
	}
}

func authError(err error) db.Response {
	resp := db.ErrorResponse(err)
	resp.Type = "auth"
	return resp
}
