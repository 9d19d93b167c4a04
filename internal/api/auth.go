package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Development credentials for the admin login stub. Replace with a real
// user store before exposing the admin surface beyond a trusted network.
const (
	devAdminUsername = "admin"
	devAdminPassword = "admin"
)

// loginRequest is the payload for POST /login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin authenticates the admin user and issues a signed JWT.
//
// The credential check is a fixed development stub; the token it issues is
// real (HS256, expiring) so frontends can integrate against the final
// shape of the auth flow.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Username != devAdminUsername || req.Password != devAdminPassword {
		writeUnauthorized(w, "invalid credentials")
		return
	}

	token, err := s.issueToken(req.Username)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err)
		writeInternalError(w, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}

// issueToken creates a signed access token for the given subject.
func (s *Server) issueToken(subject string) (string, error) {
	now := time.Now()
	ttl := time.Duration(s.secCfg.JWT.AccessTokenTTL) * time.Minute

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"iss": "slotbook",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secCfg.JWT.Secret))
}
