package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/cataloguehub/cataloguehub/internal/domain"
	"github.com/cataloguehub/cataloguehub/internal/usecase"
)

const authCookie = "auth_token"

type authClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	Name string `json:"name"`
}

func (s *Server) issueToken(subject, name string, role domain.UserRole, dur time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "cataloguehub",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(dur)),
		},
		Role: string(role),
		Name: name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *Server) verifyToken(tok string) (*authClaims, error) {
	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Server) setAuthCookie(w http.ResponseWriter, r *http.Request, tok string, maxAge int) {
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name: authCookie, Value: tok, Path: "/", MaxAge: maxAge,
		HttpOnly: true, Secure: secure, SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) claims(r *http.Request) *authClaims {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		if c, err := s.verifyToken(strings.TrimSpace(auth[7:])); err == nil {
			return c
		}
	}
	if ck, err := r.Cookie(authCookie); err == nil && ck.Value != "" {
		if c, err := s.verifyToken(ck.Value); err == nil {
			return c
		}
	}
	return nil
}

// requireUser returns the authenticated user's id, writing 401 when there
// is none. The hardcoded admin has no user row and fails here on purpose.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	c := s.claims(r)
	if c == nil {
		http.Error(w, "unauthorized", 401)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		http.Error(w, "unauthorized", 401)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	c := s.claims(r)
	if c == nil || c.Role != string(domain.RoleAdmin) {
		http.Error(w, "unauthorized", 401)
		return false
	}
	return true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	u, err := s.users.Signup(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			http.Error(w, "email taken", 409)
			return
		}
		http.Error(w, err.Error(), 400)
		return
	}
	tok, err := s.issueToken(u.ID.String(), u.Name, u.Role, 7*24*time.Hour)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	s.setAuthCookie(w, r, tok, 60*60*24*7)
	writeJSON(w, 201, map[string]any{"id": u.ID, "email": u.Email, "name": u.Name, "token": tok})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	u, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrSuspended) {
			http.Error(w, "suspended", 403)
			return
		}
		http.Error(w, "credentials", 401)
		return
	}
	tok, err := s.issueToken(u.ID.String(), u.Name, u.Role, 7*24*time.Hour)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	s.setAuthCookie(w, r, tok, 60*60*24*7)
	writeJSON(w, 200, map[string]any{"id": u.ID, "email": u.Email, "name": u.Name, "token": tok})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, r, "", -1)
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		u, err := s.users.Get(r.Context(), userID)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, 200, u)
	case http.MethodPut:
		var req struct {
			Name    string `json:"name"`
			Company string `json:"company"`
			Phone   string `json:"phone"`
			Bio     string `json:"bio"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		u, err := s.users.UpdateProfile(r.Context(), userID, req.Name, req.Company, req.Phone, req.Bio)
		if err != nil {
			http.Error(w, "profile", 500)
			return
		}
		writeJSON(w, 200, u)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), 302)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != 200 {
		log.Error().Err(err).Msg("userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", 400)
		return
	}
	u, err := s.users.UpsertGoogle(r.Context(), info.Email, info.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrSuspended) {
			http.Error(w, "suspended", 403)
			return
		}
		http.Error(w, "signin", 500)
		return
	}
	jwtTok, err := s.issueToken(u.ID.String(), u.Name, u.Role, 7*24*time.Hour)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	s.setAuthCookie(w, r, jwtTok, 60*60*24*7)
	http.Redirect(w, r, "/", 302)
}
