package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// handleAdminLogin authenticates the single hardcoded administrator and
// issues a short-lived admin token.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
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
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !secureCompare(email, strings.ToLower(s.adminEmail)) || !secureCompare(req.Password, s.adminPassword) {
		http.Error(w, "credentials", 401)
		return
	}
	tok, err := s.issueToken("admin", "Administrator", domain.RoleAdmin, 6*time.Hour)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	s.setAuthCookie(w, r, tok, 60*60*6)
	writeJSON(w, 200, map[string]any{"token": tok, "email": email})
}

func (s *Server) apiAdminUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := s.users.List(r.Context())
		if err != nil {
			http.Error(w, "list", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list, "total": len(list)})
	case http.MethodPost:
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		u, err := s.users.Create(r.Context(), req.Email, req.Name, req.Password, domain.UserRole(req.Role))
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				http.Error(w, "email taken", 409)
				return
			}
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, 201, u)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiAdminUserByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/admin/users/"))
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch r.Method {
	case http.MethodGet:
		u, err := s.users.Get(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, u)
	case http.MethodPut:
		var req struct {
			Status string `json:"status"`
			Role   string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if req.Status != "" {
			if err := s.users.SetStatus(r.Context(), id, domain.UserStatus(req.Status)); err != nil {
				writeDomainErr(w, err)
				return
			}
		}
		if req.Role != "" {
			if err := s.users.SetRole(r.Context(), id, domain.UserRole(req.Role)); err != nil {
				writeDomainErr(w, err)
				return
			}
		}
		u, err := s.users.Get(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, u)
	case http.MethodDelete:
		if err := s.users.Delete(r.Context(), id); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok", "id": id})
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiAdminStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	users, err := s.users.Users.Count(r.Context())
	if err != nil {
		http.Error(w, "stats", 500)
		return
	}
	products, err := s.products.Products.Count(r.Context())
	if err != nil {
		http.Error(w, "stats", 500)
		return
	}
	catalogues, err := s.catalogues.Catalogues.Count(r.Context())
	if err != nil {
		http.Error(w, "stats", 500)
		return
	}
	writeJSON(w, 200, map[string]any{
		"users":      users,
		"products":   products,
		"catalogues": catalogues,
	})
}
