package lagreport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	kerrors "kactor/pkg/errors"
	kjwt "kactor/pkg/jwt"
)

const httpHandlerTimeout = 3 * time.Second

// Server exposes cached lag snapshots over HTTP, protected by a bearer
// token validated through the teacher's pkg/jwt.Service.
type Server struct {
	cache *Cache
	auth  *kjwt.Service
	mux   *http.ServeMux
}

// NewServer wires a Cache and a JWT service behind a ServeMux with one
// route, GET /groups/{group}, which serves the JSON snapshot or, with
// ?format=xlsx, an xlsx export; it requires a valid bearer token.
func NewServer(cache *Cache, cfg Config) (*Server, error) {
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	auth, err := kjwt.NewService(&kjwt.Config{
		SecretKey:             cfg.JWTSecret,
		Issuer:                "kactor-lagreport",
		Audience:              "lagreport",
		AccessTokenExpiration: cfg.SnapshotTTL,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{cache: cache, auth: auth, mux: http.NewServeMux()}
	s.mux.HandleFunc("/groups/", s.requireAuth(s.handleGroup))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeAppError(w, kerrors.ErrUnauthorized)
			return
		}
		if _, err := s.auth.Validate(token); err != nil {
			writeAppError(w, kerrors.ErrUnauthorized)
			return
		}
		next(w, r)
	}
}

// handleGroup serves GET /groups/{group}[?format=xlsx].
func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	group := strings.TrimPrefix(r.URL.Path, "/groups/")
	if group == "" {
		writeAppError(w, kerrors.ErrGroupNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), httpHandlerTimeout)
	defer cancel()

	snap, ok, err := s.cache.Get(ctx, group)
	if err != nil {
		writeAppError(w, kerrors.ErrInternal)
		return
	}
	if !ok {
		writeAppError(w, kerrors.ErrGroupNotFound)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		body, err := ExportXLSX(snap)
		if err != nil {
			writeAppError(w, kerrors.ErrInternal)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="lag.xlsx"`)
		w.Write(body)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func writeAppError(w http.ResponseWriter, appErr *kerrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(appErr)
}
