package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opryshko/bakehouse/internal/domain/user"
	"github.com/opryshko/bakehouse/internal/session"
)

// authInfo is the resolved session attached to the request context: the
// hashed session key (used for cart storage) and the authenticated user.
type authInfo struct {
	key  string
	user *user.User
}

type authContextKey struct{}

func authFromContext(ctx context.Context) (authInfo, bool) {
	info, ok := ctx.Value(authContextKey{}).(authInfo)
	return info, ok
}

// hashToken derives the session store key from a bearer token. Tokens are
// never stored verbatim; the store sees only the peppered HMAC.
func (h *Handler) hashToken(token string) string {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// withSession authenticates the request from the Authorization bearer token
// and attaches the session user to the context.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		key := h.hashToken(token)
		userID, err := h.sessions.LookupSession(r.Context(), key)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			writeError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}

		u, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			// Session outlived the account (e.g. rejected after login).
			if errors.Is(err, user.ErrNotFound) {
				_ = h.sessions.DeleteSession(r.Context(), key)
				writeError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			writeError(w, http.StatusInternalServerError, "user lookup failed")
			return
		}

		ctx := context.WithValue(r.Context(), authContextKey{}, authInfo{key: key, user: u})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects non-admin sessions. Must run after withSession.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := authFromContext(r.Context())
		if !ok || !info.user.Admin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.FirstName == "" || req.LastName == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "firstName, lastName and phone are required")
		return
	}

	u, err := h.users.Register(r.Context(), req.FirstName, req.LastName, req.Phone)
	if err != nil {
		if errors.Is(err, user.ErrPhoneTaken) {
			writeError(w, http.StatusConflict, "phone already registered")
			return
		}
		zctx.From(r.Context()).Error("Register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// loginRequest matches on phone only; the name fields are accepted for older
// client call shapes and ignored.
type loginRequest struct {
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	u, err := h.users.Login(r.Context(), req.Phone)
	if err != nil {
		// Unknown and pending accounts get the same answer so the login
		// form cannot be used to probe which phones are registered.
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrNotApproved) {
			writeError(w, http.StatusUnauthorized, "unknown phone or account pending approval")
			return
		}
		zctx.From(r.Context()).Error("Login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token := uuid.New().String()
	if err := h.sessions.SaveSession(r.Context(), h.hashToken(token), u.ID); err != nil {
		zctx.From(r.Context()).Error("Save session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())
	writeJSON(w, http.StatusOK, info.user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())
	if err := h.sessions.DeleteSession(r.Context(), info.key); err != nil {
		zctx.From(r.Context()).Error("Delete session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("List users failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list users failed")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) approveUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.Approve(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		zctx.From(r.Context()).Error("Approve user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "approve failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rejectUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	info, _ := authFromContext(r.Context())
	if info.user.ID == id {
		writeError(w, http.StatusUnprocessableEntity, "cannot reject own account")
		return
	}

	if err := h.users.Reject(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		zctx.From(r.Context()).Error("Reject user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reject failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
