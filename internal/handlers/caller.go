package handlers

import (
	"context"
	"fmt"
	"net/http"

	"eventmarket/models"

	"github.com/google/uuid"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type callerKey struct{}

// ContextWithCaller stores an authenticated caller in ctx.
func ContextWithCaller(ctx context.Context, c models.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func callerFrom(ctx context.Context) (models.Caller, error) {
	c, ok := ctx.Value(callerKey{}).(models.Caller)
	if !ok {
		return models.Caller{}, fmt.Errorf("%w: missing caller", models.ErrUnauthorized)
	}
	return c, nil
}

// Identify reads the caller set by the auth gateway. Anonymous requests
// pass through; malformed identity headers are rejected.
func (h *Handler) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(rawID)
		role := models.Role(r.Header.Get(HeaderUserRole))
		if err != nil || !role.Valid() {
			h.writeError(w, r, fmt.Errorf("%w: invalid caller identity", models.ErrUnauthorized))
			return
		}
		ctx := ContextWithCaller(r.Context(), models.Caller{UserID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
