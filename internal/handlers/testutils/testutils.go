package testutils

import (
	"context"
	"net/http"

	"eventmarket/internal/handlers"
	"eventmarket/models"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParams sets chi path parameters on a request for direct handler calls.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithCaller attaches an authenticated caller, as the Identify middleware would.
func WithCaller(req *http.Request, c models.Caller) *http.Request {
	return req.WithContext(handlers.ContextWithCaller(req.Context(), c))
}

// IdentityHeaders sets the gateway identity headers on req.
func IdentityHeaders(req *http.Request, c models.Caller) *http.Request {
	req.Header.Set(handlers.HeaderUserID, c.UserID.String())
	req.Header.Set(handlers.HeaderUserRole, string(c.Role))
	return req
}
