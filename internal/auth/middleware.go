package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "userID", id), ANY package that knows the string "userID"
// can read or shadow your value. Using a package-private type prevents collisions:
// only THIS package can create a key of type contextKey, so only this package
// can read or write userID values in the context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "token" HttpOnly cookie or the Authorization
// header, validates it, and stores the userID in the request context. If
// the token is missing or invalid, it returns 401 Unauthorized and stops
// the request chain.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... do stuff before the handler ...
//	        next.ServeHTTP(w, r)
//	        // ... do stuff after the handler ...
//	    })
//	}
//
// Chi applies middlewares in a chain: req, M1, M2, Handler, then back out.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			// Store userID in context so handlers can read it
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is a middleware that extracts the user identity if a valid token
// is present, but does NOT block the request if it's missing or invalid.
//
// Use this on public routes like GET /api/scripts where:
// - Anonymous users can still read
// - But logged-in users might see additional data
//
// Handlers check for the user via UserIDFromContext. If it returns
// ("", false), the request is anonymous.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				r = r.WithContext(ctx)
			}
			// Always continue, no 401 even without a token
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request context.
//
// Returns ("", false) if the request is anonymous (no valid token was present).
// Returns (id, true) if the user is authenticated.
//
// Usage in handlers:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // anonymous user
//	}
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID pulls the JWT from the request and validates it.
// Private helper shared by RequireAuth and OptionalAuth.
//
// Two transport options, checked in order:
//  1. Authorization: Bearer <jwt>  (CLI and API clients)
//  2. Cookie: token=<jwt>          (browsers; set HttpOnly on login)
//
// HttpOnly cookies can't be read by JavaScript, which keeps the token
// out of reach of XSS. The header form exists for clients that have no
// cookie jar.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok {
			return tokens.Validate(strings.TrimSpace(raw))
		}
	}

	cookie, err := r.Cookie("token")
	if err != nil {
		// http.ErrNoCookie means the cookie isn't present, so the
		// request is anonymous
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
