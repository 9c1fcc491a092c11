package middleware

import (
	"context"
	"errors"
	"net/http"

	goCrypt "github.com/MrEthical07/goCrypt"
)

// CookieName is the cookie carrying the token.
const CookieName = "auth-token"

// ErrTokenNotInCookie is stored on the context when the request has no token cookie.
var ErrTokenNotInCookie = errors.New("token not in cookie")

type authResultContextKey struct{}

type resolved struct {
	result *goCrypt.AuthResult
	err    error
}

// AuthResultFromContext returns the result stored by a guard. ok is false
// when no guard ran or authentication failed.
func AuthResultFromContext(ctx context.Context) (*goCrypt.AuthResult, bool) {
	r, ok := ctx.Value(authResultContextKey{}).(resolved)
	if !ok || r.err != nil {
		return nil, false
	}
	return r.result, true
}

// AuthErrorFromContext returns why authentication failed, or nil.
func AuthErrorFromContext(ctx context.Context) error {
	r, ok := ctx.Value(authResultContextKey{}).(resolved)
	if !ok {
		return nil
	}
	return r.err
}

// ResolveToken returns middleware that authenticates the token cookie when
// present and always calls next.
func ResolveToken(engine *goCrypt.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, resolve(engine, w, r))
		})
	}
}

// RequireToken returns middleware that rejects requests without a valid
// token cookie with 401.
func RequireToken(engine *goCrypt.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = resolve(engine, w, r)
			if _, ok := AuthResultFromContext(r.Context()); !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolve(engine *goCrypt.Engine, w http.ResponseWriter, r *http.Request) *http.Request {
	res := authenticate(engine, r)
	if res.err != nil {
		if !errors.Is(res.err, ErrTokenNotInCookie) {
			ClearTokenCookie(w, r)
		}
	} else {
		SetTokenCookie(w, r, res.result.Token, res.result.ExpiresAt)
	}

	ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
	return r.WithContext(ctx)
}

func authenticate(engine *goCrypt.Engine, r *http.Request) resolved {
	if engine == nil {
		return resolved{err: goCrypt.ErrEngineNotReady}
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return resolved{err: ErrTokenNotInCookie}
	}

	result, err := engine.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		return resolved{err: err}
	}
	return resolved{result: result}
}
