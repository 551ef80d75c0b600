package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	httpresx "github.com/wot-oss/resx/internal/app/http"
	"github.com/wot-oss/resx/internal/app/http/server"
	"github.com/wot-oss/resx/internal/utils"
)

const (
	ScopeAdmin = "resx.admin"
	ScopeRead  = "resx.read"
)

type JWTValidationOpts struct {
	// JWTServiceID must be contained in the audience claim of accepted tokens
	JWTServiceID string
	// JWKSURLString is the location of the key set used to verify token signatures
	JWKSURLString string
}

// GetMiddleware starts refreshing the JWKS key set in the background until ctx is done and returns a
// middleware validating bearer tokens with it
func GetMiddleware(ctx context.Context, opts JWTValidationOpts) (server.MiddlewareFunc, error) {
	if _, err := url.ParseRequestURI(opts.JWKSURLString); err != nil {
		return nil, fmt.Errorf("jwt validation activated, but jwks URL is invalid: %w", err)
	}
	if opts.JWTServiceID == "" {
		return nil, errors.New("jwt validation activated, but no service id given")
	}
	k, err := keyfunc.NewDefaultCtx(ctx, []string{opts.JWKSURLString})
	if err != nil {
		return nil, fmt.Errorf("cannot load jwks: %w", err)
	}
	return newValidationMiddleware(k.Keyfunc, opts.JWTServiceID), nil
}

func newValidationMiddleware(keyFunc jwt.Keyfunc, serviceID string) server.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// existing scopes in ctx is the only hint for a protected endpoint
			if extractAuthScopes(r) == nil {
				h.ServeHTTP(w, r)
				return
			}
			log := utils.GetLogger(r.Context(), "jwt.validation.middleware").With("authentication", true)
			log.Debug("jwt: protected endpoint:", "path", r.URL)

			tokenString, err := extractBearerToken(r)
			if err != nil {
				log.Warn("failed to extract token", "error", err)
				httpresx.HandleErrorResponse(w, r, httpresx.NewUnauthorizedError(err, "%v", err.Error()))
				return
			}
			token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, keyFunc)
			if err != nil {
				log.Warn("token validation failed", "error", err)
				httpresx.HandleErrorResponse(w, r, httpresx.NewUnauthorizedError(err, "%v", err.Error()))
				return
			}
			if err := validateAudClaim(token, serviceID); err != nil {
				log.Warn("audience validation failed", "error", err)
				httpresx.HandleErrorResponse(w, r, httpresx.NewUnauthorizedError(err, "%v", err.Error()))
				return
			}
			scopes, err := getScopesFromToken(token)
			if err != nil {
				log.Warn("failed to get scopes from token", "error", err)
				httpresx.HandleErrorResponse(w, r, httpresx.NewUnauthorizedError(err, "%v", err.Error()))
				return
			}
			if err := checkAccess(r, scopes); err != nil {
				log.Warn("the user doesn't have access rights for the requested endpoint", "error", err)
				httpresx.HandleErrorResponse(w, r, httpresx.NewUnauthorizedError(err, "%v", err.Error()))
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

func extractAuthScopes(r *http.Request) any {
	return r.Context().Value(server.BearerAuthScopes)
}

var TokenNotFoundError = errors.New("'Authorization' header does not contain a bearer token")

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(httpresx.HeaderAuthorization)
	parts := strings.Split(header, " ")

	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", TokenNotFoundError
	}
	return parts[1], nil
}

var ErrInvalidAudClaim = errors.New("claim 'aud' did not contain valid service id")
var ErrAccessDenied = errors.New("user does not have access to this resource")

func validateAudClaim(token *jwt.Token, serviceID string) error {
	audClaims, err := token.Claims.GetAudience()
	if err != nil {
		return err
	}
	for _, audClaim := range audClaims {
		if audClaim == serviceID {
			return nil
		}
	}
	return ErrInvalidAudClaim
}

// getScopesFromToken reads the scope claim, given either as a list or as a space separated string.
// A missing claim yields no scopes.
func getScopesFromToken(token *jwt.Token) ([]string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims type assertion failed")
	}
	scopeInterface, exists := claims["scope"]
	if !exists {
		return nil, nil
	}
	var scopes []string
	switch v := scopeInterface.(type) {
	case string:
		scopes = strings.Fields(v)
	case []string:
		scopes = v
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				scopes = append(scopes, str)
			} else {
				return nil, fmt.Errorf("scope item is not a string, got type %T", item)
			}
		}
	default:
		return nil, fmt.Errorf("scope claim has unexpected type %T", scopeInterface)
	}
	return scopes, nil
}

// checkAccess grants read requests to tokens without scopes or with the read scope, and everything to admins
func checkAccess(r *http.Request, scopes []string) error {
	isRead := r.Method == http.MethodGet || r.Method == http.MethodHead
	if len(scopes) == 0 && isRead {
		return nil
	}
	for _, scope := range scopes {
		if scope == ScopeAdmin {
			return nil
		}
		if scope == ScopeRead && isRead {
			return nil
		}
	}
	return ErrAccessDenied
}
