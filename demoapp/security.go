package demoapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// DefaultSecret is the HMAC key used by DefaultSecurityConfig.
const DefaultSecret = "your-256-bit-secret"

const bearerPrefix = "Bearer "

type claimsKey struct{}

// SecurityConfig controls SecurityFilter. OPTIONS and HEAD requests, and any request whose
// path matches one of IgnorePaths, pass without a token. Patterns use Ant syntax: "*" matches
// one path segment and a trailing "/**" matches any number of segments, including none.
type SecurityConfig struct {
	IgnorePaths []string
	Secret      []byte
}

// DefaultSecurityConfig leaves the health check and the /api/v1 routes open.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		IgnorePaths: []string{HealthPath, BasePath + "/**"},
		Secret:      []byte(DefaultSecret),
	}
}

// SecurityFilter returns middleware that requires an "Authorization: Bearer" header carrying
// an HS256 JWT signed with config.Secret. Requests without a valid token get a 401 response;
// for the others the verified claims are available from ClaimsFromContext.
func SecurityFilter(config SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method == http.MethodOptions || req.Method == http.MethodHead || config.ignores(req.URL.Path) {
				next.ServeHTTP(w, req)
				return
			}
			claims, err := config.verify(req.Header.Get("Authorization"))
			if err != nil {
				writeResult(w, http.StatusUnauthorized, Fail(CodeUnauthorized, err.Error()))
				return
			}
			next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), claimsKey{}, claims)))
		})
	}
}

// ClaimsFromContext returns the claims that SecurityFilter verified for this request.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.MapClaims)
	return claims, ok
}

func (c SecurityConfig) ignores(path string) bool {
	for _, pattern := range c.IgnorePaths {
		if matchAntPattern(pattern, path) {
			return true
		}
	}
	return false
}

func (c SecurityConfig) verify(header string) (jwt.MapClaims, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, fmt.Errorf("missing bearer token")
	}
	token, err := jwt.Parse(strings.TrimPrefix(header, bearerPrefix), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// matchAntPattern supports "**" only as the last segment of a pattern.
func matchAntPattern(pattern, path string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range patternParts {
		if p == "**" && i == len(patternParts)-1 {
			return true
		}
		if i >= len(pathParts) || (p != "*" && p != pathParts[i]) {
			return false
		}
	}
	return len(patternParts) == len(pathParts)
}
