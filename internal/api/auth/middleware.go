package auth

import (
	"log/slog"
	"strings"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/respond"
	"github.com/gin-gonic/gin"
)

const principalKey = "auth.principal"

// Verifier turns a raw bearer token into a principal
type Verifier interface {
	Verify(token string) (*domain.Principal, error)
}

// Authenticate rejects requests without a valid bearer token and attaches
// the verified principal to the context for later stages.
func Authenticate(verifier Verifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond.Error(c, logger, domain.ErrUnauthenticated, "")
			return
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, logger, err, "")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole lets the request through only when the attached principal holds
// one of roles. A request with no principal is rejected.
func RequireRole(logger *slog.Logger, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			logger.Error("Role gate reached without an authenticated principal",
				slog.String("path", c.FullPath()),
			)
			respond.Error(c, logger, domain.ErrForbidden, "")
			return
		}

		if !principal.HasRole(roles...) {
			respond.Error(c, logger, domain.ErrForbidden, "")
			return
		}

		c.Next()
	}
}

// PrincipalFrom returns the principal attached by Authenticate
func PrincipalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
