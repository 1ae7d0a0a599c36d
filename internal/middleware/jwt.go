package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/aiassess/assessment-backend/internal/response"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ContextKeyClaims is the Gin context key for JWT claims.
const ContextKeyClaims = "claims"

// RequireRole validates a JWT from the Authorization header and checks that
// the token's role is one of the allowed roles.
func RequireRole(authService *service.AuthService, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		allowed := false
		for _, r := range roles {
			if claims.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			response.AbortFail(c, http.StatusForbidden, forbiddenCode(roles))
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// forbiddenCode picks the 403 code advertising which roles the route serves.
func forbiddenCode(roles []model.Role) response.ErrCode {
	admin, educator, candidate := false, false, false
	for _, r := range roles {
		switch r {
		case model.RoleAdmin:
			admin = true
		case model.RoleEducator:
			educator = true
		case model.RoleCandidate:
			candidate = true
		}
	}
	switch {
	case admin && !educator && !candidate:
		return response.ErrAdminAccessOnly
	case educator && !candidate:
		return response.ErrEducatorAccessOnly
	}
	return response.ErrForbidden
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	if tokenStr == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	return authService.ValidateToken(tokenStr)
}
