package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid_token_claims")
			return
		}

		userID, ok := claims["sub"].(float64)
		rawRole, _ := claims["role"].(string)
		role, err := jobcard.ParseRole(rawRole)
		if !ok || userID <= 0 || err != nil {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// ActorFrom monta o Actor a partir do que o AuthMiddleware colocou no contexto.
func ActorFrom(c *gin.Context) (jobcard.Actor, bool) {
	id, ok1 := c.Get(ContextUserID)
	role, ok2 := c.Get(ContextUserRole)
	if !ok1 || !ok2 {
		return jobcard.Actor{}, false
	}

	userID, ok1 := id.(uint)
	r, ok2 := role.(jobcard.Role)
	if !ok1 || !ok2 {
		return jobcard.Actor{}, false
	}
	return jobcard.Actor{UserID: userID, Role: r}, true
}

// RequireRole barra a rota inteira para quem não tem um dos papéis.
func RequireRole(roles ...jobcard.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abortUnauthorized(c, "missing_actor")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden_role", "role "+string(actor.Role)+" cannot access this resource")
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, code string) {
	httperr.Unauthorized(c, code, "authentication required")
	c.Abort()
}
