package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/FatimaaAlzahraa/RouteX/internal/dto"
	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JWTConfig struct {
	AccessSecret string
	Issuer       string
	Audience     string
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthRequired проверяет Bearer-токен и резолвит актора ровно один раз:
// роль из claims должна быть подтверждена профильной записью, дальше по
// стеку идёт готовый Actor в контексте запроса.
func AuthRequired(cfg JWTConfig, identity service.IdentityService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing Authorization header"))
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		claims := &accessClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.AccessSecret), nil
		},
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token subject"))
			return
		}

		actor, err := identity.ResolveActor(c.Request.Context(), userID, models.UserRole(claims.Role))
		if err != nil {
			if errors.Is(err, service.ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("no profile for this user"))
				return
			}
			log.Error("actor resolution failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewInternalError(""))
			return
		}

		c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// ExtractBearerToken извлекает токен из заголовка Authorization,
// устойчиво к лишним кавычкам и мусору после запятой.
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.TrimSpace(parts[1])
	t = strings.Trim(t, " \"'")
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	return t, true
}
