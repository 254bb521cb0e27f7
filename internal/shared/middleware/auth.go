package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/shared/web"
	"blog-backend/pkg/jwt"
)

// Authenticate resolves the caller from the session cookie or a Bearer
// header. Missing or invalid tokens leave the request anonymous.
func Authenticate(manager *jwt.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := manager.ValidateAccessToken(token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Ignoring invalid access token")
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			log.Debug().Str("user_id", claims.UserID).Msg("Ignoring token with malformed user id")
			c.Next()
			return
		}

		c.Set(web.IdentityKey, &web.Identity{UserID: userID, Username: claims.Username})
		c.Next()
	}
}

// LoginRequired redirects anonymous callers to loginURL?next=<requested path>.
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if web.IdentityFrom(c) != nil {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, LoginRedirectURL(loginURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginRedirectURL keeps '/' readable in the next parameter.
func LoginRedirectURL(loginURL, next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return loginURL + "?next=" + escaped
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
