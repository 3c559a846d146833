package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CartCookie names the anonymous session cookie carrying the cart id.
	CartCookie = "ph_cart"

	cartCookieMaxAge = int(30 * 24 * time.Hour / time.Second)
)

// CartSession ensures every storefront request carries a session id. A missing
// or malformed cookie gets a fresh uuid; the id is set on the context under
// "session_id".
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(CartCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CartCookie, sessionID, cartCookieMaxAge, "/", "", false, true)
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}
