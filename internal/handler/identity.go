package handler

import (
	"feednana/config"
	"feednana/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

const anonCookie = "anon_session"

// resolveIdentity turns the request into an Identity: the JWT user when
// one is set, the anon session behind the cookie otherwise. A fresh anon
// session writes its cookie back onto the response.
func resolveIdentity(c *gin.Context) (service.Identity, error) {
	if raw, ok := c.Get("user_id"); ok {
		if userID, ok := raw.(uint64); ok {
			identity := service.Identity{UserID: &userID}
			if name, ok := c.Get("username"); ok {
				identity.UserName, _ = name.(string)
			}
			return identity, nil
		}
	}
	token, _ := c.Cookie(anonCookie)
	identity, newToken, err := service.GetOrCreateAnonIdentity(c.Request.Context(), token)
	if err != nil {
		return service.Identity{}, err
	}
	if newToken != token {
		c.SetCookie(
			anonCookie,
			newToken,
			int(config.AppConfig.AnonSessionTTL.Seconds()),
			"/",
			"",
			false,
			true,
		)
	}
	return identity, nil
}

func abortIdentity(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "identity resolution failed: " + err.Error()})
}
