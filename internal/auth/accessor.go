package auth

import "github.com/gin-gonic/gin"

const AuthObjectKey = "auth_data"

func SetUsername(c *gin.Context, username string) {
	c.Set(AuthObjectKey, username)
}

func GetUsername(c *gin.Context) string {
	return c.GetString(AuthObjectKey)
}

// IsLoggedIn reports whether the request carries a valid admin session.
func IsLoggedIn(c *gin.Context) bool {
	return GetUsername(c) != ""
}
