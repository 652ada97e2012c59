package stores

import "github.com/gin-gonic/gin"

const ErrorTitle = "error-title"

func SetErrorTitle(c *gin.Context, title string) {
	c.Set(ErrorTitle, title)
}

func GetErrorTitle(c *gin.Context) string {
	if title := c.GetString(ErrorTitle); title != "" {
		return title
	}

	return "Error"
}
