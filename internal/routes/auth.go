package routes

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/btmxh/folio/internal/auth"
	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/errs"
	"github.com/btmxh/folio/internal/middlewares"
	"github.com/btmxh/folio/internal/services"
	"github.com/gin-gonic/gin"
)

var emptyUsernameError = errors.New("Username must not be empty.")
var emptyPasswordError = errors.New("Password must not be empty.")

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func AuthRouter(g *gin.RouterGroup) {
	g.POST("/login", login)
	g.POST("/logout", logout)
	g.GET("/me", me)
}

func login(c *gin.Context) {
	handler := errs.NewGinErrorHandler(c, "Login error")

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		handler.PrivateError(err)
		handler.PublicError(http.StatusBadRequest, invalidBodyError)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) == 0 {
		handler.PublicError(http.StatusUnprocessableEntity, emptyUsernameError)
		return
	}
	if len(req.Password) == 0 {
		handler.PublicError(http.StatusUnprocessableEntity, emptyPasswordError)
		return
	}

	tx := db.BeginTx(c.Request.Context(), handler)
	if tx == nil {
		return
	}
	defer tx.Rollback()

	signedToken, timeout, hasErr := services.LogIn(tx, req.Username, req.Password)
	if hasErr || tx.Commit() {
		return
	}

	middlewares.SetAuthCookie(c, signedToken, timeout)
	c.JSON(http.StatusOK, gin.H{
		"username":  req.Username,
		"expiresAt": time.Now().Add(timeout),
	})
}

func logout(c *gin.Context) {
	middlewares.Logout(c)
	c.Status(http.StatusNoContent)
}

func me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loggedIn": auth.IsLoggedIn(c),
		"username": auth.GetUsername(c),
	})
}
