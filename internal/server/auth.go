package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionUserKey = "user"

// Auth Middleware
func (s *Server) authRequired(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get(sessionUserKey)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Auth.Password)) == 1
	if !userOK || !passOK {
		s.logger.Warn("failed login",
			slog.String("username", username),
			slog.String("client_ip", c.ClientIP()))
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error": "Invalid username or password",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, username)
	if err := session.Save(); err != nil {
		s.logger.Error("saving session", slog.Any("error", err))
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Could not start a session"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) handleLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		s.logger.Error("clearing session", slog.Any("error", err))
	}
	c.Redirect(http.StatusFound, "/login")
}
