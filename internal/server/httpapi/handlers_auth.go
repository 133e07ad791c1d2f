package httpapi

import (
	"errors"
	"net/http"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userData is the public projection of an account returned on login.
type userData struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	user, token, err := s.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			record(c, models.ActionRegisterFailed, "Intento de registro fallido - Validación fallida: "+req.Email)
		}
		renderError(c, err)
		return
	}

	recordFor(c, user.ID, models.ActionRegisterSuccessful, "Registro de usuario exitoso: "+user.Email)
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "User successfully created",
		"token":   token,
	})
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	user, token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Only a credentials failure is audited; malformed input is not.
		if errors.Is(err, common.ErrorUnauthorized) {
			record(c, models.ActionLoginFailed, "Intento de inicio de sesión fallido - Credenciales incorrectas: "+req.Email)
		}
		renderError(c, err)
		return
	}

	recordFor(c, user.ID, models.ActionLoginSuccessful, "Inicio de sesión exitoso: "+user.Email)
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "User successfully authenticated",
		"data":    userData{ID: user.ID, Name: user.Name, Email: user.Email},
		"token":   token,
	})
}

func (s *HTTPServer) handleLogout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		// The gate always runs first; reaching here without a user is a bug.
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": []string{"Internal error"}})
		return
	}

	if err := s.auth.Logout(c.Request.Context(), user.ID); err != nil {
		renderError(c, err)
		return
	}

	record(c, models.ActionLogoutSuccessful, "Cierre de sesión exitoso")
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "User successfully logged out",
	})
}
