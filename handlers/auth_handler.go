package handlers

import (
	"context"
	"fmt"
	"net/http"

	"cafebackend/apperr"
	"cafebackend/models"
	"cafebackend/service"
	"cafebackend/utils"

	"github.com/gin-gonic/gin"
)

type AuthUseCase interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Register(ctx context.Context, username, password, role string) (*models.User, error)
	Me(ctx context.Context, p service.Principal) (*models.User, error)
}

type AuthHandler struct {
	auth       AuthUseCase
	cookie     utils.CookieOptions
	production bool
}

func NewAuthHandler(auth AuthUseCase, cookie utils.CookieOptions, production bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, production: production}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, invalidBody(err), h.production)
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}

	utils.SetSessionCookie(c, token, h.cookie)
	utils.Success(c, http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, invalidBody(err), h.production)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), input.Username, input.Password, input.Role)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusCreated, gin.H{"message": "user registered", "user": user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := utils.GetPrincipal(c)
	if !ok {
		utils.Fail(c, apperr.ErrUnauthorized, h.production)
		return
	}
	user, err := h.auth.Me(c.Request.Context(), p)
	if err != nil {
		utils.Fail(c, fmt.Errorf("current user: %w", err), h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"data": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearSessionCookie(c, h.cookie)
	utils.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}
