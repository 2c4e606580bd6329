package handlers

import (
	"net/http"

	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/interfaces/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *services.AuthService
}

func NewAuthHandler(authSvc *services.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password, req.FullName, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:   token,
		User:    dto.NewUserDto(user),
		Message: "Registration successful",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:   token,
		User:    dto.NewUserDto(user),
		Message: "Login successful",
	})
}

// Validate lets a client confirm a persisted token is still usable
// before trusting its stored session.
func (h *AuthHandler) Validate(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		respondWithError(c, http.StatusUnauthorized, "no authentication token found")
		return
	}

	user, err := h.authSvc.ValidateToken(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ValidateResponse{
		Valid: true,
		User:  dto.NewUserDto(user),
	})
}
