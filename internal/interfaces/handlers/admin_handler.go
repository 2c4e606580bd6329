package handlers

import (
	"net/http"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/interfaces/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler owns the /admin/users surface. All routes sit behind
// AuthRequired + AdminRequired.
type AdminHandler struct {
	userSvc *services.UserService
}

func NewAdminHandler(userSvc *services.UserService) *AdminHandler {
	return &AdminHandler{userSvc: userSvc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := &entities.UserFilter{
		Search: c.Query("search"),
		Page:   intQuery(c, "page", 0),
		Size:   intQuery(c, "size", 10),
	}

	users, total, err := h.userSvc.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	content := make([]dto.UserDto, 0, len(users))
	for _, user := range users {
		userDto := dto.NewUserDto(user)
		userDto.DocumentCount = h.userSvc.DocumentCount(c.Request.Context(), user.ID)
		content = append(content, userDto)
	}

	totalPages := 0
	if filter.Size > 0 {
		totalPages = int((total + int64(filter.Size) - 1) / int64(filter.Size))
	}

	c.JSON(http.StatusOK, dto.UserPage{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          filter.Size,
		Number:        filter.Page,
		Last:          filter.Page >= totalPages-1,
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	userDto := dto.NewUserDto(user)
	userDto.DocumentCount = h.userSvc.DocumentCount(c.Request.Context(), user.ID)

	c.JSON(http.StatusOK, userDto)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), req.Username, req.Password, req.FullName, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserDto(user))
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), services.UserUpdate{
		Email:            req.Email,
		FullName:         req.FullName,
		Enabled:          req.Enabled,
		AccountNonLocked: req.AccountNonLocked,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserDto(user))
}

func (h *AdminHandler) UpdatePassword(c *gin.Context) {
	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "password is required")
		return
	}

	if err := h.userSvc.UpdatePassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated successfully"})
}

func (h *AdminHandler) BlockUser(c *gin.Context) {
	var req dto.BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Block == nil {
		respondWithError(c, http.StatusBadRequest, "block status is required")
		return
	}

	user, err := h.userSvc.SetBlocked(c.Request.Context(), c.Param("id"), *req.Block)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "User unblocked successfully"
	if *req.Block {
		message = "User blocked successfully"
	}

	c.JSON(http.StatusOK, dto.BlockUserResponse{
		Message: message,
		User:    dto.NewUserDto(user),
	})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
