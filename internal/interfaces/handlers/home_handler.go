package handlers

import (
	"net/http"

	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/interfaces/dto"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	docSvc *services.DocumentService
}

func NewHomeHandler(docSvc *services.DocumentService) *HomeHandler {
	return &HomeHandler{docSvc: docSvc}
}

func (h *HomeHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.docSvc.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		NewestDocuments:  dashboard.NewestDocuments,
		PopularDocuments: dashboard.PopularDocuments,
		UserDocuments:    dashboard.UserDocuments,
	})
}
