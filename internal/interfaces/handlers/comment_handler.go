package handlers

import (
	"net/http"

	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/interfaces/dto"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc *services.CommentService
	docSvc     *services.DocumentService
}

func NewCommentHandler(commentSvc *services.CommentService, docSvc *services.DocumentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
		docSvc:     docSvc,
	}
}

func (h *CommentHandler) Add(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "comment content cannot be empty")
		return
	}

	doc, err := h.docSvc.Find(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	comment, err := h.commentSvc.Add(c.Request.Context(), doc, currentUser(c), req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) ListByDocument(c *gin.Context) {
	doc, err := h.docSvc.Find(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	page, err := h.commentSvc.ListByDocument(c.Request.Context(), doc,
		intQuery(c, "page", 0), intQuery(c, "size", 10))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "comment content cannot be empty")
		return
	}

	comment, err := h.commentSvc.Update(c.Request.Context(), c.Param("commentId"), req.Content, currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.commentSvc.Delete(c.Request.Context(), c.Param("commentId"), currentUser(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}
