package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"knowledgehub-server/internal/config"
	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/interfaces/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	docSvc  *services.DocumentService
	ai      services.AIClient
	storage config.StorageConfig
}

func NewDocumentHandler(docSvc *services.DocumentService, ai services.AIClient, storage config.StorageConfig) *DocumentHandler {
	return &DocumentHandler{
		docSvc:  docSvc,
		ai:      ai,
		storage: storage,
	}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	user := currentUser(c)

	file, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "file is required")
		return
	}

	if file.Size == 0 {
		respondWithError(c, http.StatusBadRequest, "file is empty")
		return
	}
	if h.storage.MaxSize > 0 && file.Size > h.storage.MaxSize {
		respondWithError(c, http.StatusBadRequest, "file size exceeds limit")
		return
	}

	fileType := file.Header.Get("Content-Type")
	if len(h.storage.AllowedMimes) > 0 && !slices.Contains(h.storage.AllowedMimes, fileType) {
		respondWithError(c, http.StatusBadRequest, "file type not allowed")
		return
	}

	title := c.PostForm("title")
	if strings.TrimSpace(title) == "" {
		respondWithError(c, http.StatusBadRequest, "title is required")
		return
	}

	visibility := entities.VisibilityPrivate
	if v := c.PostForm("visibility"); v != "" {
		parsed, ok := entities.ParseVisibility(strings.ToUpper(v))
		if !ok {
			respondWithError(c, http.StatusBadRequest, "invalid visibility")
			return
		}
		visibility = parsed
	}

	useAI := true
	if v := c.PostForm("useAI"); v != "" {
		useAI, _ = strconv.ParseBool(v)
	}

	if err := os.MkdirAll(h.storage.Path, 0755); err != nil {
		respondWithError(c, http.StatusInternalServerError, "failed to create storage directory")
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(h.storage.Path, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		respondWithError(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	doc, err := h.docSvc.Upload(c.Request.Context(), user, services.UploadParams{
		Title:       title,
		Description: c.PostForm("description"),
		Tags:        formTags(c),
		Visibility:  visibility,
		FileName:    file.Filename,
		FilePath:    storedPath,
		FileType:    fileType,
		FileSize:    file.Size,
		UseAI:       useAI,
	})
	if err != nil {
		os.Remove(storedPath)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Search(c *gin.Context) {
	filter := &entities.DocumentFilter{
		Query:     c.Query("q"),
		Tags:      queryTags(c),
		Requester: currentUser(c),
		Page:      intQuery(c, "page", 0),
		Size:      intQuery(c, "size", 10),
	}

	if v := c.Query("visibility"); v != "" {
		parsed, ok := entities.ParseVisibility(strings.ToUpper(v))
		if !ok {
			respondWithError(c, http.StatusBadRequest, "invalid visibility")
			return
		}
		filter.Visibility = parsed
	}

	page, err := h.docSvc.Search(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DocumentHandler) MyDocuments(c *gin.Context) {
	user := currentUser(c)

	page, err := h.docSvc.UserDocuments(c.Request.Context(), user,
		intQuery(c, "page", 0), intQuery(c, "size", 10))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DocumentHandler) Recent(c *gin.Context) {
	page, err := h.docSvc.Recent(c.Request.Context(),
		intQuery(c, "page", 0), intQuery(c, "size", 5))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DocumentHandler) Popular(c *gin.Context) {
	page, err := h.docSvc.Popular(c.Request.Context(),
		intQuery(c, "page", 0), intQuery(c, "size", 5))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *DocumentHandler) GetByID(c *gin.Context) {
	doc, err := h.docSvc.Get(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	upd := services.DocumentUpdate{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Visibility != nil {
		parsed, ok := entities.ParseVisibility(strings.ToUpper(*req.Visibility))
		if !ok {
			respondWithError(c, http.StatusBadRequest, "invalid visibility")
			return
		}
		upd.Visibility = &parsed
	}

	doc, err := h.docSvc.Update(c.Request.Context(), c.Param("id"), upd, currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.docSvc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Document deleted successfully"})
}

func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.docSvc.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if !doc.Readable(currentUser(c)) {
		respondWithError(c, http.StatusForbidden, "access denied")
		return
	}

	if _, err := os.Stat(doc.FilePath); err != nil {
		respondWithError(c, http.StatusNotFound, "file not found on server")
		return
	}

	c.Header("Content-Type", doc.FileType)
	c.FileAttachment(doc.FilePath, doc.FileName)
}

func (h *DocumentHandler) AIStatus(c *gin.Context) {
	available := h.ai != nil && h.ai.Available(c.Request.Context())

	message := "AI service is not available"
	if available {
		message = "AI service is available"
	}

	c.JSON(http.StatusOK, dto.AIStatusResponse{
		Available: available,
		Message:   message,
	})
}

// formTags collects upload tags from repeated form fields, splitting
// comma-separated values and dropping empties while keeping order.
func formTags(c *gin.Context) []string {
	return normalizeTags(c.PostFormArray("tags"))
}

func queryTags(c *gin.Context) []string {
	return normalizeTags(c.QueryArray("tags"))
}

func normalizeTags(raw []string) []string {
	var tags []string
	for _, value := range raw {
		for _, tag := range strings.Split(value, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}
