package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudtalk/internal/models"
	"cloudtalk/internal/repositories"
)

// DataHandler serves the whole-document GET/PUT endpoint the sync engine
// consumes.
type DataHandler struct {
	repo repositories.DocumentRepository
}

// NewDataHandler builds a DataHandler.
func NewDataHandler(repo repositories.DocumentRepository) *DataHandler {
	return &DataHandler{repo: repo}
}

// GetDocument returns the full document. An empty store yields the empty
// document rather than 404 so fresh deployments bootstrap cleanly.
func (h *DataHandler) GetDocument(c *gin.Context) {
	body, err := h.repo.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			c.JSON(http.StatusOK, models.EmptyDocument())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load document"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// PutDocument replaces the document wholesale. There are no partial writes
// and no field-level merge; the body either parses as a document and is
// stored in full, or the write is rejected.
func (h *DataHandler) PutDocument(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body is not a valid document"})
		return
	}

	if err := h.repo.Replace(c.Request.Context(), body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store document"})
		return
	}

	// Echo the stored document, jsonblob-style.
	c.Data(http.StatusOK, "application/json", body)
}

// Healthz reports liveness.
func (h *DataHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
