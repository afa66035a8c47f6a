package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/infrastructure/ai"
	"github.com/alchemorsel/cookbook/internal/ports/inbound"
)

type handlers struct {
	extractor   inbound.RecipeExtractionService
	logger      *zap.Logger
	modelHealth *ai.HealthChecker
}

func (h *handlers) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *handlers) handleHello(c *gin.Context) {
	c.String(http.StatusOK, fmt.Sprintf("Hello, Cookbook user %s!", c.Param("name")))
}

// handleHealth is a cheap liveness probe over the configured model
// endpoint; not part of §6.1 but carried as ambient ops tooling the way
// the teacher's own health-check surface is.
func (h *handlers) handleHealth(c *gin.Context) {
	if err := h.modelHealth.Check(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "reason": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extractRecipeRequest mirrors §6.1's POST /recipe JSON body.
type extractRecipeRequest struct {
	URL   string `json:"url" binding:"required"`
	HTML  string `json:"html"`
	Title string `json:"title" binding:"required"`
}

type extractRecipeResponse struct {
	URL            string      `json:"url"`
	Title          string      `json:"title"`
	IsRecipe       bool        `json:"is_recipe"`
	StorageRef     *storageRef `json:"storage_ref,omitempty"`
	StorageWarning string      `json:"storage_warning,omitempty"`
}

type storageRef struct {
	FolderRef string `json:"folder_ref"`
	FileRef   string `json:"file_ref"`
	Filename  string `json:"filename"`
}

func (h *handlers) handleExtractRecipe(c *gin.Context) {
	var body extractRecipeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code":    "BAD_REQUEST",
			"message": "url and title are required",
		}})
		return
	}

	compression := inbound.Compression(c.Query("compression"))
	if compression != inbound.CompressionAuto && compression != inbound.CompressionNone {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code":    "BAD_REQUEST",
			"message": "compression must be blank or \"none\"",
		}})
		return
	}

	identity, _ := c.Get("identity")
	subject, _ := identity.(string)

	resp, err := h.extractor.ExtractRecipe(c.Request.Context(), inbound.ExtractRequest{
		UserIdentity: subject,
		URL:          body.URL,
		HTML:         body.HTML,
		Compression:  compression,
		Title:        body.Title,
	})
	if err != nil {
		c.Error(err)
		return
	}

	out := extractRecipeResponse{
		URL:            resp.URL,
		Title:          resp.Title,
		IsRecipe:       resp.IsRecipe,
		StorageWarning: resp.StorageWarning,
	}
	if resp.StorageRef != nil {
		out.StorageRef = &storageRef{
			FolderRef: resp.StorageRef.FolderRef,
			FileRef:   resp.StorageRef.FileRef,
			Filename:  resp.StorageRef.Filename,
		}
	}
	c.JSON(http.StatusOK, out)
}
