package api

import (
	"context"
	"errors"
	"net/http"

	"webplatform/internal/catalog"

	"github.com/gin-gonic/gin"
)

// AppStore is the read side of the remote app catalog.
type AppStore interface {
	GetCategories(ctx context.Context) map[string]string
	GetApplications(ctx context.Context, category string) ([]catalog.Application, error)
	GetApplication(ctx context.Context, id string) *catalog.Application
	GetApplicationDownload(ctx context.Context, id string) string
}

type AppStoreHandler struct {
	Store AppStore
}

func NewAppStoreHandler(store AppStore) *AppStoreHandler {
	return &AppStoreHandler{Store: store}
}

// GetCategories answers null when the store is disabled or unreachable.
func (h *AppStoreHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.GetCategories(c.Request.Context()))
}

func (h *AppStoreHandler) GetApplications(c *gin.Context) {
	apps, err := h.Store.GetApplications(c.Request.Context(), c.Param("category"))
	if errors.Is(err, catalog.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if apps == nil {
		apps = []catalog.Application{}
	}
	c.JSON(http.StatusOK, apps)
}

func (h *AppStoreHandler) GetApplication(c *gin.Context) {
	app := h.Store.GetApplication(c.Request.Context(), c.Param("id"))
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *AppStoreHandler) GetApplicationDownload(c *gin.Context) {
	url := h.Store.GetApplicationDownload(c.Request.Context(), c.Param("id"))
	if url == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"download": url})
}
