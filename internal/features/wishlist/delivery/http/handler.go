package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wish-lottery-backend/internal/common/errors"
	"wish-lottery-backend/internal/features/wishlist/models"
	wishlistservice "wish-lottery-backend/internal/features/wishlist/service"
)

// maxUploadSize bounds CSV and backup uploads.
const maxUploadSize = 5 << 20

type WishlistHandler struct {
	service wishlistservice.WishlistService
}

func NewWishlistHandler(service wishlistservice.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	names := router.Group("/names")
	{
		names.POST("", h.addName)
		names.GET("", h.listNames)
		names.GET("/available", h.availableNames)
		names.GET("/template", h.nameTemplate)
		names.POST("/import", h.importNames)
		names.DELETE("/:id", h.deleteName)
		names.DELETE("", h.clearNames)
	}

	wishes := router.Group("/wishes")
	{
		wishes.POST("", h.submitWish)
		wishes.GET("", h.listWishes)
		wishes.DELETE("/:id", h.deleteWish)
		wishes.DELETE("", h.clearWishes)
	}

	backup := router.Group("/backup")
	{
		backup.GET("", h.exportBackup)
		backup.POST("", h.importBackup)
	}

	router.GET("/stats", h.stats)
}

func (h *WishlistHandler) addName(c *gin.Context) {
	var input models.NameCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	record, err := h.service.AddName(c.Request.Context(), input.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *WishlistHandler) listNames(c *gin.Context) {
	names, err := h.service.ListNames(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *WishlistHandler) availableNames(c *gin.Context) {
	names, err := h.service.AvailableNames(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *WishlistHandler) deleteName(c *gin.Context) {
	outcome, err := h.service.DeleteName(c.Request.Context(), c.Param("id"), confirmed(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *WishlistHandler) clearNames(c *gin.Context) {
	outcome, err := h.service.ClearNames(c.Request.Context(), confirmed(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *WishlistHandler) submitWish(c *gin.Context) {
	var input models.WishCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	wish, err := h.service.SubmitWish(c.Request.Context(), input.NameID, input.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, wish)
}

func (h *WishlistHandler) listWishes(c *gin.Context) {
	wishes, err := h.service.ListWishes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wishes)
}

func (h *WishlistHandler) deleteWish(c *gin.Context) {
	if err := h.service.DeleteWish(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WishlistHandler) clearWishes(c *gin.Context) {
	if err := h.service.ClearWishes(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WishlistHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *WishlistHandler) exportBackup(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="wish-lottery-backup.json"`)
	c.JSON(http.StatusOK, doc)
}

func (h *WishlistHandler) importBackup(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadSize))
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Failed to read request body"))
		return
	}

	summary, err := h.service.Import(c.Request.Context(), raw, confirmed(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *WishlistHandler) importNames(c *gin.Context) {
	reader := h.uploadReader(c)
	if reader == nil {
		return
	}
	defer reader.Close()

	added, err := h.service.ImportNames(c.Request.Context(), reader)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *WishlistHandler) nameTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="names-template.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", h.service.NameTemplateCSV())
}

// uploadReader accepts either a multipart "file" field or a raw CSV body.
func (h *WishlistHandler) uploadReader(c *gin.Context) io.ReadCloser {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Failed to open uploaded file"))
			return nil
		}
		return f
	}
	return io.NopCloser(io.LimitReader(c.Request.Body, maxUploadSize))
}

func confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}
