package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wish-lottery-backend/internal/common/errors"
	"wish-lottery-backend/internal/features/view"
)

type ViewHandler struct {
	router *view.Router
}

func NewViewHandler(router *view.Router) *ViewHandler {
	return &ViewHandler{router: router}
}

func (h *ViewHandler) RegisterRoutes(router *gin.RouterGroup) {
	views := router.Group("/views")
	{
		views.GET("/current", h.current)
		views.PUT("/current", h.navigate)
		views.GET("/resolve/:token", h.resolve)
	}
}

func (h *ViewHandler) current(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"view": h.router.Current()})
}

type navigateRequest struct {
	Token string `json:"token"`
}

func (h *ViewHandler) navigate(c *gin.Context) {
	var input navigateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": h.router.Navigate(input.Token)})
}

func (h *ViewHandler) resolve(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"view": view.Resolve(c.Param("token"))})
}
