package api

import (
	"net/http"

	"github.com/Domenick1991/classbooking/internal/service/classes"
	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	service classes.ClassUseCase
}

func NewClassHandler(service classes.ClassUseCase) *ClassHandler {
	return &ClassHandler{service: service}
}

func (h *ClassHandler) Register(router *gin.RouterGroup) {
	router.GET("/classes", h.list)
}

// list godoc
// @Summary      List upcoming classes
// @Tags         classes
// @Produce      json
// @Param        timezone  query     string  false  "IANA time zone"  default(Asia/Kolkata)
// @Success      200       {array}   domain.ClassView
// @Failure      400       {object}  errorResponse
// @Router       /classes [get]
func (h *ClassHandler) list(c *gin.Context) {
	views, err := h.service.ListUpcoming(c.Request.Context(), c.Query("timezone"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
