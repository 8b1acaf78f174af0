package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/classbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	ClassID     int64  `json:"class_id" binding:"required,gt=0"`
	ClientName  string `json:"client_name" binding:"required,min=1,max=255"`
	ClientEmail string `json:"client_email" binding:"required,email,max=255"`
}

type listBookingsQuery struct {
	Email    string `form:"email"`
	Timezone string `form:"timezone"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/book", h.create)
	router.GET("/bookings", h.list)
}

// create godoc
// @Summary      Book a seat in a class
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request  body      createBookingRequest  true  "Booking request"
// @Success      201      {object}  domain.BookingConfirmation
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /book [post]
func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.ClientName) == "" {
		writeBadRequest(c, "client_name must not be blank")
		return
	}

	confirmation, err := h.service.Reserve(c.Request.Context(), booking.ReserveInput{
		ClassID:     req.ClassID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, confirmation)
}

// list godoc
// @Summary      List bookings for a client email
// @Tags         bookings
// @Produce      json
// @Param        email     query     string  false  "Client email"
// @Param        timezone  query     string  false  "IANA time zone"  default(Asia/Kolkata)
// @Success      200       {array}   domain.BookingView
// @Failure      400       {object}  errorResponse
// @Router       /bookings [get]
func (h *BookingHandler) list(c *gin.Context) {
	var q listBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	views, err := h.service.ListByEmail(c.Request.Context(), q.Email, q.Timezone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
