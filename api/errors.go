package api

import (
	"net/http"

	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(code string) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidRequest:
		return http.StatusBadRequest
	case domain.CodeCapacityExceeded, domain.CodeDuplicateBooking, domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	code := domain.Code(err)
	msg := err.Error()
	if code == domain.CodeInternal {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(statusFor(code), errorResponse{Error: msg, Code: code})
}

func writeBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg, Code: domain.CodeInvalidRequest})
}
