package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jwalitptl/fhir-console/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Page represents pagination metadata for a list view. Totals are unknown
// because the resource server does not report them; the view only knows
// the window it asked for and whether a full window came back.
type Page struct {
	Count   int  `json:"count"`
	Offset  int  `json:"offset"`
	Results int  `json:"results"`
	Full    bool `json:"full"`
}

// ListResponse wraps a paginated list view
type ListResponse struct {
	Data interface{} `json:"data"`
	Page Page        `json:"page"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response for a newly created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
		switch appErr.Code {
		case errors.ErrNotFound:
			statusCode = http.StatusNotFound
		case errors.ErrBadRequest:
			statusCode = http.StatusBadRequest
		case errors.ErrUnauthorized:
			statusCode = http.StatusUnauthorized
		case errors.ErrUpstream:
			statusCode = http.StatusBadGateway
		}
	}

	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    statusCode,
			Message: message,
		},
	})
}

// RespondWithList sends a paginated list response
func RespondWithList(c *gin.Context, data interface{}, count, offset, results int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ListResponse{
			Data: data,
			Page: Page{
				Count:   count,
				Offset:  offset,
				Results: results,
				Full:    results >= count,
			},
		},
	})
}
