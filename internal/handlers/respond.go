package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"luxe-backend/internal/apperr"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
	}
}

// fail renders a typed error; anything unrecognized becomes a 500 so internal
// representations never leak to clients.
func fail(c *gin.Context, route string, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		log.Printf("[%s] returning error %d: %s", route, appErr.Status, appErr.Message)
		c.AbortWithStatusJSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
		return
	}

	log.Printf("[%s] unexpected error: %v", route, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": strings.Join(details, ", "),
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
