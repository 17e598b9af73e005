package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-studio-kit/pkg/generator"
	"github.com/shouni/gemini-studio-kit/pkg/slots"
	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"message": "",
		"data":    data,
	})
}

func fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": err.Error(),
	})
}

func failBadRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, err)
}

// failFor はドメインエラーを HTTP ステータスに対応付けて返します。
func failFor(c *gin.Context, err error) {
	fail(c, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, studio.ErrNothingToGenerate),
		errors.Is(err, studio.ErrEmptyImage),
		errors.Is(err, studio.ErrNoSeedSource),
		errors.Is(err, slots.ErrSlotOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, studio.ErrSeedNotFound),
		errors.Is(err, studio.ErrGalleryItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrNoOutput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, studio.ErrAssistantMissing):
		return http.StatusNotImplemented
	case generator.IsOverloaded(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
