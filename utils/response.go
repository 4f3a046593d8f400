package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

func JSON200(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{"status": 200, "data": data})
}

func JSON201(c *gin.Context, data interface{}) {
	c.JSON(201, gin.H{"status": 201, "data": data})
}

func JSON400(c *gin.Context, message string) {
	c.JSON(400, gin.H{"status": 400, "error": message})
}

func JSON404(c *gin.Context, message string) {
	c.JSON(404, gin.H{"status": 404, "error": message})
}

func JSON409(c *gin.Context, message string) {
	c.JSON(409, gin.H{"status": 409, "error": message})
}

func JSON500(c *gin.Context, message string) {
	c.JSON(500, gin.H{"status": 500, "error": message})
}

func JSON503(c *gin.Context, message string) {
	c.JSON(503, gin.H{"status": 503, "error": message})
}

// JSONStorageError picks the response code from the error taxonomy.
func JSONStorageError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		JSON404(c, message)
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrStorageUnavailable):
		JSON503(c, message)
	default:
		JSON500(c, message)
	}
}
