package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"luxe-backend/internal/apperr"
)

// UploadImage accepts an admin multipart image and stores it in the "luxe"
// Cloudinary folder. A nil client means object storage is unconfigured.
func UploadImage(cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/upload"
		defer handlePanic(c, route)

		if cld == nil {
			fail(c, route, apperr.Upstream("image storage not configured"))
			return
		}

		header, err := c.FormFile("image")
		if err != nil {
			fail(c, route, apperr.BadRequest("No image provided"))
			return
		}

		file, err := header.Open()
		if err != nil {
			fail(c, route, apperr.BadRequest("No image provided"))
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: "luxe"})
		if err != nil {
			log.Println("[UPLOAD] [ERROR] cloudinary upload failed:", err)
			fail(c, route, apperr.Upstream("Upload failed"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "url": result.SecureURL})
	}
}
