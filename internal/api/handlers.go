// handlers.go - HTTP handlers for captcha recognition requests

package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bosocmputer/captcha_ocr_ensemble/configs"
	"github.com/bosocmputer/captcha_ocr_ensemble/internal/recognizer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// recognizeRequest is the JSON body variant: inline base64 payload or a path
// readable by the server. Multipart upload is handled separately.
type recognizeRequest struct {
	ImageBase64 string `json:"image_base64"`
	ImagePath   string `json:"image_path"`
}

// RecognizeCaptchaHandler accepts a captcha image and responds with the
// ensemble decision:
//
//	{ "final_text": "AB12C" | null, "details": [ ...per provider... ] }
//
// Accepted inputs, in order of precedence:
//  1. multipart form upload, field "image"
//  2. JSON body with "image_base64"
//  3. JSON body with "image_path"
func RecognizeCaptchaHandler(rec *recognizer.Recognizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Multipart upload path
		if file, err := c.FormFile("image"); err == nil {
			ext := filepath.Ext(file.Filename)
			savedPath := filepath.Join(configs.UPLOAD_DIR, uuid.New().String()+ext)
			if err := c.SaveUploadedFile(file, savedPath); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to save upload: %v", err)})
				return
			}
			defer os.Remove(savedPath)

			result, err := rec.RecognizeFile(c.Request.Context(), savedPath)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, result)
			return
		}

		// JSON body path
		var req recognizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request must be a multipart upload (field \"image\") or a JSON body"})
			return
		}

		switch {
		case req.ImageBase64 != "":
			data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is not valid base64"})
				return
			}
			result, err := rec.RecognizeBytes(c.Request.Context(), data)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, result)

		case req.ImagePath != "":
			result, err := rec.RecognizeFile(c.Request.Context(), req.ImagePath)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, result)

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide image_base64 or image_path"})
		}
	}
}
