// Package handler はmediaフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"agrimarket_backend/internal/api"
	"agrimarket_backend/internal/feature/media/usecase"
)

const msgUploadFailed = "Upload failed"

// MediaUsecase は画像エンコードのユースケースを定義します。
type MediaUsecase interface {
	EncodeImage(declaredType string, f usecase.ImageFile) (string, error)
}

// UploadRes はアップロード成功時のレスポンスです。
type UploadRes struct {
	ImageURL string `json:"imageUrl"`
}

type UploadHandler struct {
	media MediaUsecase
}

func NewUploadHandler(media MediaUsecase) *UploadHandler {
	return &UploadHandler{media: media}
}

// Upload は multipart の file フィールドを受け取り、データURLを返します。
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: usecase.ErrNoFile.Error()})
		return
	}

	var file openapi_types.File
	file.InitFromMultipart(header)

	url, err := h.media.EncodeImage(header.Header.Get("Content-Type"), &file)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoFile),
			errors.Is(err, usecase.ErrUnsupportedType),
			errors.Is(err, usecase.ErrTooLarge):
			slog.Warn("upload rejected", "error", err, "filename", header.Filename, "size", header.Size, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		default:
			slog.Error("upload failed", "error", err, "filename", header.Filename)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: msgUploadFailed})
		}
		return
	}

	c.JSON(http.StatusOK, UploadRes{ImageURL: url})
}
