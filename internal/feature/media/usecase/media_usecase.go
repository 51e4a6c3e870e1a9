// Package usecase はアップロード画像の検証とデータURL化を行います。
package usecase

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize はアップロード可能な画像の最大サイズ（5MB）です。
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrNoFile          = errors.New("No file provided")
	ErrUnsupportedType = errors.New("Invalid file type. Only JPEG, PNG, and WebP are allowed")
	ErrTooLarge        = errors.New("File size must be less than 5MB")
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// ImageFile はアップロードされたファイルの読み取り口です。
// openapi_types.File がこれを満たします。
type ImageFile interface {
	FileSize() int64
	Bytes() ([]byte, error)
}

type mediaUsecase struct {
	maxSize int64
}

func NewMediaUsecase() *mediaUsecase {
	return &mediaUsecase{maxSize: MaxImageSize}
}

// EncodeImage は画像を検証し、data:<type>;base64,<payload> 形式の文字列を返します。
// declaredTypeが空または汎用型の場合は内容から判定します。
func (u *mediaUsecase) EncodeImage(declaredType string, f ImageFile) (string, error) {
	if f == nil {
		return "", ErrNoFile
	}

	contentType := normalizeType(declaredType)
	var data []byte
	if contentType == "" || contentType == "application/octet-stream" {
		if f.FileSize() > u.maxSize {
			return "", ErrTooLarge
		}
		b, err := f.Bytes()
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		data = b
		contentType = normalizeType(mimetype.Detect(b).String())
	}

	if _, ok := allowedTypes[contentType]; !ok {
		return "", ErrUnsupportedType
	}
	if f.FileSize() > u.maxSize {
		return "", ErrTooLarge
	}

	if data == nil {
		b, err := f.Bytes()
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		data = b
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// normalizeType はパラメータ（; charset=...）を除いたMIMEタイプを返します。
func normalizeType(t string) string {
	t, _, _ = strings.Cut(t, ";")
	return strings.ToLower(strings.TrimSpace(t))
}
