package services

import (
	"context"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/collegefest/champboard/internal/errors"
)

// QRSize is the edge length of generated QR images, in pixels
const QRSize = 256

// BaseURLProvider supplies the public base URL QR codes point at
type BaseURLProvider interface {
	GetBaseURL(ctx context.Context) (string, error)
}

// QRService renders QR codes linking to public pages
type QRService struct {
	settings BaseURLProvider
}

// NewQRService creates a new QRService
func NewQRService(settings BaseURLProvider) *QRService {
	return &QRService{settings: settings}
}

// PageURL returns the absolute public URL of path
func (s *QRService) PageURL(ctx context.Context, path string) (string, error) {
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		return "", errors.Validation("base_url not configured")
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(baseURL, "/"), strings.TrimPrefix(path, "/")), nil
}

// PageQR returns a PNG QR code for the public page at path
func (s *QRService) PageQR(ctx context.Context, path string) ([]byte, error) {
	pageURL, err := s.PageURL(ctx, path)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(pageURL, qrcode.Medium, QRSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render QR code")
	}
	return png, nil
}
