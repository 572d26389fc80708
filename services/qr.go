package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const qrSize = 300

// QRRenderer turns codes into scannable PNG images pointing at the public
// verification and signup pages.
type QRRenderer struct {
	baseURL string
}

func NewQRRenderer(publicBaseURL string) *QRRenderer {
	return &QRRenderer{baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// VerifyURL is the link encoded on product packaging
func (r *QRRenderer) VerifyURL(code string) string {
	return r.baseURL + "/api/verify/" + code
}

// SignupURL is the link encoded in a partner's referral QR
func (r *QRRenderer) SignupURL(referralCode string) string {
	return r.baseURL + "/signup?ref=" + referralCode
}

// PNG renders content as a square QR code
func (r *QRRenderer) PNG(content string) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	code, err = barcode.Scale(code, qrSize, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to scale QR code: %w", err)
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, code); err != nil {
		return nil, fmt.Errorf("failed to encode QR code as PNG: %w", err)
	}
	return buffer.Bytes(), nil
}

// DataURI renders content as a base64 PNG data URI for embedding in JSON
func (r *QRRenderer) DataURI(content string) (string, error) {
	img, err := r.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img), nil
}
