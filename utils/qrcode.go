package utils

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"qr-restaurant/config"
)

const qrCodeSubDir = "qr_codes"

// GenerateTableQR renders a PNG QR code encoding the customer menu URL
// for a table and writes it under the upload directory. Returns the
// stored path relative to the upload root.
func GenerateTableQR(baseURL string, tableNumber int) (string, error) {
	qrData := fmt.Sprintf("%s/table/%d", baseURL, tableNumber)

	dir := filepath.Join(config.AppConfig.UploadDir, qrCodeSubDir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("table_%d_qr.png", tableNumber)
	fullPath := filepath.Join(dir, filename)

	if err := qrcode.WriteFile(qrData, qrcode.High, 256, fullPath); err != nil {
		return "", err
	}

	return filepath.Join(qrCodeSubDir, filename), nil
}
