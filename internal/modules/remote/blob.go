package remote

import (
	"encoding/base64"
)

// Ceilings for binary payloads placed inside a document. Enforced before
// encoding; an oversized payload is rejected locally and never sent.
const (
	MaxImageBytes     = 800 << 10
	MaxPrintFileBytes = 2 << 20
)

// DataURL renders a self-contained data: URI for the payload.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodeImage validates and encodes an image payload for storage inside an
// outlet or product document.
func EncodeImage(mimeType, payload string) (string, error) {
	return encode(mimeType, payload, MaxImageBytes, "image")
}

// EncodePrintFile validates and encodes a print-job source file.
func EncodePrintFile(mimeType, payload string) (string, error) {
	return encode(mimeType, payload, MaxPrintFileBytes, "file")
}

func encode(mimeType, payload string, ceiling int, what string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", Invalid("%s payload is not valid base64: %v", what, err)
	}
	if len(data) > ceiling {
		return "", Invalid("%s is too large: %d bytes exceeds the %d byte limit", what, len(data), ceiling)
	}
	return DataURL(mimeType, data), nil
}
