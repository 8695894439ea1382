package remote

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImageWithinCeiling(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("tiny png bytes"))
	url, err := EncodeImage("image/png", payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "tiny png bytes", string(decoded))
}

func TestEncodeImageRejectsOversized(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(make([]byte, MaxImageBytes+1))
	_, err := EncodeImage("image/jpeg", payload)
	require.Error(t, err)
	assert.Equal(t, KindInvalid, Classify(err))
}

func TestEncodePrintFileCeilings(t *testing.T) {
	within := base64.StdEncoding.EncodeToString(make([]byte, 1<<20))
	url, err := EncodePrintFile("application/pdf", within)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:application/pdf;base64,"))

	over := base64.StdEncoding.EncodeToString(make([]byte, MaxPrintFileBytes+1))
	_, err = EncodePrintFile("application/pdf", over)
	require.Error(t, err)
	assert.Equal(t, KindInvalid, Classify(err))
}

func TestEncodeRejectsBadBase64(t *testing.T) {
	_, err := EncodeImage("image/png", "not-base64!!!")
	require.Error(t, err)
	assert.Equal(t, KindInvalid, Classify(err))
}
