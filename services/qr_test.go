package services

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRRenderer_PNG(t *testing.T) {
	r := NewQRRenderer("https://app.example.com/")
	assert.Equal(t, "https://app.example.com/api/verify/ABC", r.VerifyURL("ABC"))
	assert.Equal(t, "https://app.example.com/signup?ref=PTR-1", r.SignupURL("PTR-1"))

	raw, err := r.PNG(r.VerifyURL("ABC"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, qrSize, img.Bounds().Dx())
	assert.Equal(t, qrSize, img.Bounds().Dy())

	uri, err := r.DataURI("hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}
