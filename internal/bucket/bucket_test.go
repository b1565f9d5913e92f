package bucket

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeB64Image(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	ct, data, err := decodeB64Image("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte("png-bytes"), data)

	_, _, err = decodeB64Image("image/png;base64," + payload)
	assert.Error(t, err, "missing data prefix")

	_, _, err = decodeB64Image("data:image/png;base64")
	assert.Error(t, err, "missing payload")

	_, _, err = decodeB64Image("data:image/png;base64,???")
	assert.Error(t, err)
}

func TestConstructFullPath(t *testing.T) {
	assert.Equal(t, "panel/services/logo.png", constructFullPath("panel", "services", "logo", "png"))
	assert.Equal(t, "panel/logo.jpg", constructFullPath("panel", "", "logo", "jpg"))
}

func TestFileExtensionFromContentType(t *testing.T) {
	assert.Equal(t, "jpg", fileExtensionFromContentType("image/jpeg"))
	assert.Equal(t, "png", fileExtensionFromContentType("image/png"))
	assert.Equal(t, "webp", fileExtensionFromContentType("image/webp"))
	assert.Equal(t, "gif", fileExtensionFromContentType("image/gif"))
}
