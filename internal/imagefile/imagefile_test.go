package imagefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/testutil"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/common"
)

func TestLoadPNG(t *testing.T) {
	img, err := Load("photo.png", testutil.BasePNG())
	require.NoError(t, err)

	assert.Equal(t, "photo.png", img.Info.FileName)
	assert.Equal(t, "png", img.Info.Format)
	assert.Equal(t, "image/png", img.Info.MIMEType)
	assert.Equal(t, 8, img.Info.Width)
	assert.Equal(t, 8, img.Info.Height)
	assert.Equal(t, int64(len(img.Data)), img.Info.SizeBytes)
}

func TestLoadJPEG(t *testing.T) {
	img, err := Load("photo.jpg", testutil.BaseJPEG())
	require.NoError(t, err)

	assert.Equal(t, "jpeg", img.Info.Format)
	assert.Equal(t, "image/jpeg", img.Info.MIMEType)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	gif := []byte("GIF89a.............")

	_, err := Load("anim.gif", gif)
	require.Error(t, err)
	assert.True(t, common.IsDecodeError(err))
}

func TestLoadGarbage(t *testing.T) {
	_, err := Load("file.bin", []byte("not an image at all"))
	require.Error(t, err)
	assert.True(t, common.IsDecodeError(err))
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load("empty", nil)
	require.Error(t, err)
	assert.True(t, common.IsDecodeError(err))
}

func TestLoadTruncated(t *testing.T) {
	png := testutil.BasePNG()

	_, err := Load("broken.png", png[:9])
	require.Error(t, err)
	assert.True(t, common.IsDecodeError(err))
}
