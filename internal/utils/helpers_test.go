package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateS3BucketName(t *testing.T) {
	assert.NoError(t, ValidateS3BucketName("metadata-exports"))
	assert.Error(t, ValidateS3BucketName("ab"))
	assert.Error(t, ValidateS3BucketName("has space"))
	assert.Error(t, ValidateS3BucketName("Uppercase"))
	assert.Error(t, ValidateS3BucketName("under_score"))
}

func TestGoogleMapsURL(t *testing.T) {
	assert.Equal(t, "https://www.google.com/maps?q=48.8548167,2.3507", GoogleMapsURL(48.8548167, 2.3507))
	assert.Equal(t, "https://www.google.com/maps?q=-33.8675,151.207", GoogleMapsURL(-33.8675, 151.207))
}
