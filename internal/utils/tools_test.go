package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestAllowedUploadType(t *testing.T) {
	assert.True(t, AllowedUploadType("application/pdf"))
	assert.True(t, AllowedUploadType("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.False(t, AllowedUploadType("text/html"))
	assert.False(t, AllowedUploadType("image/png"))
	assert.False(t, AllowedUploadType(""))
}

func TestUploadFilename(t *testing.T) {
	name := UploadFilename("My Lease Agreement.pdf")
	assert.True(t, strings.HasSuffix(name, "My_Lease_Agreement.pdf"))
	assert.NotContains(t, name, " ")

	// path components are stripped so names cannot escape the upload dir
	name = UploadFilename("../../etc/passwd")
	assert.NotContains(t, name, "..")
	assert.True(t, strings.HasSuffix(name, "passwd"))

	// degenerate names fall back to a placeholder
	name = UploadFilename("")
	assert.True(t, strings.HasSuffix(name, "upload"))

	// two calls never collide
	assert.NotEqual(t, UploadFilename("a.pdf"), UploadFilename("a.pdf"))
}
