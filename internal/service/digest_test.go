package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDigester_SHA256(t *testing.T) {
	d, err := NewDigester(DigestSHA256)
	require.NoError(t, err)

	// sha256("password"), the format existing users.db files hold
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", d.Digest("password"))
	assert.Equal(t, d.Digest("password"), d.Digest("password"))
	assert.NotEqual(t, d.Digest("password"), d.Digest("Password"))
}

func TestNewDigester_BLAKE2b(t *testing.T) {
	d, err := NewDigester(DigestBLAKE2b)
	require.NoError(t, err)

	sum := d.Digest("password")
	assert.Len(t, sum, 64)
	assert.Equal(t, sum, d.Digest("password"))

	sha, err := NewDigester(DigestSHA256)
	require.NoError(t, err)
	assert.NotEqual(t, sha.Digest("password"), sum)
}

func TestNewDigester_DefaultAndUnknown(t *testing.T) {
	d, err := NewDigester("")
	require.NoError(t, err)
	assert.Len(t, d.Digest(""), 64)

	_, err = NewDigester("md5")
	assert.Error(t, err)
}
