// AngelaMos | 2026
// security_test.go

package core

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	valid, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same input")
	require.NoError(t, err)
	h2, err := HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("pw", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.Error(t, err)
}

func TestVerifyPasswordWithRehash(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	valid, newHash, err := VerifyPasswordWithRehash("pw", hash)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, newHash, "current parameters should not trigger a rehash")
}

func TestVerifyPasswordWithRehashUpgradesOldParams(t *testing.T) {
	// A hash produced under older, cheaper cost parameters still verifies
	// and comes back with an upgraded replacement.
	salt := []byte("0123456789abcdef")
	oldKey := argon2.IDKey([]byte("pw"), salt, 2, 32*1024, 2, 32)
	oldHash := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		32*1024,
		2,
		2,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(oldKey),
	)

	valid, newHash, err := VerifyPasswordWithRehash("pw", oldHash)
	require.NoError(t, err)
	assert.True(t, valid)
	require.NotEmpty(t, newHash)

	valid, err = VerifyPassword("pw", newHash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	valid, _, err := VerifyPasswordTimingSafe("pw", &hash)
	require.NoError(t, err)
	assert.True(t, valid)

	// A missing hash still burns a verification but never validates.
	valid, newHash, err := VerifyPasswordTimingSafe("pw", nil)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, newHash)

	empty := ""
	valid, _, err = VerifyPasswordTimingSafe("pw", &empty)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestTokenHashing(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	hash := HashToken(token)
	assert.Len(t, hash, 64)
	assert.True(t, CompareTokenHash(token, hash))
	assert.False(t, CompareTokenHash("other", hash))
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
