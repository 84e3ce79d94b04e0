// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Current argon2id cost profile. Hashes written with an older profile
// still verify and are transparently upgraded on the next login.
const (
	argonPasses   = 1
	argonMemoryKB = 64 * 1024
	argonLanes    = 4
	argonTagLen   = 32
	argonSaltLen  = 16
)

type hashParams struct {
	memoryKB uint32
	passes   uint32
	lanes    uint8
	tagLen   uint32
}

var currentParams = hashParams{
	memoryKB: argonMemoryKB,
	passes:   argonPasses,
	lanes:    argonLanes,
	tagLen:   argonTagLen,
}

// HashPassword derives an argon2id hash and encodes it in PHC string
// format, parameters included, so old hashes stay verifiable after a
// cost bump.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	return encodeHash(password, salt, currentParams), nil
}

func encodeHash(password string, salt []byte, p hashParams) string {
	tag := argon2.IDKey(
		[]byte(password),
		salt,
		p.passes,
		p.memoryKB,
		p.lanes,
		p.tagLen,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memoryKB,
		p.passes,
		p.lanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(tag),
	)
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	p, salt, tag, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(
		[]byte(password),
		salt,
		p.passes,
		p.memoryKB,
		p.lanes,
		p.tagLen,
	)

	return subtle.ConstantTimeCompare(tag, candidate) == 1, nil
}

// VerifyPasswordWithRehash verifies and, when the stored hash predates
// the current cost profile, returns a replacement hash for the caller
// to persist. An empty newHash means the stored one is current.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (valid bool, newHash string, err error) {
	valid, err = VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return valid, "", err
	}

	if !staleParams(encodedHash) {
		return true, "", nil
	}

	newHash, err = HashPassword(password)
	if err != nil {
		// The password already verified; skipping the upgrade is safe.
		return true, "", nil
	}

	return true, newHash, nil
}

var decoyHash = sync.OnceValue(func() string {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		panic(fmt.Sprintf("security: decoy salt: %v", err))
	}
	return encodeHash("decoy-not-a-real-credential", salt, currentParams)
})

// VerifyPasswordTimingSafe burns a full argon2 verification even when no
// account exists, so an unknown email costs the same wall time as a
// wrong password.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		_, _, _ = VerifyPasswordWithRehash(password, decoyHash())
		return false, "", nil
	}

	return VerifyPasswordWithRehash(password, *encodedHash)
}

func parseHash(encoded string) (hashParams, []byte, []byte, error) {
	var p hashParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("malformed password hash")
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("parse hash version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	_, err := fmt.Sscanf(
		fields[3],
		"m=%d,t=%d,p=%d",
		&p.memoryKB,
		&p.passes,
		&p.lanes,
	)
	if err != nil {
		return p, nil, nil, fmt.Errorf("parse hash params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	tag, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode tag: %w", err)
	}

	//nolint:gosec // G115: argon2 tags are at most a few dozen bytes
	p.tagLen = uint32(len(tag))

	return p, salt, tag, nil
}

func staleParams(encoded string) bool {
	p, _, _, err := parseHash(encoded)
	if err != nil {
		return true
	}
	return p != currentParams
}

// GenerateSecureToken returns length random bytes as url-safe base64.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

// HashToken is for lookup keys, not passwords. Refresh tokens are
// high-entropy random strings, so an unsalted sha256 digest is enough
// to keep the raw token out of the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	digest := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(hash)) == 1
}
