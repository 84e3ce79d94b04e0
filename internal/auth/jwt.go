// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/angelamos/gymstack/internal/config"
	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/middleware"
)

// JWTManager signs short-lived ES256 access tokens and mints the opaque
// refresh tokens that pair with them. The public half is served as a
// JWKS document for external verifiers.
type JWTManager struct {
	signingKey jwk.Key
	verifyKey  jwk.Key
	jwks       jwk.Set
	config     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	signingKey, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	verifyKey, err := signingKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := verifyKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	jwks := jwk.NewSet()
	if err := jwks.AddKey(verifyKey); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &JWTManager{
		signingKey: signingKey,
		verifyKey:  verifyKey,
		jwks:       jwks,
		config:     cfg,
	}, nil
}

func loadSigningKey(path string) (jwk.Key, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	key, err := jwk.ParseKey(pemBytes, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}
	if err := key.Set(jwk.KeyIDKey, uuid.New().String()[:8]); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}

	return key, nil
}

// GenerateKeyPair writes a fresh P-256 keypair as PEM. Used by the
// keygen command during first deployment.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(ecKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}
	if err := private.Set(jwk.KeyIDKey, uuid.New().String()[:8]); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}
	if err := private.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("set algorithm: %w", err)
	}

	privatePEM, err := jwk.Pem(private)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}
	if err := os.WriteFile(privateKeyPath, privatePEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}
	publicPEM, err := jwk.Pem(public)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}
	//nolint:gosec // G306: the public key is meant to be readable
	if err := os.WriteFile(publicKeyPath, publicPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	return nil
}

type AccessTokenClaims struct {
	UserID       string `json:"sub"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(m.config.AccessTokenExpire)).
		Claim("role", claims.Role).
		Claim("token_version", claims.TokenVersion).
		Claim("type", "access").
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signingKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (m *JWTManager) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.verifyKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if expiredValidation(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	return extractClaims(token)
}

func extractClaims(token jwt.Token) (*middleware.AccessTokenClaims, error) {
	reject := func(reason string) error {
		return fmt.Errorf("verify token: %s: %w", reason, core.ErrTokenInvalid)
	}

	// Refresh tokens are opaque strings, so any signed JWT claiming
	// another type is malformed by definition.
	var tokenType string
	if err := token.Get("type", &tokenType); err != nil || tokenType != "access" {
		return nil, reject("wrong token type")
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, reject("missing subject")
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, reject("missing role claim")
	}

	// jwx hands numeric custom claims back as float64.
	var version float64
	if err := token.Get("token_version", &version); err != nil {
		return nil, reject("missing token_version claim")
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, reject("missing jti")
	}

	expiresAt, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:       subject,
		Role:         role,
		TokenVersion: int(version),
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func expiredValidation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.jwks); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

func (m *JWTManager) GetKeyID() string {
	var kid string
	//nolint:errcheck // set unconditionally in loadSigningKey
	_ = m.signingKey.Get(jwk.KeyIDKey, &kid)
	return kid
}

// RefreshTokenData carries a freshly minted refresh token: the raw value
// for the client, the hash for storage.
type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken mints an opaque token. An empty familyID starts a
// new rotation family.
func (m *JWTManager) CreateRefreshToken(
	userID, familyID string,
) (*RefreshTokenData, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.New().String()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: time.Now().Add(m.config.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
