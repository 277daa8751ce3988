package token

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/chacha20poly1305"

	dErrors "zonegate/pkg/domain-errors"
)

// envelopeClaims is the signed wrapper around the encrypted payload. The
// payload is encrypted first, then the ciphertext is signed as a JWT claim,
// so verification happens before any decryption on open.
type envelopeClaims struct {
	Sealed string `json:"sealed"`
	jwt.RegisteredClaims
}

// EnvelopeSealer implements Sealer with XChaCha20-Poly1305 encryption
// wrapped in an EdDSA-signed JWT envelope.
type EnvelopeSealer struct {
	encKey     []byte
	signKey    ed25519.PrivateKey
	verifyKey  ed25519.PublicKey
	issuer     string
	envelopeTT time.Duration
	now        func() time.Time
}

// NewEnvelopeSealer builds a sealer from a 32-byte encryption key and an
// Ed25519 signing key. envelopeTTL bounds the outer JWT's exp claim; the
// session registry enforces the real session expiry separately.
func NewEnvelopeSealer(encKey []byte, signKey ed25519.PrivateKey, issuer string, envelopeTTL time.Duration) (*EnvelopeSealer, error) {
	if len(encKey) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(encKey))
	}
	if len(signKey) != ed25519.PrivateKeySize {
		return nil, errors.New("signing key must be a valid Ed25519 private key")
	}
	if envelopeTTL <= 0 {
		envelopeTTL = time.Hour
	}
	return &EnvelopeSealer{
		encKey:     encKey,
		signKey:    signKey,
		verifyKey:  signKey.Public().(ed25519.PublicKey),
		issuer:     issuer,
		envelopeTT: envelopeTTL,
		now:        time.Now,
	}, nil
}

// NewEphemeralSealer generates fresh random keys. Sealed tokens do not
// survive process restarts; intended for dev and tests only.
func NewEphemeralSealer(issuer string) (*EnvelopeSealer, error) {
	encKey := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(encKey); err != nil {
		return nil, fmt.Errorf("generate encryption key: %w", err)
	}
	_, signKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return NewEnvelopeSealer(encKey, signKey, issuer, time.Hour)
}

func (s *EnvelopeSealer) SealToken(_ context.Context, payload Payload) ([]byte, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal token payload: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.encKey)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := aead.Seal(nonce, nonce, plaintext, nil)

	// The envelope's lifetime runs on the sealer's own clock; the payload's
	// IssuedAt is sealed data and plays no part in expiry checks.
	now := s.now()
	claims := envelopeClaims{
		Sealed: base64.RawURLEncoding.EncodeToString(ciphertext),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.envelopeTT)),
			ID:        payload.Nonce,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.signKey)
	if err != nil {
		return nil, fmt.Errorf("sign token envelope: %w", err)
	}
	return []byte(signed), nil
}

func (s *EnvelopeSealer) OpenToken(_ context.Context, sealed []byte) (Payload, error) {
	parsed, err := jwt.ParseWithClaims(string(sealed), &envelopeClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.verifyKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Payload{}, dErrors.New(dErrors.CodeUnauthorized, "token envelope has expired")
		}
		return Payload{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token envelope")
	}
	claims, ok := parsed.Claims.(*envelopeClaims)
	if !ok || !parsed.Valid {
		return Payload{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token envelope claims")
	}

	ciphertext, err := base64.RawURLEncoding.DecodeString(claims.Sealed)
	if err != nil {
		return Payload{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "malformed sealed payload")
	}
	aead, err := chacha20poly1305.NewX(s.encKey)
	if err != nil {
		return Payload{}, fmt.Errorf("init cipher: %w", err)
	}
	if len(ciphertext) < aead.NonceSize() {
		return Payload{}, dErrors.New(dErrors.CodeUnauthorized, "sealed payload too short")
	}
	nonce, body := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return Payload{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "failed to decrypt sealed payload")
	}

	var payload Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return Payload{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "malformed token payload")
	}
	return payload, nil
}

// Health reports whether the key material is usable, mirroring the key
// manager check the surrounding platform runs on every monitoring pass.
func (s *EnvelopeSealer) Health(_ context.Context) error {
	if len(s.encKey) != chacha20poly1305.KeySize || len(s.signKey) != ed25519.PrivateKeySize {
		return errors.New("sealer key material missing or malformed")
	}
	return nil
}
