// Package permit signs and verifies export permits: RS256 tokens that bind a
// project id to the fingerprint of the design report that allowed export.
package permit

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidPermit    = errors.New("invalid permit")
	ErrFingerprintMatch = errors.New("permit does not match report")
)

// Claims is the payload of a permit token.
type Claims struct {
	Fingerprint string `json:"fpr"`
	jwt.RegisteredClaims
}

// Permit is an issued token with its metadata.
type Permit struct {
	Token       string    `json:"token"`
	ProjectID   string    `json:"projectId"`
	Fingerprint string    `json:"fingerprint"`
	JTI         string    `json:"jti"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Manager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	ttl        time.Duration
}

// NewManager loads the PEM key pair from disk.
func NewManager(privatePath, publicPath, issuer string, ttl time.Duration) (*Manager, error) {
	privPem, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPem)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubPem, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return NewManagerFromKeys(privKey, pubKey, issuer, ttl), nil
}

func NewManagerFromKeys(priv *rsa.PrivateKey, pub *rsa.PublicKey, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		privateKey: priv,
		publicKey:  pub,
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Fingerprint returns the SHA-256 hex digest of the JSON encoding of report.
func Fingerprint(report any) (string, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	h := sha256.Sum256(raw)
	return hex.EncodeToString(h[:]), nil
}

// Issue signs a permit for projectID bound to report. Callers only issue
// once the export gate allows it.
func (m *Manager) Issue(projectID string, report any) (*Permit, error) {
	if projectID == "" {
		return nil, errors.New("issue permit: project id is required")
	}
	fpr, err := Fingerprint(report)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	exp := now.Add(m.ttl)
	jti := uuid.New().String()

	claims := Claims{
		Fingerprint: fpr,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   projectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenStr, err := token.SignedString(m.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign permit: %w", err)
	}

	return &Permit{
		Token:       tokenStr,
		ProjectID:   projectID,
		Fingerprint: fpr,
		JTI:         jti,
		ExpiresAt:   exp,
	}, nil
}

// Verify checks signature, issuer and expiry and returns the claims.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.publicKey, nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPermit, err)
	}
	if !token.Valid || claims.Subject == "" || claims.Fingerprint == "" {
		return nil, ErrInvalidPermit
	}
	return claims, nil
}

// VerifyReport verifies the token and checks that it was issued for report.
func (m *Manager) VerifyReport(tokenStr string, report any) (*Claims, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	fpr, err := Fingerprint(report)
	if err != nil {
		return nil, err
	}
	if fpr != claims.Fingerprint {
		return nil, ErrFingerprintMatch
	}
	return claims, nil
}
