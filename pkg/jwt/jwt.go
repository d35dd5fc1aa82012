// Package jwt emite y valida los tokens de sesión. Un único esquema: RS256 con llaves PEM.
package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Rol viaja en el token para que el guard de autorización decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	Rol       string `json:"rol"`
	Matricula string `json:"matricula,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Subject datos del usuario que se firman en el token.
type Subject struct {
	UserID    string
	Rol       string
	Matricula string
	Email     string
}

// Verifier valida tokens con la llave pública.
type Verifier struct {
	pub    *rsa.PublicKey
	issuer string
}

// Signer firma tokens con la llave privada; también verifica.
type Signer struct {
	Verifier
	priv *rsa.PrivateKey
	exp  time.Duration
}

// NewVerifier construye un verificador. issuer vacío no se controla.
func NewVerifier(pub *rsa.PublicKey, issuer string) *Verifier {
	return &Verifier{pub: pub, issuer: issuer}
}

// NewSigner construye un firmador; la llave pública se deriva de la privada.
func NewSigner(priv *rsa.PrivateKey, issuer string, expMinutes int) *Signer {
	return &Signer{
		Verifier: Verifier{pub: &priv.PublicKey, issuer: issuer},
		priv:     priv,
		exp:      time.Duration(expMinutes) * time.Minute,
	}
}

// LoadSigner lee la llave privada PEM (PKCS#1 o PKCS#8) desde path.
func LoadSigner(path, issuer string, expMinutes int) (*Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jwt: leer llave privada: %w", err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("jwt: parsear llave privada: %w", err)
	}
	return NewSigner(priv, issuer, expMinutes), nil
}

// LoadVerifier lee la llave pública PEM desde path.
func LoadVerifier(path, issuer string) (*Verifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jwt: leer llave pública: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("jwt: parsear llave pública: %w", err)
	}
	return NewVerifier(pub, issuer), nil
}

// Generate genera un token RS256 para s.
func (s *Signer) Generate(sub Subject) (string, error) {
	if sub.UserID == "" {
		return "", errors.New("jwt: subject vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.exp)),
		},
		Rol:       sub.Rol,
		Matricula: sub.Matricula,
		Email:     sub.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.priv)
}

// Parse valida firma, algoritmo, expiración e issuer y devuelve los claims.
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.pub, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("claims inválidos")
	}
	return claims, nil
}
