// Package jwt は HS256 署名の JWT による auth.Adapter 実装です。
// subject には利用者の CPF を格納します。
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/auth"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/core/domainerr"
)

const defaultTTL = time.Hour

// Config は Adapter の設定です。
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
	// Now は署名・検証に使う時刻です。nil の場合は time.Now を使います。
	Now func() time.Time
}

// Adapter はトークンの署名と検証を行います。
type Adapter struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwtv5.Parser
}

var _ auth.Adapter = (*Adapter)(nil)

// New は Adapter を生成します。Secret は必須です。
func New(cfg Config) (*Adapter, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Name}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(cfg.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(cfg.Issuer))
	}

	return &Adapter{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    cfg.Now,
		parser: jwtv5.NewParser(opts...),
	}, nil
}

// Sign は subject を含むトークンを発行します。
func (a *Adapter) Sign(subject string) (string, error) {
	now := a.now()
	claims := jwtv5.RegisteredClaims{
		Subject:   subject,
		Issuer:    a.issuer,
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(a.ttl)),
	}

	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証して subject を返します。
// 理由に関わらず失敗は domainerr.ErrUnauthorized です。
func (a *Adapter) Verify(token string) (string, error) {
	var claims jwtv5.RegisteredClaims
	parsed, err := a.parser.ParseWithClaims(token, &claims, func(*jwtv5.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domainerr.ErrUnauthorized
	}
	return claims.Subject, nil
}
