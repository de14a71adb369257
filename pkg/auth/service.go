package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/castinghq/casting/pkg/config"
	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultTokenExpiry is how long minted development tokens are valid.
const DefaultTokenExpiry = 24 * time.Hour

// JWTClaims represents the claims in a bearer token. Permissions holds the
// "<verb>:<resource>" strings granted to the caller by the issuer.
type JWTClaims struct {
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// HasPermission checks if the token grants a specific permission.
func (c *JWTClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type ServiceOptions struct {
	// Mode is config.AuthModeHS256 or config.AuthModeRS256.
	Mode string
	// Secret signs and verifies HS256 tokens.
	Secret string
	// JWKSURL is where RS256 signing keys are published.
	JWKSURL string
	// JWKSCacheTTL is how long fetched keys are trusted before refetching.
	JWKSCacheTTL time.Duration
	// Issuer and Audience are checked when non-empty.
	Issuer   string
	Audience string
	// HTTPClient fetches the JWKS. Defaults to a client with a 5s timeout.
	HTTPClient *http.Client
}

// Service verifies bearer tokens.
type Service struct {
	opts   ServiceOptions
	secret []byte
	keys   *keySet
	parser *jwt.Parser
}

// NewService creates a new auth service.
func NewService(opts ServiceOptions) *Service {
	parserOpts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}

	svc := &Service{opts: opts}
	switch opts.Mode {
	case config.AuthModeRS256:
		parserOpts = append(parserOpts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: 5 * time.Second}
		}
		svc.keys = newKeySet(opts.JWKSURL, opts.JWKSCacheTTL, client)
	default:
		parserOpts = append(parserOpts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		svc.secret = []byte(opts.Secret)
	}
	svc.parser = jwt.NewParser(parserOpts...)

	return svc
}

// NewServiceFromConfig wires the service to the configured issuer.
func NewServiceFromConfig(cfg *config.Config) *Service {
	opts := ServiceOptions{
		Mode:         cfg.AuthMode,
		Secret:       cfg.JWTSecret,
		JWKSCacheTTL: cfg.JWKSCacheTTL,
		Audience:     cfg.APIAudience,
	}
	if cfg.AuthMode == config.AuthModeRS256 {
		opts.JWKSURL = cfg.JWKSURL()
		opts.Issuer = cfg.Issuer()
	}
	return NewService(opts)
}

// ValidateToken verifies the token's signature and registered claims and
// returns its claims. Failures are returned as 401 errcodes errors.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*JWTClaims, error) {
	token, err := s.parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if s.keys == nil {
			return s.secret, nil
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errMissingKeyID
		}
		return s.keys.key(ctx, kid)
	})
	if err != nil {
		return nil, tokenError(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errcodes.Unauthorized("invalid_token", "Unable to parse authentication token.")
	}

	return claims, nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errcodes.Unauthorized("token_expired", "Token expired.")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return errcodes.Unauthorized("invalid_claims", "Incorrect claims. Please, check the audience and issuer.")
	case errors.Is(err, errMissingKeyID):
		return errcodes.Unauthorized("invalid_header", "Authorization malformed.")
	case errors.Is(err, errUnknownKeyID):
		return errcodes.Unauthorized("invalid_header", "Unable to find the appropriate key.")
	default:
		return errcodes.Unauthorized("invalid_token", "Unable to parse authentication token.")
	}
}

// TokenOptions describes a token to mint with GenerateToken.
type TokenOptions struct {
	Subject     string
	Permissions []string
	Issuer      string
	Audience    string
	Expiry      time.Duration
}

// GenerateToken creates an HS256 token signed with the given secret. It's
// meant for local development and tests; production tokens come from the
// issuer.
func GenerateToken(secret string, opts TokenOptions) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required to sign tokens")
	}
	expiry := opts.Expiry
	if expiry == 0 {
		expiry = DefaultTokenExpiry
	}

	now := time.Now()
	claims := JWTClaims{
		Permissions: opts.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   opts.Subject,
			Issuer:    opts.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{opts.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}
