package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ModeJWKS     = "jwks"
	ModeHS256    = "hs256"
	ModeDisabled = "disabled"

	defaultKeyCacheTTL = 15 * time.Minute
	clockSkew          = time.Minute
)

// Anonymous is the identity used when validation is disabled.
var Anonymous = Identity{Subject: "anonymous", Name: "Anonymous"}

// Identity is the profile carried by a validated token.
type Identity struct {
	Subject   string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Options struct {
	Mode     string
	Secret   string
	Domain   string
	Audience string
	Issuer   string
}

// Auth validates bearer tokens.
type Auth struct {
	mode     string
	jwks     *keyfunc.JWKS
	secret   []byte
	audience string
	issuer   string
	parser   *jwt.Parser

	keyCache    sync.Map
	keyCacheTTL time.Duration
}

type cachedKey struct {
	key       any
	expiresAt time.Time
}

// New builds an Auth for opts.Mode. In jwks mode the key set is fetched from
// the identity provider domain.
func New(opts Options) (*Auth, error) {
	switch opts.Mode {
	case ModeDisabled:
		return &Auth{mode: ModeDisabled}, nil
	case ModeHS256:
		if opts.Secret == "" {
			return nil, errors.New("hs256 mode needs a shared secret")
		}
		return NewHS256([]byte(opts.Secret), opts.Audience, opts.Issuer), nil
	case ModeJWKS, "":
		if opts.Domain == "" {
			return nil, errors.New("jwks mode needs an identity provider domain")
		}
		jwks, err := keyfunc.Get(fmt.Sprintf("https://%s/.well-known/jwks.json", opts.Domain), keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return nil, fmt.Errorf("jwks: %w", err)
		}
		issuer := opts.Issuer
		if issuer == "" {
			issuer = "https://" + opts.Domain + "/"
		}
		return NewJWKS(jwks, opts.Audience, issuer), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", opts.Mode)
	}
}

func NewJWKS(jwks *keyfunc.JWKS, audience, issuer string) *Auth {
	return &Auth{
		mode:        ModeJWKS,
		jwks:        jwks,
		audience:    audience,
		issuer:      issuer,
		parser:      jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
		keyCacheTTL: defaultKeyCacheTTL,
	}
}

func NewHS256(secret []byte, audience, issuer string) *Auth {
	return &Auth{
		mode:     ModeHS256,
		secret:   secret,
		audience: audience,
		issuer:   issuer,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

func (a *Auth) Mode() string { return a.mode }

// IdentityFromAuthHeader validates the bearer token in h.
func (a *Auth) IdentityFromAuthHeader(h string) (Identity, error) {
	if a.mode == ModeDisabled {
		return Anonymous, nil
	}
	token, err := bearerToken(h)
	if err != nil {
		return Identity{}, err
	}
	return a.IdentityFromToken(token)
}

func (a *Auth) IdentityFromToken(token string) (Identity, error) {
	parsed, err := a.parser.Parse(token, a.keyFor)
	if err != nil {
		return Identity{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	now := time.Now().Add(clockSkew).Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return Identity{}, errors.New("token expired")
	}
	if !claims.VerifyNotBefore(now, false) {
		return Identity{}, errors.New("token not valid yet")
	}
	if a.audience != "" && !claims.VerifyAudience(a.audience, false) {
		return Identity{}, errors.New("invalid audience")
	}
	if a.issuer != "" && !claims.VerifyIssuer(a.issuer, false) {
		return Identity{}, errors.New("invalid issuer")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, errors.New("missing sub")
	}
	id := Identity{Subject: sub}
	id.Name, _ = claims["name"].(string)
	id.Email, _ = claims["email"].(string)
	id.AvatarURL, _ = claims["picture"].(string)
	if id.Name == "" {
		id.Name = id.Email
	}
	return id, nil
}

func (a *Auth) keyFor(token *jwt.Token) (any, error) {
	if a.mode == ModeHS256 {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	}
	if a.jwks == nil {
		return nil, errors.New("jwks not configured")
	}

	kid, _ := token.Header["kid"].(string)
	if kid != "" {
		if cached, ok := a.keyCache.Load(kid); ok {
			entry := cached.(cachedKey)
			if time.Now().Before(entry.expiresAt) {
				return entry.key, nil
			}
			a.keyCache.Delete(kid)
		}
	}

	key, err := a.jwks.Keyfunc(token)
	if err != nil {
		return nil, err
	}
	if kid != "" {
		a.keyCache.Store(kid, cachedKey{key: key, expiresAt: time.Now().Add(a.keyCacheTTL)})
	}
	return key, nil
}
