package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
)

const GoogleCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

var ErrUnknownKey = errors.New("unknown signing key")

// KeySource returns the current RSA signing keys by key id.
type KeySource interface {
	Keys(ctx context.Context) (map[string]*rsa.PublicKey, error)
}

// FirebaseVerifier validates Firebase Auth ID tokens.
type FirebaseVerifier struct {
	projectID string
	keys      KeySource
	now       func() time.Time
}

func NewFirebaseVerifier(projectID string, keys KeySource) *FirebaseVerifier {
	return &FirebaseVerifier{projectID: projectID, keys: keys, now: time.Now}
}

// idClaims are the Firebase ID token claims we read.
type idClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	keys, err := v.keys.Keys(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("signing keys: %w", err)
	}
	var claims idClaims
	_, err = jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			k, ok := keys[kid]
			if !ok {
				return nil, ErrUnknownKey
			}
			return k, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("verify id token: %w", err)
	}
	if claims.Subject == "" {
		return Identity{}, errors.New("verify id token: empty subject")
	}
	id := Identity{Subject: claims.Subject}
	if claims.EmailVerified {
		id.Email = claims.Email
	}
	return id, nil
}

// GoogleCertSource fetches the x509 certificates Google signs Firebase ID
// tokens with, honouring the Cache-Control max-age of the response.
type GoogleCertSource struct {
	url   string
	hc    *http.Client
	cache *cache.Cache
}

func NewGoogleCertSource(url string) *GoogleCertSource {
	if url == "" {
		url = GoogleCertsURL
	}
	return &GoogleCertSource{
		url:   url,
		hc:    &http.Client{Timeout: 10 * time.Second},
		cache: cache.New(time.Hour, 2*time.Hour),
	}
}

const certsKey = "certs"

func (s *GoogleCertSource) Keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	if v, ok := s.cache.Get(certsKey); ok {
		return v.(map[string]*rsa.PublicKey), nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch certs: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var pems map[string]string
	if err := json.Unmarshal(body, &pems); err != nil {
		return nil, fmt.Errorf("decode certs: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(pems))
	for kid, p := range pems {
		k, err := parseCertKey(p)
		if err != nil {
			return nil, fmt.Errorf("cert %s: %w", kid, err)
		}
		keys[kid] = k
	}
	s.cache.Set(certsKey, keys, maxAge(resp.Header.Get("Cache-Control")))
	return keys, nil
}

func parseCertKey(p string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(p))
	if block == nil {
		return nil, errors.New("no PEM block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	k, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected key type %T", cert.PublicKey)
	}
	return k, nil
}

func maxAge(cc string) time.Duration {
	for _, d := range strings.Split(cc, ",") {
		d = strings.TrimSpace(d)
		if v, ok := strings.CutPrefix(d, "max-age="); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return time.Duration(n) * time.Second
			}
		}
	}
	return cache.DefaultExpiration
}
