package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Unknown kids trigger a refetch, but at most this often.
const minRefreshInterval = 30 * time.Second

var (
	errMissingKeyID = errors.New("token header has no kid")
	errUnknownKeyID = errors.New("kid not found in jwks")
)

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// keySet caches the issuer's RSA signing keys by kid. Keys past their TTL
// are still served when a refetch fails or while another request refetches.
type keySet struct {
	url    string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time

	// fetching serializes requests to the issuer.
	fetching sync.Mutex

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	lastAttempt time.Time
	lastErr     error
}

func newKeySet(url string, ttl time.Duration, client *http.Client) *keySet {
	return &keySet{
		url:    url,
		ttl:    ttl,
		client: client,
		now:    time.Now,
		keys:   map[string]*rsa.PublicKey{},
	}
}

func (ks *keySet) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	now := ks.now()

	ks.mu.RLock()
	key, ok := ks.keys[kid]
	fresh := now.Sub(ks.fetchedAt) < ks.ttl
	ks.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if ok {
		if !ks.fetching.TryLock() {
			return key, nil
		}
	} else {
		ks.fetching.Lock()
	}
	err := ks.refresh(ctx, now)
	ks.fetching.Unlock()

	ks.mu.RLock()
	defer ks.mu.RUnlock()
	if cached, found := ks.keys[kid]; found {
		return cached, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, errors.Wrap(errUnknownKeyID, kid)
}

// refresh refetches the key set unless an attempt was made within
// minRefreshInterval, in which case that attempt's error is returned. Callers
// must hold ks.fetching. The cached keys are only replaced on success.
func (ks *keySet) refresh(ctx context.Context, now time.Time) error {
	ks.mu.RLock()
	recent := !ks.lastAttempt.IsZero() && now.Sub(ks.lastAttempt) < minRefreshInterval
	lastErr := ks.lastErr
	ks.mu.RUnlock()
	if recent {
		return lastErr
	}

	keys, err := ks.fetch(ctx)

	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.lastAttempt = now
	ks.lastErr = err
	if err != nil {
		return err
	}
	ks.keys = keys
	ks.fetchedAt = now
	return nil
}

func (ks *keySet) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ks.url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	resp, err := ks.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch jwks")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("failed to fetch jwks: status %d", resp.StatusCode)
	}

	var payload struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode jwks")
	}

	keys := map[string]*rsa.PublicKey{}
	for _, k := range payload.Keys {
		if !strings.EqualFold(k.Kty, "RSA") || k.Kid == "" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := rsaPublicKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, errors.New("jwks has no usable rsa signing keys")
	}
	return keys, nil
}

func rsaPublicKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(nb) == 0 || len(eb) == 0 {
		return nil, errors.New("empty rsa key component")
	}

	exponent := 0
	for _, b := range eb {
		exponent = exponent<<8 | int(b)
	}
	if exponent <= 1 {
		return nil, errors.New("invalid rsa exponent")
	}

	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: exponent}, nil
}
