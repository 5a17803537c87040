package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://drinks-test.example.com/"
	testAudience = "http://127.0.0.1:5000/"
	testKID      = "test-key-1"
	testSubject  = "auth0|barista"
)

var (
	keysOnce   sync.Once
	primaryKey *rsa.PrivateKey
	otherKey   *rsa.PrivateKey
	keysErr    error
)

var testNow = time.Unix(1_700_000_000, 0)

func testKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()
	keysOnce.Do(func() {
		primaryKey, keysErr = rsa.GenerateKey(rand.Reader, 2048)
		if keysErr != nil {
			return
		}
		otherKey, keysErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, keysErr)
	return primaryKey, otherKey
}

func signingKeyFor(kid string, priv *rsa.PrivateKey) SigningKey {
	return SigningKey{
		KeyID:     kid,
		KeyType:   "RSA",
		Use:       "sig",
		Algorithm: "RS256",
		PublicKey: &priv.PublicKey,
	}
}

func validClaims(permissions ...string) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":         testIssuer,
		"aud":         testAudience,
		"sub":         testSubject,
		"iat":         testNow.Add(-time.Minute).Unix(),
		"exp":         testNow.Add(time.Hour).Unix(),
		"permissions": permissions,
	}
}

func signToken(t *testing.T, priv *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header[headerKeyID] = kid
	}

	signed, err := token.SignedString(priv)
	require.NoError(t, err)
	return signed
}

func bearerHeader(token string) http.Header {
	header := http.Header{}
	header.Set(headerAuthorization, "Bearer "+token)
	return header
}

func newTestAuthorizer(keys KeyProvider, opts ...AuthorizerOption) *Authorizer {
	opts = append([]AuthorizerOption{WithClock(func() time.Time { return testNow })}, opts...)
	return NewAuthorizer(AuthorizerConfig{
		Audience:   testAudience,
		Issuer:     testIssuer,
		Algorithms: []string{"RS256"},
	}, keys, opts...)
}

// jwksDocument renders public keys as a JWKS document, in order.
func jwksDocument(t *testing.T, kids []string, privs ...*rsa.PrivateKey) []byte {
	t.Helper()
	require.Len(t, privs, len(kids))

	set := jwk.NewSet()
	for i, priv := range privs {
		key, err := jwk.FromRaw(priv.PublicKey)
		require.NoError(t, err)
		require.NoError(t, key.Set(jwk.KeyIDKey, kids[i]))
		require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256))
		require.NoError(t, key.Set(jwk.KeyUsageKey, "sig"))
		require.NoError(t, set.AddKey(key))
	}

	doc, err := json.Marshal(set)
	require.NoError(t, err)
	return doc
}

type failingKeyProvider struct {
	err error
}

func (p failingKeyProvider) KeySet(context.Context) (KeySet, error) {
	return nil, p.err
}

func requireAuthError(t *testing.T, err error, code string, status int) *AuthError {
	t.Helper()
	require.Error(t, err)

	authErr, ok := AsAuthError(err)
	require.True(t, ok, "expected *AuthError, got %T: %v", err, err)
	require.Equal(t, code, authErr.Code)
	require.Equal(t, status, authErr.Status)
	return authErr
}
