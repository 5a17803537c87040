package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// SigningKey is one public key record of the identity provider's key set.
type SigningKey struct {
	KeyID     string
	KeyType   string
	Use       string
	Algorithm string
	PublicKey *rsa.PublicKey
}

// KeySet is the ordered list of signing keys published by the identity provider.
// It is shared between concurrent verifications and must not be modified.
type KeySet []SigningKey

// Find returns the first key whose kid matches. Duplicate kids resolve to the
// earliest record in the published order.
func (s KeySet) Find(kid string) (SigningKey, bool) {
	if kid == "" {
		return SigningKey{}, false
	}
	for _, key := range s {
		if key.KeyID == kid {
			return key, true
		}
	}
	return SigningKey{}, false
}

// keySetDocument is the outer shape of a JWKS document. Entries are parsed one by
// one so a key type this service does not know cannot fail the whole set.
type keySetDocument struct {
	Keys []json.RawMessage `json:"keys"`
}

// KeyProvider supplies the current signing key set.
type KeyProvider interface {
	KeySet(ctx context.Context) (KeySet, error)
}

// StaticKeyProvider always returns the same key set.
type StaticKeyProvider struct {
	keys KeySet
}

func NewStaticKeyProvider(keys KeySet) *StaticKeyProvider {
	return &StaticKeyProvider{keys: keys}
}

func (p *StaticKeyProvider) KeySet(ctx context.Context) (KeySet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.keys, nil
}

// RemoteKeyProvider parses the JWKS document of a DocumentSource on every call.
type RemoteKeyProvider struct {
	source DocumentSource
}

func NewRemoteKeyProvider(source DocumentSource) *RemoteKeyProvider {
	return &RemoteKeyProvider{source: source}
}

func (p *RemoteKeyProvider) KeySet(ctx context.Context) (KeySet, error) {
	doc, err := p.source.Document(ctx)
	if err != nil {
		return nil, err
	}
	return ParseKeySet(doc)
}

// ParseKeySet decodes a JWKS document. Entries that cannot be parsed or are not
// RSA public keys are skipped; the order of the remaining keys is preserved.
func ParseKeySet(doc []byte) (KeySet, error) {
	var set keySetDocument
	if err := json.Unmarshal(doc, &set); err != nil {
		return nil, fmt.Errorf(errParseKeySetFmt, err)
	}

	keys := make(KeySet, 0, len(set.Keys))
	for _, raw := range set.Keys {
		key, err := jwk.ParseKey(raw)
		if err != nil {
			continue
		}

		var pub rsa.PublicKey
		if err := key.Raw(&pub); err != nil {
			continue
		}

		var alg string
		if a := key.Algorithm(); a != nil {
			alg = a.String()
		}

		keys = append(keys, SigningKey{
			KeyID:     key.KeyID(),
			KeyType:   key.KeyType().String(),
			Use:       key.KeyUsage(),
			Algorithm: alg,
			PublicKey: &pub,
		})
	}

	return keys, nil
}
