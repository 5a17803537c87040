package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"drinks-service/pkg/metrics"
)

const maxDocumentBytes = 1 << 20

// DocumentSource returns a raw JWKS document.
type DocumentSource interface {
	Document(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches the identity provider's well-known key set endpoint.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Document(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf(errFetchDocumentFmt, s.url, err)
	}
	req.Header.Set(headerAccept, contentTypeJSON)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errFetchDocumentFmt, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(errUnexpectedStatusFmt, resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf(errReadDocumentFmt, err)
	}
	if len(body) > maxDocumentBytes {
		return nil, fmt.Errorf(errDocumentTooLargeFmt, maxDocumentBytes)
	}

	return body, nil
}

// DocumentStore is a shared cache for key set documents, typically Redis.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SharedSource lets several service replicas share one copy of the key set
// document. Store failures are logged and fall through to the inner source.
type SharedSource struct {
	inner   DocumentSource
	store   DocumentStore
	key     string
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewSharedSource(inner DocumentSource, store DocumentStore, key string, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *SharedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SharedSource{
		inner:   inner,
		store:   store,
		key:     key,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

func (s *SharedSource) Document(ctx context.Context) ([]byte, error) {
	doc, found, err := s.store.Get(ctx, s.key)
	switch {
	case err != nil:
		s.metrics.ObserveKeySetCacheLookup(resultError)
		s.logger.WarnContext(ctx, "shared key set cache read failed", "key", s.key, "error", err)
	case found:
		s.metrics.ObserveKeySetCacheLookup(resultHit)
		return doc, nil
	default:
		s.metrics.ObserveKeySetCacheLookup(resultMiss)
	}

	doc, err = s.inner.Document(ctx)
	if err != nil {
		return nil, err
	}

	// Only documents that parse are shared, so a bad response cannot poison other replicas.
	if _, err := ParseKeySet(doc); err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, s.key, doc, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "shared key set cache write failed", "key", s.key, "error", err)
	}

	return doc, nil
}
