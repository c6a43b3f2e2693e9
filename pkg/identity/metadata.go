package identity

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metadataHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "formdesk_role_metadata_hits_total",
		Help: "Role lookups answered by the identity metadata store.",
	})
	metadataMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "formdesk_role_metadata_misses_total",
		Help: "Role lookups that fell through to the users table.",
	})
)

// MetadataStore keeps the public role metadata of each external identity.
// Entries expire after ttl; the users table stays authoritative once they do.
type MetadataStore struct {
	roles *expirable.LRU[string, Role]
}

// NewMetadataStore creates a store holding at most size identities.
func NewMetadataStore(size int, ttl time.Duration) *MetadataStore {
	return &MetadataStore{roles: expirable.NewLRU[string, Role](size, nil, ttl)}
}

// ReadRole returns the role recorded for externalID, if any.
func (m *MetadataStore) ReadRole(_ context.Context, externalID string) (Role, bool, error) {
	role, ok := m.roles.Get(externalID)
	if !ok {
		metadataMissesTotal.Inc()
		return "", false, nil
	}
	metadataHitsTotal.Inc()
	return role, true, nil
}

// WriteRole records role for externalID, replacing any previous value.
func (m *MetadataStore) WriteRole(_ context.Context, externalID string, role Role) error {
	m.roles.Add(externalID, role)
	return nil
}

