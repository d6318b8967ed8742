package courier

import (
	"context"
	"strings"

	"orderdesk-backend/internal/domain"

	"github.com/google/uuid"
)

// LocalProvider mints tracking ids without calling out, for development and
// deployments that have no courier integration.
type LocalProvider struct {
	prefix string
}

var _ domain.TrackingProvider = (*LocalProvider)(nil)

func NewLocalProvider(prefix string) *LocalProvider {
	return &LocalProvider{prefix: strings.ToUpper(strings.TrimSpace(prefix))}
}

func (p *LocalProvider) TrackingID(_ context.Context, _ domain.RecordRef) (string, error) {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	if p.prefix == "" {
		return id, nil
	}
	return p.prefix + "-" + id, nil
}
