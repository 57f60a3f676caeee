package publisher

import (
	"context"

	"geotrackd/module/core/domain"
)

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.Alert) error
}
