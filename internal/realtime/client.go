package realtime

import (
	"github.com/google/uuid"

	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// Client is one dashboard connection. Channels are venue IDs the admin
// is watching.
type Client struct {
	ID       uuid.UUID
	AdminID  uuid.UUID
	Channels map[string]bool
	Outbound chan Message
	done     chan struct{}
	Logger   *logger.Logger
}
