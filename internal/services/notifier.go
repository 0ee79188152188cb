package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
	"github.com/venuepoint/loyalty-backend/internal/realtime"
	"github.com/venuepoint/loyalty-backend/internal/realtime/bus"
)

// OutcomeNotifier records domain outcomes and hands them to the messaging
// side. The durable row is written in the caller's transaction; the bus
// publish is fire-and-forget, a publish failure is logged and never fails
// the operation.
type OutcomeNotifier interface {
	RewardGranted(ctx context.Context, tx *gorm.DB, venueID, guestID uuid.UUID, outcome types.RewardOutcome) error
	TicketCreated(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, ticket *types.RewardTicket) error
	TicketClaimed(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, ticket *types.RewardTicket) error
	SegmentMigrated(ctx context.Context, tx *gorm.DB, venueID, guestID uuid.UUID, fromID *uuid.UUID, toID uuid.UUID) error
}

type outcomeNotifier struct {
	log    *logger.Logger
	events repos.OutcomeEventRepo
	bus    bus.Bus
}

func NewOutcomeNotifier(log *logger.Logger, events repos.OutcomeEventRepo, b bus.Bus) OutcomeNotifier {
	return &outcomeNotifier{
		log:    log.With("service", "OutcomeNotifier"),
		events: events,
		bus:    b,
	}
}

func (n *outcomeNotifier) emit(ctx context.Context, tx *gorm.DB, venueID, guestID uuid.UUID, kind types.OutcomeKind, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	event := &types.OutcomeEvent{
		ID:      uuid.New(),
		VenueID: venueID,
		GuestID: guestID,
		Kind:    kind,
		Payload: datatypes.JSON(payload),
	}
	if _, err := n.events.Create(ctx, tx, event); err != nil {
		return err
	}
	if n.bus != nil {
		msg := realtime.Message{Channel: venueID.String(), Kind: string(kind), Data: data}
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("outcome publish failed", "kind", kind, "error", err)
		}
	}
	return nil
}

func (n *outcomeNotifier) RewardGranted(ctx context.Context, tx *gorm.DB, venueID, guestID uuid.UUID, outcome types.RewardOutcome) error {
	return n.emit(ctx, tx, venueID, guestID, types.EventRewardGranted, map[string]any{
		"guest_id": guestID.String(),
		"type":     string(outcome.Type),
		"amount":   outcome.Amount,
	})
}

func (n *outcomeNotifier) TicketCreated(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, ticket *types.RewardTicket) error {
	return n.emit(ctx, tx, venueID, ticket.GuestID, types.EventTicketCreated, map[string]any{
		"guest_id":  ticket.GuestID.String(),
		"ticket_id": ticket.ID.String(),
		"source":    string(ticket.Source),
	})
}

func (n *outcomeNotifier) TicketClaimed(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, ticket *types.RewardTicket) error {
	data := map[string]any{
		"guest_id":  ticket.GuestID.String(),
		"ticket_id": ticket.ID.String(),
	}
	if ticket.ProductID != nil {
		data["product_id"] = ticket.ProductID.String()
	}
	return n.emit(ctx, tx, venueID, ticket.GuestID, types.EventTicketClaimed, data)
}

func (n *outcomeNotifier) SegmentMigrated(ctx context.Context, tx *gorm.DB, venueID, guestID uuid.UUID, fromID *uuid.UUID, toID uuid.UUID) error {
	data := map[string]any{
		"guest_id": guestID.String(),
		"to":       toID.String(),
	}
	if fromID != nil {
		data["from"] = fromID.String()
	}
	return n.emit(ctx, tx, venueID, guestID, types.EventSegmentMigrated, data)
}
