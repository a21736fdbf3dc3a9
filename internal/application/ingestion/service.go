package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultAdapterTimeout bounds one adapter call so a slow platform cannot
// starve a sweep
const DefaultAdapterTimeout = 30 * time.Second

// Config tunes the ingestion service
type Config struct {
	// AdapterTimeout bounds each adapter fetch/transform call
	AdapterTimeout time.Duration
	// PriorityPlatforms is the subset swept on the faster cadence
	PriorityPlatforms []order.Platform
}

// DedupStore suppresses duplicate webhook deliveries. Implementations mark
// a (platform, order, payload-hash) key and report whether it was already
// seen within the retention window.
type DedupStore interface {
	MarkSeen(ctx context.Context, platform order.Platform, platformOrderID string, payload map[string]any) (alreadySeen bool, err error)
}

// Service routes fetch and webhook-transform calls to the adapter registry
// and persists normalized orders through the atomic upsert. One platform's
// failure never aborts a multi-platform sweep.
type Service struct {
	registry integration.AdapterRegistry
	orders   order.Repository
	dedup    DedupStore
	log      *zap.Logger
	cfg      Config
}

// NewService creates the ingestion service. dedup may be nil to disable
// duplicate-delivery suppression.
func NewService(registry integration.AdapterRegistry, orders order.Repository, dedup DedupStore, log *zap.Logger, cfg Config) *Service {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = DefaultAdapterTimeout
	}
	return &Service{
		registry: registry,
		orders:   orders,
		dedup:    dedup,
		log:      log.Named("ingestion"),
		cfg:      cfg,
	}
}

// PriorityPlatforms returns the configured priority subset
func (s *Service) PriorityPlatforms() []order.Platform {
	if len(s.cfg.PriorityPlatforms) == 0 {
		return []order.Platform{order.PlatformAmazon, order.PlatformFlipkart}
	}
	out := make([]order.Platform, len(s.cfg.PriorityPlatforms))
	copy(out, s.cfg.PriorityPlatforms)
	return out
}

// FetchAllPlatforms sweeps every registered platform
func (s *Service) FetchAllPlatforms(ctx context.Context) SweepResult {
	return s.Sweep(ctx, s.registry.Platforms())
}

// FetchPriorityPlatforms sweeps only the priority subset
func (s *Service) FetchPriorityPlatforms(ctx context.Context) SweepResult {
	return s.Sweep(ctx, s.PriorityPlatforms())
}

// Sweep runs fetch-then-upsert for each named platform, isolating failures
// per platform
func (s *Service) Sweep(ctx context.Context, platforms []order.Platform) SweepResult {
	result := SweepResult{
		Results:   make(map[order.Platform]PlatformResult, len(platforms)),
		StartedAt: time.Now().UTC(),
	}

	for _, p := range platforms {
		pr, err := s.FetchPlatform(ctx, p)
		if err != nil {
			s.log.Error("Platform sweep failed",
				zap.String("platform", p.String()),
				zap.Error(err))
			result.Results[p] = PlatformResult{Platform: p, Error: err.Error()}
			result.ErrorCount++
			continue
		}
		result.Results[p] = pr
		result.SuccessCount++
		result.TotalOrders += pr.Orders
	}

	result.FinishedAt = time.Now().UTC()
	result.Success = result.ErrorCount == 0
	s.log.Info("Sweep finished",
		zap.Int("platforms", len(platforms)),
		zap.Int("orders", result.TotalOrders),
		zap.Int("errors", result.ErrorCount))
	return result
}

// FetchPlatform fetches one platform's backlog and upserts every order
func (s *Service) FetchPlatform(ctx context.Context, platform order.Platform) (PlatformResult, error) {
	adapter, err := s.registry.Get(platform)
	if err != nil {
		return PlatformResult{}, shared.ErrUnsupportedPlatform
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.AdapterTimeout)
	defer cancel()

	normalized, err := adapter.FetchOrders(fetchCtx)
	if err != nil {
		return PlatformResult{}, fmt.Errorf("%w: %v", integration.ErrAdapterFetchFailed, err)
	}

	pr := PlatformResult{Platform: platform, Success: true, Orders: len(normalized)}
	for _, n := range normalized {
		action, _, err := s.upsertNormalized(ctx, n)
		if err != nil {
			// A store failure is not the platform's fault but it does
			// fail the platform's pass; the sweep carries on.
			return PlatformResult{}, err
		}
		switch action {
		case order.UpsertCreated:
			pr.Created++
		case order.UpsertUpdated:
			pr.Updated++
		}
	}
	return pr, nil
}

// IngestWebhook validates, transforms and upserts one webhook payload
func (s *Service) IngestWebhook(ctx context.Context, platform order.Platform, payload map[string]any) (*IngestResult, error) {
	if err := integration.ValidateWebhookPayload(platform, payload); err != nil {
		if errors.Is(err, integration.ErrUnsupportedPlatform) {
			return nil, shared.ErrUnsupportedPlatform
		}
		return nil, shared.NewDomainError(shared.ErrValidation.Code, err.Error())
	}

	adapter, err := s.registry.Get(platform)
	if err != nil {
		return nil, shared.ErrUnsupportedPlatform
	}

	transformCtx, cancel := context.WithTimeout(ctx, s.cfg.AdapterTimeout)
	defer cancel()

	n, err := adapter.TransformWebhook(transformCtx, payload)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, err.Error())
	}

	if s.dedup != nil {
		seen, derr := s.dedup.MarkSeen(ctx, platform, n.PlatformOrderID, payload)
		if derr != nil {
			// Dedup is best effort; a cache outage must not drop webhooks.
			s.log.Warn("Webhook dedup check failed", zap.Error(derr))
		} else if seen {
			s.log.Info("Duplicate webhook delivery suppressed",
				zap.String("platform", platform.String()),
				zap.String("platform_order_id", n.PlatformOrderID))
			existing, ferr := s.orders.FindByPlatformOrderID(ctx, platform, n.PlatformOrderID)
			if ferr == nil && existing != nil {
				return &IngestResult{Action: order.UpsertUpdated, Order: existing}, nil
			}
		}
	}

	action, stored, err := s.upsertNormalized(ctx, n)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Action: action, Order: stored}, nil
}

// upsertNormalized folds a normalized order into the store through the
// atomic (platform, platform_order_id) upsert
func (s *Service) upsertNormalized(ctx context.Context, n integration.NormalizedOrder) (order.UpsertAction, *order.Order, error) {
	if err := n.Validate(); err != nil {
		return "", nil, shared.NewDomainError(shared.ErrValidation.Code, err.Error())
	}

	o, err := order.NewOrder(n.Platform, n.PlatformOrderID, n.OrderDate, n.Status, order.SyncActor)
	if err != nil {
		return "", nil, shared.NewDomainError(shared.ErrValidation.Code, err.Error())
	}
	o.Customer = n.Customer
	o.Items = n.Items
	o.Subtotal = n.Subtotal
	o.Tax = n.Tax
	o.ShippingFee = n.ShippingFee
	o.Discount = n.Discount
	o.Total = n.Total
	if n.Currency != "" {
		o.Currency = n.Currency
	}
	o.ShippingInfo = n.ShippingInfo
	o.PlatformData = n.PlatformData
	o.MarkSynced()

	action, stored, err := s.orders.Upsert(ctx, o)
	if err != nil {
		s.log.Error("Order upsert failed",
			zap.String("platform", n.Platform.String()),
			zap.String("platform_order_id", n.PlatformOrderID),
			zap.Error(err))
		return "", nil, shared.NewDomainError(shared.ErrPersistence.Code, err.Error())
	}

	s.log.Debug("Order ingested",
		zap.String("platform", n.Platform.String()),
		zap.String("platform_order_id", n.PlatformOrderID),
		zap.String("action", string(action)))
	return action, stored, nil
}
