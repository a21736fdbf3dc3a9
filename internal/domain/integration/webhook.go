package integration

import (
	"fmt"

	"github.com/orderdesk/backend/internal/domain/order"
)

// requiredWebhookFields lists the minimum field set a webhook payload must
// carry per platform. Existence checks only; payload signatures are not
// verified in this system.
var requiredWebhookFields = map[order.Platform][]string{
	order.PlatformAmazon:   {"amazon_order_id", "order_date"},
	order.PlatformBlinkit:  {"blinkit_order_id", "created_at"},
	order.PlatformFlipkart: {"flipkart_order_id", "order_date"},
	order.PlatformSwiggy:   {"swiggy_order_id", "created_at"},
	order.PlatformOrganic:  {"order_id", "created_at"},
}

// RequiredWebhookFields returns the required field names for a platform
func RequiredWebhookFields(platform order.Platform) ([]string, error) {
	fields, ok := requiredWebhookFields[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	return fields, nil
}

// ValidateWebhookPayload checks the payload carries every required field
// for the platform, non-empty
func ValidateWebhookPayload(platform order.Platform, payload map[string]any) error {
	fields, err := RequiredWebhookFields(platform)
	if err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	for _, field := range fields {
		v, ok := payload[field]
		if !ok || v == nil || v == "" {
			return fmt.Errorf("%w: %s requires %q", ErrMissingWebhookField, platform, field)
		}
	}
	return nil
}
