package integration

import (
	"testing"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping_Resolve(t *testing.T) {
	m := NewStatusMapping(order.PlatformAmazon, map[string]order.Status{
		"pending":   order.StatusPending,
		"confirmed": order.StatusConfirmed,
		"shipped":   order.StatusDispatched,
		"delivered": order.StatusDelivered,
		"cancelled": order.StatusCancelled,
	})

	got, err := m.Resolve("shipped", false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDispatched, got)

	got, err = m.Resolve("SHIPPED", false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDispatched, got, "source statuses are case-insensitive")

	// Lenient mode: unmapped source statuses collapse to pending.
	got, err = m.Resolve("on_hold", false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got)

	// Strict mode surfaces the unmapped status instead.
	_, err = m.Resolve("on_hold", true)
	assert.ErrorIs(t, err, ErrUnmappedSourceStatus)

	assert.True(t, m.Known("delivered"))
	assert.False(t, m.Known("on_hold"))
}

func TestValidateWebhookPayload(t *testing.T) {
	tests := []struct {
		name     string
		platform order.Platform
		payload  map[string]any
		wantErr  error
	}{
		{
			name:     "amazon payload with required fields",
			platform: order.PlatformAmazon,
			payload:  map[string]any{"amazon_order_id": "AMZ-TEST-001", "order_date": "2024-01-15T15:30:00Z"},
		},
		{
			name:     "amazon payload missing order date",
			platform: order.PlatformAmazon,
			payload:  map[string]any{"amazon_order_id": "AMZ-TEST-001"},
			wantErr:  ErrMissingWebhookField,
		},
		{
			name:     "blinkit requires created_at",
			platform: order.PlatformBlinkit,
			payload:  map[string]any{"blinkit_order_id": "BLK-1"},
			wantErr:  ErrMissingWebhookField,
		},
		{
			name:     "swiggy payload complete",
			platform: order.PlatformSwiggy,
			payload:  map[string]any{"swiggy_order_id": "SWG-1", "created_at": "2024-01-15T12:00:00Z"},
		},
		{
			name:     "organic uses plain order_id",
			platform: order.PlatformOrganic,
			payload:  map[string]any{"order_id": "ORG-1", "created_at": "2024-01-15T12:00:00Z"},
		},
		{
			name:     "empty required field rejected",
			platform: order.PlatformFlipkart,
			payload:  map[string]any{"flipkart_order_id": "", "order_date": "2024-01-15"},
			wantErr:  ErrMissingWebhookField,
		},
		{
			name:     "nil payload rejected",
			platform: order.PlatformFlipkart,
			payload:  nil,
			wantErr:  ErrMalformedPayload,
		},
		{
			name:     "unknown platform rejected",
			platform: order.Platform("etsy"),
			payload:  map[string]any{"order_id": "1"},
			wantErr:  ErrUnsupportedPlatform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWebhookPayload(tt.platform, tt.payload)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
