package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ order.Repository = (*GormOrderRepository)(nil)

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its globally unique order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlatformOrderID finds an order by its natural external key
func (r *GormOrderRepository) FindByPlatformOrderID(ctx context.Context, platform order.Platform, platformOrderID string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND platform_order_id = ?", platform, platformOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter, returning the page and the
// total match count
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, OrderSortFields, "order_date")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	query = query.Offset((page - 1) * limit).Limit(limit)

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Save creates an order
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing order
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Upsert atomically inserts or updates the order keyed on
// (platform, platform_order_id). The row is locked for the duration of the
// transaction so concurrent ingestions of the same external order serialize
// instead of losing status-history appends; an insert race falls back to
// the update path.
func (r *GormOrderRepository) Upsert(ctx context.Context, o *order.Order) (order.UpsertAction, *order.Order, error) {
	var (
		action order.UpsertAction
		result *order.Order
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.lockByPlatformOrderID(tx, o.Platform, o.PlatformOrderID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing == nil {
			model := models.OrderModelFromDomain(o)
			if err := tx.Create(model).Error; err != nil {
				if !isUniqueViolation(err) {
					return err
				}
				// Lost the insert race; the row now exists, update it.
				existing, err = r.lockByPlatformOrderID(tx, o.Platform, o.PlatformOrderID)
				if err != nil {
					return err
				}
			} else {
				action = order.UpsertCreated
				result = model.ToDomain()
				return nil
			}
		}

		merged := mergeOrder(existing.ToDomain(), o)
		model := models.OrderModelFromDomain(merged)
		if err := tx.Model(&models.OrderModel{}).
			Where("id = ?", merged.ID).
			Select("*").
			Omit("id", "created_at").
			Updates(model).Error; err != nil {
			return err
		}
		action = order.UpsertUpdated
		result = merged
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return action, result, nil
}

// lockByPlatformOrderID fetches the row under FOR UPDATE where the dialect
// supports it. SQLite serializes writers on its own.
func (r *GormOrderRepository) lockByPlatformOrderID(tx *gorm.DB, platform order.Platform, platformOrderID string) (*models.OrderModel, error) {
	query := tx.Where("platform = ? AND platform_order_id = ?", platform, platformOrderID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.OrderModel
	if err := query.First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// mergeOrder folds freshly fetched platform data into the stored order. The
// stored identity (ID, order number, creation time, status history) wins;
// the platform is authoritative for everything it reports.
func mergeOrder(existing, incoming *order.Order) *order.Order {
	_ = existing.ApplySyncedStatus(incoming.Status, "Synced from platform")
	existing.Customer = incoming.Customer
	existing.Items = incoming.Items
	existing.Subtotal = incoming.Subtotal
	existing.Tax = incoming.Tax
	existing.ShippingFee = incoming.ShippingFee
	existing.Discount = incoming.Discount
	existing.Total = incoming.Total
	if incoming.Currency != "" {
		existing.Currency = incoming.Currency
	}
	existing.ShippingInfo = incoming.ShippingInfo
	if incoming.PlatformData != nil {
		existing.PlatformData = incoming.PlatformData
	}
	if !incoming.OrderDate.IsZero() {
		existing.OrderDate = incoming.OrderDate
	}
	existing.MarkSynced()
	return existing
}

// Delete removes an order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter order.ListFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetDashboardStats aggregates the dashboard metrics
func (r *GormOrderRepository) GetDashboardStats(ctx context.Context) (*order.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &order.DashboardStats{
		TotalRevenue:     decimal.Zero,
		AvgOrderValue:    decimal.Zero,
		OrdersByStatus:   make(map[order.Status]int64),
		OrdersByPlatform: make(map[order.Platform]int64),
	}

	if err := db.Model(&models.OrderModel{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	var revenue struct {
		Total decimal.Decimal
	}
	if err := db.Model(&models.OrderModel{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total
	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(stats.TotalOrders)).Round(2)
	}

	if err := db.Model(&models.OrderModel{}).
		Distinct("customer_email").
		Where("customer_email <> ''").
		Count(&stats.ActiveCustomers).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status order.Status
		Count  int64
	}
	var statusRows []statusRow
	if err := db.Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.OrdersByStatus[row.Status] = row.Count
	}

	type platformRow struct {
		Platform order.Platform
		Count    int64
	}
	var platformRows []platformRow
	if err := db.Model(&models.OrderModel{}).
		Select("platform, COUNT(*) AS count").
		Group("platform").
		Scan(&platformRows).Error; err != nil {
		return nil, err
	}
	for _, row := range platformRows {
		stats.OrdersByPlatform[row.Platform] = row.Count
	}

	return stats, nil
}

// FindRecent returns the most recently created orders
func (r *GormOrderRepository) FindRecent(ctx context.Context, limit int) ([]order.Order, error) {
	if limit < 1 {
		limit = 10
	}
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// GetDailyTrends returns per-day order counts and revenue for the trailing
// window. Bucketing happens in Go to stay portable across dialects.
func (r *GormOrderRepository) GetDailyTrends(ctx context.Context, days int) ([]order.DailyTrend, error) {
	if days < 1 {
		days = 7
	}
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))

	type row struct {
		OrderDate time.Time
		Total     decimal.Decimal
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("order_date, total").
		Where("order_date >= ?", since).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	buckets := make(map[time.Time]*order.DailyTrend, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i)
		buckets[day] = &order.DailyTrend{Date: day, Revenue: decimal.Zero}
	}
	for _, rec := range rows {
		day := rec.OrderDate.UTC().Truncate(24 * time.Hour)
		bucket, ok := buckets[day]
		if !ok {
			continue
		}
		bucket.Orders++
		bucket.Revenue = bucket.Revenue.Add(rec.Total)
	}

	trends := make([]order.DailyTrend, 0, days)
	for i := 0; i < days; i++ {
		trends = append(trends, *buckets[since.AddDate(0, 0, i)])
	}
	return trends, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter order.ListFilter) *gorm.DB {
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("order_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("order_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

// isUniqueViolation reports whether the error is a unique constraint
// violation on any supported dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
