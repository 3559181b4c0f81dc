package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/soorozco/controldoc/internal/cache"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RecordService struct {
	db      *gorm.DB
	cache   *cache.Store
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

// RecordFilter narrows a record listing by exact-match equality. Empty
// fields are ignored; both set means both must match.
type RecordFilter struct {
	OriginDocument string
	Status         string
}

func NewRecordService(db *gorm.DB, cache *cache.Store, logger *zap.Logger, metrics *metrics.MetricsCollector) *RecordService {
	return &RecordService{
		db:      db,
		cache:   cache,
		logger:  logger.With(zap.String("service", "record_service")),
		metrics: metrics,
	}
}

// Create registers one record manually. Records are never created from
// detected format codes.
func (rs *RecordService) Create(ctx context.Context, record *models.Record) error {
	if record.Status == "" {
		record.Status = models.RecordStatusActive
	}

	var count int64
	if err := rs.db.WithContext(ctx).Model(&models.Record{}).
		Where("codigo = ?", record.Code).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		rs.logger.Warn("record already registered, insert skipped", zap.String("codigo", record.Code))
		return fmt.Errorf("registro %s: %w", record.Code, ErrDuplicateCode)
	}

	if err := rs.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}

	rs.metrics.IncrementCounter("records_created", nil)
	rs.cache.Invalidate(cache.Records)
	rs.logger.Info("record registered",
		zap.String("codigo", record.Code),
		zap.String("documento_origen", record.OriginDocument))
	return nil
}

// List loads records through the snapshot cache and applies the filter in
// memory, the same way the register's views filter the loaded table.
func (rs *RecordService) List(ctx context.Context, filter RecordFilter) ([]models.Record, error) {
	records, err := rs.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	if filter.OriginDocument == "" && filter.Status == "" {
		return records, nil
	}

	filtered := make([]models.Record, 0, len(records))
	for _, record := range records {
		if filter.OriginDocument != "" && record.OriginDocument != filter.OriginDocument {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered, nil
}

func (rs *RecordService) loadAll(ctx context.Context) ([]models.Record, error) {
	if snapshot, ok := rs.cache.Get(cache.Records); ok {
		if records, ok := snapshot.([]models.Record); ok {
			return records, nil
		}
	}

	var records []models.Record
	if err := rs.db.WithContext(ctx).Order("codigo ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	rs.cache.Put(cache.Records, records)
	return records, nil
}

func (rs *RecordService) Get(ctx context.Context, code string) (*models.Record, error) {
	var record models.Record
	if err := rs.db.WithContext(ctx).First(&record, "codigo = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("registro %s: %w", code, ErrNotFound)
		}
		return nil, err
	}
	return &record, nil
}

func (rs *RecordService) Delete(ctx context.Context, code string) error {
	result := rs.db.WithContext(ctx).Unscoped().Where("codigo = ?", code).Delete(&models.Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("registro %s: %w", code, ErrNotFound)
	}

	rs.cache.Invalidate(cache.Records)
	rs.logger.Info("record deleted", zap.String("codigo", code))
	return nil
}
