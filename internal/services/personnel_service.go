package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/soorozco/controldoc/internal/cache"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PersonnelService struct {
	db      *gorm.DB
	cache   *cache.Store
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

func NewPersonnelService(db *gorm.DB, cache *cache.Store, logger *zap.Logger, metrics *metrics.MetricsCollector) *PersonnelService {
	return &PersonnelService{
		db:      db,
		cache:   cache,
		logger:  logger.With(zap.String("service", "personnel_service")),
		metrics: metrics,
	}
}

func (ps *PersonnelService) Create(ctx context.Context, person *models.Person) error {
	var count int64
	if err := ps.db.WithContext(ctx).Model(&models.Person{}).
		Where("nombre_completo = ?", person.FullName).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		ps.logger.Warn("person already registered, insert skipped", zap.String("nombre", person.FullName))
		return fmt.Errorf("persona %s: %w", person.FullName, ErrDuplicateName)
	}

	if err := ps.db.WithContext(ctx).Create(person).Error; err != nil {
		return err
	}

	ps.metrics.IncrementCounter("personnel_created", nil)
	ps.cache.Invalidate(cache.Personnel)
	ps.logger.Info("person registered", zap.String("nombre", person.FullName))
	return nil
}

func (ps *PersonnelService) List(ctx context.Context) ([]models.Person, error) {
	if snapshot, ok := ps.cache.Get(cache.Personnel); ok {
		if people, ok := snapshot.([]models.Person); ok {
			return people, nil
		}
	}

	var people []models.Person
	if err := ps.db.WithContext(ctx).Order("nombre_completo ASC").Find(&people).Error; err != nil {
		return nil, err
	}
	ps.cache.Put(cache.Personnel, people)
	return people, nil
}

// Delete removes one person by full name. Deletion is refused while the name
// is any document's update owner; execution and supervision owners are not
// checked.
func (ps *PersonnelService) Delete(ctx context.Context, fullName string) error {
	var referenced int64
	if err := ps.db.WithContext(ctx).Model(&models.Document{}).
		Where("responsable_actualizacion = ?", fullName).
		Count(&referenced).Error; err != nil {
		return err
	}
	if referenced > 0 {
		ps.logger.Warn("person delete refused, referenced by documents",
			zap.String("nombre", fullName), zap.Int64("documentos", referenced))
		return fmt.Errorf("persona %s: %w", fullName, ErrPersonReferenced)
	}

	result := ps.db.WithContext(ctx).Unscoped().Where("nombre_completo = ?", fullName).Delete(&models.Person{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("persona %s: %w", fullName, ErrNotFound)
	}

	ps.cache.Invalidate(cache.Personnel)
	ps.logger.Info("person deleted", zap.String("nombre", fullName))
	return nil
}

// ExportCSV renders the roster as CSV for download.
func (ps *PersonnelService) ExportCSV(ctx context.Context) ([]byte, error) {
	people, err := ps.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"nombre_completo", "cargo", "area", "email", "activo"}); err != nil {
		return nil, err
	}
	for _, person := range people {
		row := []string{
			person.FullName,
			person.Title,
			person.Area,
			person.Email,
			strconv.FormatBool(person.Active),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	ps.metrics.IncrementCounter("personnel_exported", nil)
	return buf.Bytes(), nil
}
