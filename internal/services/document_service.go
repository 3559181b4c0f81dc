package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/soorozco/controldoc/internal/cache"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/internal/extract"
	"github.com/soorozco/controldoc/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewDateLayout is the dd/mm/yyyy layout used for issue, review and
// change-history dates across the register.
const ReviewDateLayout = "02/01/2006"

const (
	historyAuthor   = "Responsable del Sistema"
	historyApprover = "Responsable de Calidad"
)

type DocumentService struct {
	db      *gorm.DB
	cache   *cache.Store
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

// UploadResult reports one processed upload. DetectedFormats lists F-###
// codes found in the step descriptions, surfaced as candidates for manual
// record registration only.
type UploadResult struct {
	Code            string   `json:"codigo"`
	Name            string   `json:"nombre_documento"`
	Status          string   `json:"estado"`
	DetectedFormats []string `json:"formatos_detectados"`
	SeededPersonnel []string `json:"personal_registrado"`
	Warnings        []string `json:"advertencias,omitempty"`
}

// DocumentDetail is the read-side view of one document with every stored
// section decoded. Sections whose stored JSON no longer parses land in
// SectionErrors and render empty; the rest of the view is unaffected.
type DocumentDetail struct {
	Document       *models.Document           `json:"documento"`
	Steps          []models.ProcessStep       `json:"pasos"`
	ChangeHistory  []models.ChangeEntry       `json:"historial_cambios"`
	Risks          []models.RiskItem          `json:"riesgos"`
	SafetyBarriers []models.SafetyBarrier     `json:"barreras_seguridad"`
	ReferenceDocs  []models.ReferenceDocument `json:"documentos_referencia"`
	Authorizations []models.AuthorizationRow  `json:"autorizaciones"`
	SectionErrors  map[string]string          `json:"section_errors,omitempty"`
}

// ReviewEntry is one row of the upcoming-reviews view.
type ReviewEntry struct {
	Code       string    `json:"codigo"`
	Name       string    `json:"nombre_documento"`
	ReviewDate string    `json:"fecha_revision"`
	DueAt      time.Time `json:"-"`
}

func NewDocumentService(db *gorm.DB, cache *cache.Store, logger *zap.Logger, metrics *metrics.MetricsCollector) *DocumentService {
	return &DocumentService{
		db:      db,
		cache:   cache,
		logger:  logger.With(zap.String("service", "document_service")),
		metrics: metrics,
	}
}

// Upload extracts one authoring-tool JSON object and inserts it as a new
// document in Draft state. An existing code makes the whole upload a no-op
// with ErrDuplicateCode. Personnel named in the authorization table are
// seeded into the roster when not already present.
func (ds *DocumentService) Upload(ctx context.Context, raw []byte) (*UploadResult, error) {
	start := time.Now()

	extracted, err := extract.FromUpload(raw)
	if err != nil {
		return nil, err
	}
	doc := extracted.Document

	var count int64
	if err := ds.db.WithContext(ctx).Model(&models.Document{}).
		Where("codigo = ?", doc.Code).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		ds.logger.Warn("document already registered, upload skipped", zap.String("codigo", doc.Code))
		return nil, fmt.Errorf("documento %s: %w", doc.Code, ErrDuplicateCode)
	}

	if err := ds.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}

	seeded := ds.seedPersonnel(ctx, doc)

	ds.metrics.IncrementCounter("documents_uploaded", nil)
	ds.metrics.ObserveSize("upload_bytes", float64(len(raw)))
	ds.metrics.ObserveLatency("document_upload", time.Since(start))

	ds.cache.Invalidate(cache.Documents)
	if len(seeded) > 0 {
		ds.cache.Invalidate(cache.Personnel)
	}

	ds.logger.Info("document registered",
		zap.String("codigo", doc.Code),
		zap.Strings("formatos_detectados", extracted.FormatCodes),
		zap.Int("personal_registrado", len(seeded)))

	return &UploadResult{
		Code:            doc.Code,
		Name:            doc.Name,
		Status:          string(doc.Status),
		DetectedFormats: extracted.FormatCodes,
		SeededPersonnel: seeded,
		Warnings:        extracted.Warnings,
	}, nil
}

// seedPersonnel inserts the names on the authorization table's names row into
// the roster, matched by exact full name. Failures are logged and skipped;
// seeding never fails an upload.
func (ds *DocumentService) seedPersonnel(ctx context.Context, doc *models.Document) []string {
	rows, err := models.DecodeAuthorizations(doc.Authorizations)
	if err != nil || len(rows) == 0 {
		return nil
	}

	names := []string{rows[0].Elaborated, rows[0].Reviewed, rows[0].Authorized}
	titles := []string{"", "", ""}
	if len(rows) > 1 {
		titles = []string{rows[1].Elaborated, rows[1].Reviewed, rows[1].Authorized}
	}

	var seeded []string
	for i, name := range names {
		if name == "" {
			continue
		}
		var count int64
		if err := ds.db.WithContext(ctx).Model(&models.Person{}).
			Where("nombre_completo = ?", name).
			Count(&count).Error; err != nil || count > 0 {
			continue
		}
		person := &models.Person{FullName: name, Title: titles[i], Active: true}
		if err := ds.db.WithContext(ctx).Create(person).Error; err != nil {
			ds.logger.Warn("could not seed person from authorizations",
				zap.String("nombre", name), zap.Error(err))
			continue
		}
		seeded = append(seeded, name)
	}
	return seeded
}

func (ds *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	if snapshot, ok := ds.cache.Get(cache.Documents); ok {
		if docs, ok := snapshot.([]models.Document); ok {
			return docs, nil
		}
	}

	var docs []models.Document
	if err := ds.db.WithContext(ctx).Order("codigo ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	ds.cache.Put(cache.Documents, docs)
	return docs, nil
}

func (ds *DocumentService) Get(ctx context.Context, code string) (*models.Document, error) {
	var doc models.Document
	if err := ds.db.WithContext(ctx).First(&doc, "codigo = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("documento %s: %w", code, ErrNotFound)
		}
		return nil, err
	}
	return &doc, nil
}

// Detail decodes every stored section of one document. A corrupted section
// is reported under its column name and degrades to empty.
func (ds *DocumentService) Detail(ctx context.Context, code string) (*DocumentDetail, error) {
	doc, err := ds.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	detail := &DocumentDetail{Document: doc, SectionErrors: map[string]string{}}

	decode := func(section string, fn func() error) {
		if err := fn(); err != nil {
			ds.logger.Warn("stored section is corrupted",
				zap.String("codigo", code), zap.String("section", section), zap.Error(err))
			detail.SectionErrors[section] = err.Error()
		}
	}

	decode("pasos", func() (err error) { detail.Steps, err = models.DecodeSteps(doc.Steps); return })
	decode("historial_cambios", func() (err error) { detail.ChangeHistory, err = models.DecodeHistory(doc.ChangeHistory); return })
	decode("riesgos", func() (err error) { detail.Risks, err = models.DecodeRisks(doc.Risks); return })
	decode("barreras_seguridad", func() (err error) { detail.SafetyBarriers, err = models.DecodeBarriers(doc.SafetyBarriers); return })
	decode("documentos_referencia", func() (err error) { detail.ReferenceDocs, err = models.DecodeReferences(doc.ReferenceDocs); return })
	decode("autorizaciones", func() (err error) { detail.Authorizations, err = models.DecodeAuthorizations(doc.Authorizations); return })

	if len(detail.SectionErrors) == 0 {
		detail.SectionErrors = nil
	}
	return detail, nil
}

// UpdateSteps replaces the steps section with the operator-edited rows.
func (ds *DocumentService) UpdateSteps(ctx context.Context, code string, steps []models.ProcessStep) error {
	if steps == nil {
		steps = []models.ProcessStep{}
	}
	raw, err := json.Marshal(steps)
	if err != nil {
		return err
	}

	result := ds.db.WithContext(ctx).Model(&models.Document{}).
		Where("codigo = ?", code).
		Update("pasos", datatypes.JSON(raw))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("documento %s: %w", code, ErrNotFound)
	}

	ds.cache.Invalidate(cache.Documents)
	ds.logger.Info("document steps updated", zap.String("codigo", code), zap.Int("pasos", len(steps)))
	return nil
}

func (ds *DocumentService) Delete(ctx context.Context, code string) error {
	// Operator deletes remove the row for real so the code can be
	// registered again later.
	result := ds.db.WithContext(ctx).Unscoped().Where("codigo = ?", code).Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("documento %s: %w", code, ErrNotFound)
	}

	ds.metrics.IncrementCounter("documents_deleted", nil)
	ds.cache.Invalidate(cache.Documents)
	ds.logger.Info("document deleted", zap.String("codigo", code))
	return nil
}

// Transition moves a document to newStatus. Any state may move to any other
// state. One unit of work updates the status, appends a change-history entry
// and inserts a status-log row.
func (ds *DocumentService) Transition(ctx context.Context, code string, newStatus models.DocumentStatus, comments string) (*models.StatusLogEntry, error) {
	start := time.Now()

	doc, err := ds.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	previous := doc.Status

	history, err := models.DecodeHistory(doc.ChangeHistory)
	if err != nil {
		ds.logger.Warn("stored change history is corrupted, starting a fresh one",
			zap.String("codigo", code), zap.Error(err))
		history = nil
	}

	history = append(history, models.ChangeEntry{
		Number:      len(history) + 1,
		Date:        time.Now().Format(ReviewDateLayout),
		Description: fmt.Sprintf("Cambio de estado de '%s' a '%s'", previous, newStatus),
		Author:      historyAuthor,
		Approver:    historyApprover,
		Comments:    comments,
	})
	rawHistory, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}

	logEntry := &models.StatusLogEntry{
		DocumentCode:   code,
		PreviousStatus: previous,
		NewStatus:      newStatus,
		Comments:       comments,
		Timestamp:      time.Now(),
	}

	err = ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).
			Where("codigo = ?", code).
			Updates(map[string]any{
				"estado":               newStatus,
				"comentarios_revision": comments,
				"historial_cambios":    datatypes.JSON(rawHistory),
			}).Error; err != nil {
			return err
		}
		return tx.Create(logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	ds.metrics.IncrementCounter("status_transitions", map[string]string{"nuevo_estado": string(newStatus)})
	ds.metrics.ObserveLatency("status_transition", time.Since(start))
	ds.cache.Invalidate(cache.Documents, cache.StatusLog)

	ds.logger.Info("document status changed",
		zap.String("codigo", code),
		zap.String("estado_anterior", string(previous)),
		zap.String("nuevo_estado", string(newStatus)))

	return logEntry, nil
}

// StatusLog lists the append-only transition log, optionally filtered by
// document code.
func (ds *DocumentService) StatusLog(ctx context.Context, code string) ([]models.StatusLogEntry, error) {
	if code == "" {
		if snapshot, ok := ds.cache.Get(cache.StatusLog); ok {
			if entries, ok := snapshot.([]models.StatusLogEntry); ok {
				return entries, nil
			}
		}
	}

	query := ds.db.WithContext(ctx).Order("fecha ASC")
	if code != "" {
		query = query.Where("codigo = ?", code)
	}

	var entries []models.StatusLogEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	if code == "" {
		ds.cache.Put(cache.StatusLog, entries)
	}
	return entries, nil
}

// UpcomingReviews lists documents whose review date is strictly in the
// future, ascending. Rows whose date does not parse under the register's
// layout are excluded.
func (ds *DocumentService) UpcomingReviews(ctx context.Context, now time.Time) ([]ReviewEntry, error) {
	docs, err := ds.List(ctx)
	if err != nil {
		return nil, err
	}

	var upcoming []ReviewEntry
	for _, doc := range docs {
		due, err := time.Parse(ReviewDateLayout, doc.ReviewDate)
		if err != nil {
			ds.logger.Debug("unparseable review date, row excluded",
				zap.String("codigo", doc.Code), zap.String("fecha_revision", doc.ReviewDate))
			continue
		}
		if !due.After(now) {
			continue
		}
		upcoming = append(upcoming, ReviewEntry{
			Code:       doc.Code,
			Name:       doc.Name,
			ReviewDate: doc.ReviewDate,
			DueAt:      due,
		})
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DueAt.Before(upcoming[j].DueAt)
	})
	return upcoming, nil
}
