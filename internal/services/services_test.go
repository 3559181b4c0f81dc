package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/soorozco/controldoc/internal/cache"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/pkg/metrics"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	cache     *cache.Store
	documents *DocumentService
	records   *RecordService
	personnel *PersonnelService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// One named in-memory database per test so connections from the pool
	// all see the same tables.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Document{},
		&models.Record{},
		&models.Person{},
		&models.StatusLogEntry{},
	))

	logger := zap.NewNop()
	collector := metrics.NewMetricsCollector()
	snapshots := cache.New()

	return &testEnv{
		db:        db,
		cache:     snapshots,
		documents: NewDocumentService(db, snapshots, logger, collector),
		records:   NewRecordService(db, snapshots, logger, collector),
		personnel: NewPersonnelService(db, snapshots, logger, collector),
	}
}

const sampleUpload = `{
	"Código": "PR-010",
	"Nombre del Documento": "Control de Documentos",
	"Versión vigente": "3",
	"Fecha de emisión": "01/02/2025",
	"Fecha de revisión": "01/02/2027",
	"Responsabilidades": {
		"Actualización": "Jefe de Calidad",
		"Supervisión": "Gerente General"
	},
	"Desarrollo del Proceso": {"table": [
		{"Número": 1, "Descripción": "Registrar la solicitud en el formato F-003", "Responsable": "Quality"},
		{"Número": 2, "Descripción": "Archivar la evidencia f-002 y F-12", "Responsable": "Quality"},
		{"Número": 3, "Descripción": "Verificar los formatos F-001 y F-003", "Responsable": "Ops"}
	]},
	"Control de Cambios": {"table": [
		{"Número": 1, "Fecha": "01/02/2025", "Descripción del Cambio": "Emisión inicial", "Realizado por": "Ana Pérez", "Aprobado por": "Marta Ruiz"}
	]},
	"Autorizaciones": {"table": [
		{"Elaboró": "Ana Pérez", "Revisó": "Luis Gómez", "Autorizó": "Marta Ruiz"},
		{"Elaboró": "Analista de Calidad", "Revisó": "Jefe de Calidad", "Autorizó": "Gerente General"}
	]}
}`
