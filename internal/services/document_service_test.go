package services

import (
	"context"
	"testing"
	"time"

	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestUpload_CreatesDraftDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)
	assert.Equal(t, "PR-010", result.Code)
	assert.Equal(t, "Draft", result.Status)
	assert.Equal(t, []string{"F-001", "F-003"}, result.DetectedFormats)

	var count int64
	require.NoError(t, env.db.Model(&models.Document{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	doc, err := env.documents.Get(ctx, "PR-010")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, doc.Status)
	assert.Equal(t, "Quality, Ops", doc.ExecutionOwner)
	assert.Equal(t, "Jefe de Calidad", doc.UpdateOwner)
}

func TestUpload_DuplicateCodeIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)

	_, err = env.documents.Upload(ctx, []byte(sampleUpload))
	assert.ErrorIs(t, err, ErrDuplicateCode)

	var count int64
	require.NoError(t, env.db.Model(&models.Document{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "duplicate upload must not insert")
}

func TestUpload_MalformedJSONFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.documents.Upload(context.Background(), []byte(`{"Código": `))
	assert.Error(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpload_SeedsPersonnelFromAuthorizations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// One of the authorization names already exists; only the others seed.
	require.NoError(t, env.personnel.Create(ctx, &models.Person{FullName: "Ana Pérez", Title: "Auditora", Active: true}))

	result, err := env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Luis Gómez", "Marta Ruiz"}, result.SeededPersonnel)

	people, err := env.personnel.List(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)

	var ana models.Person
	require.NoError(t, env.db.First(&ana, "nombre_completo = ?", "Ana Pérez").Error)
	assert.Equal(t, "Auditora", ana.Title, "existing roster entries are not overwritten")

	var luis models.Person
	require.NoError(t, env.db.First(&luis, "nombre_completo = ?", "Luis Gómez").Error)
	assert.Equal(t, "Jefe de Calidad", luis.Title, "title comes from the second authorization row")
	assert.True(t, luis.Active)
}

func TestTransition_AppendsHistoryAndStatusLog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)

	entry, err := env.documents.Transition(ctx, "PR-010", models.StatusApproved, "aprobado por dirección")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, entry.PreviousStatus)
	assert.Equal(t, models.StatusApproved, entry.NewStatus)

	doc, err := env.documents.Get(ctx, "PR-010")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, doc.Status)
	assert.Equal(t, "aprobado por dirección", doc.ReviewComments)

	history, err := models.DecodeHistory(doc.ChangeHistory)
	require.NoError(t, err)
	require.Len(t, history, 2, "upload had one history entry, transition appends one")
	last := history[len(history)-1]
	assert.Equal(t, 2, last.Number)
	assert.Equal(t, "Cambio de estado de 'Draft' a 'Approved'", last.Description)
	assert.Equal(t, "Responsable del Sistema", last.Author)
	assert.Equal(t, "Responsable de Calidad", last.Approver)
	assert.Equal(t, "aprobado por dirección", last.Comments)

	entries, err := env.documents.StatusLog(ctx, "PR-010")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.StatusDraft, entries[0].PreviousStatus)
	assert.Equal(t, models.StatusApproved, entries[0].NewStatus)
}

func TestTransition_AnyStateToAnyState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)

	// No transition table: Obsolete straight back to Draft is allowed.
	_, err = env.documents.Transition(ctx, "PR-010", models.StatusObsolete, "")
	require.NoError(t, err)
	_, err = env.documents.Transition(ctx, "PR-010", models.StatusDraft, "")
	require.NoError(t, err)

	entries, err := env.documents.StatusLog(ctx, "PR-010")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTransition_CorruptedHistoryStartsFresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := &models.Document{
		Code:          "PR-020",
		Status:        models.StatusDraft,
		ChangeHistory: datatypes.JSON(`{"no": "es una lista"`),
	}
	require.NoError(t, env.db.Create(doc).Error)

	_, err := env.documents.Transition(ctx, "PR-020", models.StatusInReview, "")
	require.NoError(t, err)

	updated, err := env.documents.Get(ctx, "PR-020")
	require.NoError(t, err)
	history, err := models.DecodeHistory(updated.ChangeHistory)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Number)
}

func TestTransition_UnknownCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.documents.Transition(context.Background(), "PR-404", models.StatusApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSteps_ReplacesSection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)

	edited := []models.ProcessStep{
		{Number: 1, Description: "Paso editado", Responsible: "Quality"},
	}
	require.NoError(t, env.documents.UpdateSteps(ctx, "PR-010", edited))

	detail, err := env.documents.Detail(ctx, "PR-010")
	require.NoError(t, err)
	require.Len(t, detail.Steps, 1)
	assert.Equal(t, "Paso editado", detail.Steps[0].Description)
}

func TestDetail_CorruptedSectionDegrades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := &models.Document{
		Code:   "PR-030",
		Status: models.StatusDraft,
		Steps:  datatypes.JSON(`corrupted`),
		Risks:  datatypes.JSON(`[{"Riesgo": "Pérdida", "Ponderación": "Alta"}]`),
	}
	require.NoError(t, env.db.Create(doc).Error)

	detail, err := env.documents.Detail(ctx, "PR-030")
	require.NoError(t, err, "one corrupted section must not fail the view")
	assert.Empty(t, detail.Steps)
	assert.Contains(t, detail.SectionErrors, "pasos")
	require.Len(t, detail.Risks, 1, "intact sections still render")
}

func TestDelete_RemovesByCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)

	require.NoError(t, env.documents.Delete(ctx, "PR-010"))

	_, err = env.documents.Get(ctx, "PR-010")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, env.documents.Delete(ctx, "PR-010"), ErrNotFound)

	// A deleted code can be registered again.
	_, err = env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)
}

func TestUpcomingReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	docs := []models.Document{
		{Code: "PR-001", ReviewDate: "01/01/2027", Status: models.StatusDraft},
		{Code: "PR-002", ReviewDate: "01/03/2026", Status: models.StatusDraft}, // already past
		{Code: "PR-003", ReviewDate: "fecha inválida", Status: models.StatusDraft},
		{Code: "PR-004", ReviewDate: "01/08/2026", Status: models.StatusDraft},
	}
	for i := range docs {
		require.NoError(t, env.db.Create(&docs[i]).Error)
	}

	upcoming, err := env.documents.UpcomingReviews(ctx, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "PR-004", upcoming[0].Code, "ascending by parsed review date")
	assert.Equal(t, "PR-001", upcoming[1].Code)
}

func TestList_ReadAfterWriteThroughCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	docs, err := env.documents.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// The write invalidates the snapshot, so the next read observes it.
	_, err = env.documents.Upload(ctx, []byte(sampleUpload))
	require.NoError(t, err)

	docs, err = env.documents.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "PR-010", docs[0].Code)
}
