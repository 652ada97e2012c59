package services

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/btmxh/folio/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = `
roles:
  - name: Animator
    sortOrder: 1
tools:
  - name: Blender
experiences:
  - company: Studio A
    position: Animator
    startDate: 2021-06-01
    roles: [animation, " animation ", ""]
projects:
  - title: Creature reel
    videoUrl: https://youtu.be/abc123
    tools: [maya, houdini, maya]
`

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed(strings.NewReader(testSeed))
	require.NoError(t, err)

	require.Len(t, seed.Roles, 1)
	assert.Equal(t, 1, seed.Roles[0].SortOrder)
	require.Len(t, seed.Experiences, 1)
	assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), seed.Experiences[0].StartDate)
	assert.Nil(t, seed.Experiences[0].EndDate)
	require.Len(t, seed.Projects, 1)
	assert.Equal(t, "https://youtu.be/abc123", seed.Projects[0].VideoURL)

	seed, err = ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seed.Projects)

	_, err = ParseSeed(strings.NewReader("projects:\n  - titel: typo\n"))
	assert.Error(t, err)
}

func TestCleanList(t *testing.T) {
	assert.Equal(t, []string{"maya", "houdini"}, cleanList([]string{" maya", "", "houdini", "maya "}))
	assert.NotNil(t, cleanList(nil))
}

func TestImport(t *testing.T) {
	seed, err := ParseSeed(strings.NewReader(testSeed))
	require.NoError(t, err)

	mock := withMockDB(t)
	catalog := NewCatalog(clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), time.Minute, nil)
	tx, handler := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO roles").
		WithArgs(sqlmock.AnyArg(), "Animator", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tools").
		WithArgs(sqlmock.AnyArg(), "Blender", "blender").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO experiences").
		WithArgs(sqlmock.AnyArg(), "Studio A", "Animator", "", sqlmock.AnyArg(), sqlmock.AnyArg(), "", "{\"animation\"}").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO projects").
		WithArgs(sqlmock.AnyArg(), "Creature reel", "", "", "https://youtu.be/abc123", sqlmock.AnyArg(), "{\"maya\",\"houdini\"}", false, 0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	summary, hasErr := catalog.Import(tx, seed)
	require.False(t, hasErr, "errors: %v", handler.Errors)
	assert.Equal(t, ImportSummary{Roles: 1, Tools: 1, Experiences: 1, Projects: 1}, summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportStopsAtInvalidRecord(t *testing.T) {
	mock := withMockDB(t)
	catalog := NewCatalog(clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), time.Minute, nil)
	tx, handler := beginTx(t, mock)

	summary, hasErr := catalog.Import(tx, Seed{
		Roles:    []RoleInput{{Name: "  "}},
		Projects: []ProjectInput{{Title: "Never inserted"}},
	})
	require.True(t, hasErr)
	assert.Equal(t, ImportSummary{}, summary)
	assert.Equal(t, http.StatusUnprocessableEntity, handler.StatusCode)
	assert.Equal(t, []error{emptyNameError}, handler.Public())
}
