package services

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/btmxh/folio/internal/db"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ExperienceNotFoundError = errors.New("Experience not found.")
var emptyCompanyError = errors.New("Company must not be empty.")
var invalidDateRangeError = errors.New("End date must not be before start date.")

type Experience struct {
	Id          uuid.UUID  `json:"id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description"`
	Roles       []string   `json:"roles"`
}

// Current reports whether the position is still held.
func (e Experience) Current() bool {
	return e.EndDate == nil
}

type ExperienceInput struct {
	Company     string     `json:"company" yaml:"company"`
	Position    string     `json:"position" yaml:"position"`
	Location    string     `json:"location" yaml:"location"`
	StartDate   time.Time  `json:"startDate" yaml:"startDate"`
	EndDate     *time.Time `json:"endDate" yaml:"endDate"`
	Description string     `json:"description" yaml:"description"`
	Roles       []string   `json:"roles" yaml:"roles"`
}

func validateExperience(tx *db.Tx, input *ExperienceInput) (hasErr bool) {
	input.Company = strings.TrimSpace(input.Company)
	if input.Company == "" {
		tx.PublicError(http.StatusUnprocessableEntity, emptyCompanyError)
		return true
	}

	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		tx.PublicError(http.StatusUnprocessableEntity, invalidDateRangeError)
		return true
	}

	input.Roles = cleanList(input.Roles)
	return false
}

func scanExperience(row rowScanner) (Experience, error) {
	var e Experience
	var endDate sql.NullTime
	if err := row.Scan(&e.Id, &e.Company, &e.Position, &e.Location, &e.StartDate, &endDate, &e.Description, pq.Array(&e.Roles)); err != nil {
		return e, err
	}

	if endDate.Valid {
		e.EndDate = &endDate.Time
	}
	if e.Roles == nil {
		e.Roles = []string{}
	}
	return e, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// ListExperiences returns every experience, current positions first.
func ListExperiences(tx *db.Tx) (experiences []Experience, hasErr bool) {
	var rows *sql.Rows
	if tx.Query(&rows, "SELECT id, company, position, location, start_date, end_date, description, roles FROM experiences ORDER BY end_date DESC NULLS FIRST, start_date DESC") {
		return nil, true
	}

	experiences = []Experience{}
	hasErr = tx.ScanRows(rows, func(rows *sql.Rows) error {
		e, err := scanExperience(rows)
		experiences = append(experiences, e)
		return err
	})
	return experiences, hasErr
}

func GetExperience(tx *db.Tx, id uuid.UUID) (experience Experience, hasErr bool) {
	var hasRow bool
	var endDate sql.NullTime
	if tx.QueryRow("SELECT id, company, position, location, start_date, end_date, description, roles FROM experiences WHERE id = $1", id).
		Scan(&hasRow, &experience.Id, &experience.Company, &experience.Position, &experience.Location,
			&experience.StartDate, &endDate, &experience.Description, pq.Array(&experience.Roles)) {
		return experience, true
	}

	if !hasRow {
		tx.PublicError(http.StatusNotFound, ExperienceNotFoundError)
		return experience, true
	}

	if endDate.Valid {
		experience.EndDate = &endDate.Time
	}
	if experience.Roles == nil {
		experience.Roles = []string{}
	}
	return experience, false
}

func CreateExperience(tx *db.Tx, input ExperienceInput) (experience Experience, hasErr bool) {
	if validateExperience(tx, &input) {
		return experience, true
	}

	id := uuid.New()
	if tx.Exec(nil, "INSERT INTO experiences (id, company, position, location, start_date, end_date, description, roles) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		id, input.Company, input.Position, input.Location, input.StartDate, nullTime(input.EndDate), input.Description, pq.Array(input.Roles)) {
		return experience, true
	}

	return Experience{
		Id:          id,
		Company:     input.Company,
		Position:    input.Position,
		Location:    input.Location,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Description: input.Description,
		Roles:       input.Roles,
	}, false
}

func UpdateExperience(tx *db.Tx, id uuid.UUID, input ExperienceInput) (hasErr bool) {
	if validateExperience(tx, &input) {
		return true
	}

	affected, hasErr := tx.ExecAffected("UPDATE experiences SET company = $2, position = $3, location = $4, start_date = $5, end_date = $6, description = $7, roles = $8 WHERE id = $1",
		id, input.Company, input.Position, input.Location, input.StartDate, nullTime(input.EndDate), input.Description, pq.Array(input.Roles))
	if hasErr {
		return true
	}

	if !affected {
		tx.PublicError(http.StatusNotFound, ExperienceNotFoundError)
		return true
	}

	return false
}

func DeleteExperience(tx *db.Tx, id uuid.UUID) (hasErr bool) {
	return deleteRow(tx, "experiences", id, ExperienceNotFoundError)
}
