package services

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/media"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

var ProjectNotFoundError = errors.New("Project not found.")
var emptyTitleError = errors.New("Title must not be empty.")

type Project struct {
	Id          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	VideoURL    string          `json:"videoUrl"`
	Kind        media.MediaKind `json:"kind"`
	EmbedURL    string          `json:"embedUrl"`
	Thumbnail   string          `json:"thumbnail"`
	Tools       []string        `json:"tools"`
	Featured    bool            `json:"featured"`
	SortOrder   int             `json:"sortOrder"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ProjectInput struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	VideoURL     string   `json:"videoUrl" yaml:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl" yaml:"thumbnailUrl"`
	Tools        []string `json:"tools" yaml:"tools"`
	Featured     bool     `json:"featured" yaml:"featured"`
	SortOrder    int      `json:"sortOrder" yaml:"sortOrder"`
}

const projectColumns = "id, title, description, category, video_url, thumbnail_url, tools, featured, sort_order, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

// withMedia fills the fields derived from the video reference. A custom
// thumbnail wins over the derived one.
func (p *Project) withMedia(thumbnailURL sql.NullString) {
	p.Kind = media.Classify(p.VideoURL)
	embedURL, err := media.NormalizeVideoURL(p.VideoURL)
	if err != nil {
		slog.Warn("Stored project has a malformed video URL", "id", p.Id, "url", p.VideoURL, "err", err)
		embedURL = ""
	}
	p.EmbedURL = embedURL

	if thumbnailURL.Valid && thumbnailURL.String != "" {
		p.Thumbnail = thumbnailURL.String
	} else {
		p.Thumbnail = media.Thumbnail(p.VideoURL)
	}

	if p.Tools == nil {
		p.Tools = []string{}
	}
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var thumbnailURL sql.NullString
	err := row.Scan(&p.Id, &p.Title, &p.Description, &p.Category, &p.VideoURL, &thumbnailURL,
		pq.Array(&p.Tools), &p.Featured, &p.SortOrder, &p.CreatedAt)
	if err != nil {
		return p, err
	}

	p.withMedia(thumbnailURL)
	return p, nil
}

// cleanList trims the labels, then drops blanks and repeats.
func cleanList(items []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	})))
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func validateProject(tx *db.Tx, input *ProjectInput) (hasErr bool) {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	if input.Title == "" {
		tx.PublicError(http.StatusUnprocessableEntity, emptyTitleError)
		return true
	}

	if input.VideoURL != "" {
		if _, err := media.NormalizeVideoURL(input.VideoURL); err != nil {
			tx.PublicError(http.StatusUnprocessableEntity, err)
			return true
		}
	}

	input.Tools = cleanList(input.Tools)
	return false
}

func ListProjects(tx *db.Tx, category string, offset, limit int) (page Pagination[Project], hasErr bool) {
	var rows *sql.Rows
	if tx.Query(&rows, "SELECT "+projectColumns+" FROM projects WHERE ($1 = '' OR category = $1) ORDER BY featured DESC, sort_order, created_at DESC LIMIT $2 OFFSET $3",
		category, limit+1, offset) {
		return page, true
	}

	var projects []Project
	if tx.ScanRows(rows, func(rows *sql.Rows) error {
		p, err := scanProject(rows)
		projects = append(projects, p)
		return err
	}) {
		return page, true
	}

	return NewPagination(offset, limit, projects), false
}

func GetProject(tx *db.Tx, id uuid.UUID) (project Project, hasErr bool) {
	row := tx.QueryRow("SELECT "+projectColumns+" FROM projects WHERE id = $1", id)

	var hasRow bool
	var thumbnailURL sql.NullString
	if row.Scan(&hasRow, &project.Id, &project.Title, &project.Description, &project.Category, &project.VideoURL,
		&thumbnailURL, pq.Array(&project.Tools), &project.Featured, &project.SortOrder, &project.CreatedAt) {
		return project, true
	}

	if !hasRow {
		tx.PublicError(http.StatusNotFound, ProjectNotFoundError)
		return project, true
	}

	project.withMedia(thumbnailURL)
	return project, false
}

func CreateProject(tx *db.Tx, input ProjectInput) (project Project, hasErr bool) {
	if validateProject(tx, &input) {
		return project, true
	}

	id := uuid.New()
	var createdAt time.Time
	if tx.QueryRow("INSERT INTO projects (id, title, description, category, video_url, thumbnail_url, tools, featured, sort_order) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at",
		id, input.Title, input.Description, input.Category, input.VideoURL, nullIfEmpty(input.ThumbnailURL),
		pq.Array(input.Tools), input.Featured, input.SortOrder).Scan(nil, &createdAt) {
		return project, true
	}

	project = Project{
		Id:          id,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		VideoURL:    input.VideoURL,
		Tools:       input.Tools,
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
		CreatedAt:   createdAt,
	}
	project.withMedia(nullIfEmpty(input.ThumbnailURL))

	slog.Info("Project created", "id", id, "title", input.Title)
	return project, false
}

func UpdateProject(tx *db.Tx, id uuid.UUID, input ProjectInput) (hasErr bool) {
	if validateProject(tx, &input) {
		return true
	}

	affected, hasErr := tx.ExecAffected("UPDATE projects SET title = $2, description = $3, category = $4, video_url = $5, thumbnail_url = $6, tools = $7, featured = $8, sort_order = $9 WHERE id = $1",
		id, input.Title, input.Description, input.Category, input.VideoURL, nullIfEmpty(input.ThumbnailURL),
		pq.Array(input.Tools), input.Featured, input.SortOrder)
	if hasErr {
		return true
	}

	if !affected {
		tx.PublicError(http.StatusNotFound, ProjectNotFoundError)
		return true
	}

	return false
}

func DeleteProject(tx *db.Tx, id uuid.UUID) (hasErr bool) {
	return deleteRow(tx, "projects", id, ProjectNotFoundError)
}

// deleteRow removes the row with the given id from table, a trusted constant.
func deleteRow(tx *db.Tx, table string, id uuid.UUID, notFoundErr error) (hasErr bool) {
	affected, hasErr := tx.ExecAffected("DELETE FROM "+table+" WHERE id = $1", id)
	if hasErr {
		return true
	}

	if !affected {
		tx.PublicError(http.StatusNotFound, notFoundErr)
		return true
	}

	return false
}
