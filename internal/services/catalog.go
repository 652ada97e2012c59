package services

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/btmxh/folio/internal/cache"
	"github.com/btmxh/folio/internal/clock"
	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/icons"
	"github.com/google/uuid"
)

const DefaultRolesCacheTTL = 10 * time.Minute

const rolesCacheKey = "roles"

var RoleNotFoundError = errors.New("Role not found.")
var ToolNotFoundError = errors.New("Tool not found.")
var emptyNameError = errors.New("Name must not be empty.")

type Role struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
}

type RoleInput struct {
	Name      string `json:"name" yaml:"name"`
	SortOrder int    `json:"sortOrder" yaml:"sortOrder"`
}

type Tool struct {
	Id      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	IconKey string     `json:"iconKey"`
	Icon    icons.Icon `json:"icon"`
}

type ToolInput struct {
	Name    string `json:"name" yaml:"name"`
	IconKey string `json:"iconKey" yaml:"iconKey"`
}

// Catalog serves the records that need more than a query: roles go through a
// TTL cache and tools carry their resolved icon.
type Catalog struct {
	roles *cache.Cache[[]Role]
	icons *icons.Registry
}

func NewCatalog(c clock.Clock, rolesTTL time.Duration, registry *icons.Registry) *Catalog {
	if rolesTTL <= 0 {
		rolesTTL = DefaultRolesCacheTTL
	}
	if registry == nil {
		registry = icons.Default()
	}

	return &Catalog{roles: cache.New[[]Role](c, rolesTTL), icons: registry}
}

func (c *Catalog) Icons() *icons.Registry {
	return c.icons
}

// InvalidateRoles drops the cached roles list.
func (c *Catalog) InvalidateRoles() {
	c.roles.Invalidate(rolesCacheKey)
}

func (c *Catalog) ListRoles(tx *db.Tx) (roles []Role, hasErr bool) {
	if roles, ok := c.roles.Get(rolesCacheKey); ok {
		return roles, false
	}

	var rows *sql.Rows
	if tx.Query(&rows, "SELECT id, name, sort_order FROM roles ORDER BY sort_order, name") {
		return nil, true
	}

	roles = []Role{}
	if tx.ScanRows(rows, func(rows *sql.Rows) error {
		var r Role
		err := rows.Scan(&r.Id, &r.Name, &r.SortOrder)
		roles = append(roles, r)
		return err
	}) {
		return nil, true
	}

	c.roles.Put(rolesCacheKey, roles)
	return roles, false
}

func (c *Catalog) GetRole(tx *db.Tx, id uuid.UUID) (role Role, hasErr bool) {
	var hasRow bool
	if tx.QueryRow("SELECT id, name, sort_order FROM roles WHERE id = $1", id).Scan(&hasRow, &role.Id, &role.Name, &role.SortOrder) {
		return role, true
	}

	if !hasRow {
		tx.PublicError(http.StatusNotFound, RoleNotFoundError)
		return role, true
	}

	return role, false
}

func validateName(tx *db.Tx, name *string) (hasErr bool) {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		tx.PublicError(http.StatusUnprocessableEntity, emptyNameError)
		return true
	}
	return false
}

func (c *Catalog) CreateRole(tx *db.Tx, input RoleInput) (role Role, hasErr bool) {
	if validateName(tx, &input.Name) {
		return role, true
	}

	role = Role{Id: uuid.New(), Name: input.Name, SortOrder: input.SortOrder}
	if tx.Exec(nil, "INSERT INTO roles (id, name, sort_order) VALUES ($1, $2, $3)", role.Id, role.Name, role.SortOrder) {
		return role, true
	}

	tx.OnCommit(c.InvalidateRoles)
	return role, false
}

func (c *Catalog) UpdateRole(tx *db.Tx, id uuid.UUID, input RoleInput) (hasErr bool) {
	if validateName(tx, &input.Name) {
		return true
	}

	affected, hasErr := tx.ExecAffected("UPDATE roles SET name = $2, sort_order = $3 WHERE id = $1", id, input.Name, input.SortOrder)
	if hasErr {
		return true
	}
	if !affected {
		tx.PublicError(http.StatusNotFound, RoleNotFoundError)
		return true
	}

	tx.OnCommit(c.InvalidateRoles)
	return false
}

func (c *Catalog) DeleteRole(tx *db.Tx, id uuid.UUID) (hasErr bool) {
	if deleteRow(tx, "roles", id, RoleNotFoundError) {
		return true
	}

	tx.OnCommit(c.InvalidateRoles)
	return false
}

func (c *Catalog) withIcon(t *Tool) {
	t.IconKey = icons.NormalizeKey(t.IconKey)
	if t.IconKey == "" {
		t.IconKey = icons.NormalizeKey(t.Name)
	}
	t.Icon = c.icons.Get(t.IconKey)
}

func (c *Catalog) ListTools(tx *db.Tx) (tools []Tool, hasErr bool) {
	var rows *sql.Rows
	if tx.Query(&rows, "SELECT id, name, icon_key FROM tools ORDER BY name") {
		return nil, true
	}

	tools = []Tool{}
	hasErr = tx.ScanRows(rows, func(rows *sql.Rows) error {
		var t Tool
		if err := rows.Scan(&t.Id, &t.Name, &t.IconKey); err != nil {
			return err
		}
		c.withIcon(&t)
		tools = append(tools, t)
		return nil
	})
	return tools, hasErr
}

func (c *Catalog) GetTool(tx *db.Tx, id uuid.UUID) (tool Tool, hasErr bool) {
	var hasRow bool
	if tx.QueryRow("SELECT id, name, icon_key FROM tools WHERE id = $1", id).Scan(&hasRow, &tool.Id, &tool.Name, &tool.IconKey) {
		return tool, true
	}

	if !hasRow {
		tx.PublicError(http.StatusNotFound, ToolNotFoundError)
		return tool, true
	}

	c.withIcon(&tool)
	return tool, false
}

func (c *Catalog) CreateTool(tx *db.Tx, input ToolInput) (tool Tool, hasErr bool) {
	if validateName(tx, &input.Name) {
		return tool, true
	}

	tool = Tool{Id: uuid.New(), Name: input.Name, IconKey: input.IconKey}
	c.withIcon(&tool)
	if tx.Exec(nil, "INSERT INTO tools (id, name, icon_key) VALUES ($1, $2, $3)", tool.Id, tool.Name, tool.IconKey) {
		return tool, true
	}

	return tool, false
}

func (c *Catalog) UpdateTool(tx *db.Tx, id uuid.UUID, input ToolInput) (hasErr bool) {
	if validateName(tx, &input.Name) {
		return true
	}

	tool := Tool{Name: input.Name, IconKey: input.IconKey}
	c.withIcon(&tool)
	affected, hasErr := tx.ExecAffected("UPDATE tools SET name = $2, icon_key = $3 WHERE id = $1", id, tool.Name, tool.IconKey)
	if hasErr {
		return true
	}
	if !affected {
		tx.PublicError(http.StatusNotFound, ToolNotFoundError)
		return true
	}

	return false
}

func (c *Catalog) DeleteTool(tx *db.Tx, id uuid.UUID) (hasErr bool) {
	return deleteRow(tx, "tools", id, ToolNotFoundError)
}
