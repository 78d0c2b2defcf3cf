// Package querybuilder turns validated request parameters into parameterized
// SQL for one profile's table.
//
// Values are always bound as "?" placeholders, which gorm rewrites for the
// active dialect. Sort column and order are SQL syntax, not values, so they
// are checked against an allow-list and replaced by the defaults when they
// do not match.
package querybuilder

import (
	"strings"
	"time"

	model "task-service.com/task-service/internal/models"
)

const (
	DefaultSort  = "id"
	DefaultOrder = "DESC"

	DefaultLimit  = 10
	DefaultOffset = 0
)

// ListFilters are the request-scoped list parameters. A nil Completed means
// no completion filter.
type ListFilters struct {
	Completed *bool
	Search    string
	Sort      string
	Order     string
	Limit     int
	Offset    int
}

// FallbackHook is told about every sort or order value that was rejected.
type FallbackHook func(param, value string)

type Option func(*Builder)

func WithFallbackHook(hook FallbackHook) Option {
	return func(b *Builder) {
		b.onFallback = hook
	}
}

// Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	profile    model.Profile
	dialect    Dialect
	columns    string
	onFallback FallbackHook
}

func New(profile model.Profile, dialect Dialect, opts ...Option) *Builder {
	b := &Builder{
		profile: profile,
		dialect: dialect,
		columns: strings.Join(profile.Columns(), ", "),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Dialect() Dialect { return b.dialect }

// SortColumn returns sort if it is allow-listed, DefaultSort otherwise.
func (b *Builder) SortColumn(sort string) string {
	s := strings.ToLower(strings.TrimSpace(sort))
	if b.profile.HasColumn(s) {
		return s
	}
	if sort != "" {
		b.fallback("sort", sort)
	}
	return DefaultSort
}

// SortOrder returns ASC or DESC; any other value becomes DefaultOrder.
func (b *Builder) SortOrder(order string) string {
	o := strings.ToUpper(strings.TrimSpace(order))
	if o == "ASC" || o == "DESC" {
		return o
	}
	if order != "" {
		b.fallback("order", order)
	}
	return DefaultOrder
}

func (b *Builder) fallback(param, value string) {
	if b.onFallback != nil {
		b.onFallback(param, value)
	}
}

// where renders the filter predicates shared by BuildList and BuildCount.
func (b *Builder) where(f ListFilters) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, 2)

	sb.WriteString(" WHERE 1=1")
	if f.Completed != nil {
		sb.WriteString(" AND completed = ?")
		args = append(args, *f.Completed)
	}
	if f.Search != "" {
		sb.WriteString(" AND LOWER(title) LIKE LOWER(?)")
		args = append(args, "%"+f.Search+"%")
	}
	return sb.String(), args
}

func (b *Builder) BuildList(f ListFilters) (string, []interface{}) {
	where, args := b.where(f)

	sql := "SELECT " + b.columns + " FROM " + b.profile.Table + where +
		" ORDER BY " + b.SortColumn(f.Sort) + " " + b.SortOrder(f.Order) +
		" LIMIT ? OFFSET ?"
	return sql, append(args, f.Limit, f.Offset)
}

func (b *Builder) BuildCount(f ListFilters) (string, []interface{}) {
	where, args := b.where(f)
	return "SELECT COUNT(*) FROM " + b.profile.Table + where, args
}

// BuildInsert inserts a new incomplete record stamped with now. description is
// ignored by profiles without that column.
func (b *Builder) BuildInsert(title string, description *string, now time.Time) (string, []interface{}) {
	cols := []string{"title"}
	args := []interface{}{title}
	if b.profile.HasDescription {
		cols = append(cols, "description")
		args = append(args, description)
	}
	cols = append(cols, "completed", "created_at")
	args = append(args, false, now)
	if b.profile.HasUpdatedAt {
		cols = append(cols, "updated_at")
		args = append(args, now)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	sql := "INSERT INTO " + b.profile.Table + " (" + strings.Join(cols, ", ") + ")" +
		" VALUES (" + placeholders + ") RETURNING " + b.columns
	return sql, args
}

func (b *Builder) BuildUpdateCompleted(id int64, completed bool, now time.Time) (string, []interface{}) {
	set := "completed = ?"
	args := []interface{}{completed}
	if b.profile.HasUpdatedAt {
		set += ", updated_at = ?"
		args = append(args, now)
	}

	sql := "UPDATE " + b.profile.Table + " SET " + set + " WHERE id = ? RETURNING " + b.columns
	return sql, append(args, id)
}

func (b *Builder) BuildDelete(id int64) (string, []interface{}) {
	return "DELETE FROM " + b.profile.Table + " WHERE id = ? RETURNING " + b.columns, []interface{}{id}
}
