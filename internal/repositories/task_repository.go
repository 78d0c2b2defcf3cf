package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"task-service.com/task-service/internal/database"
	apperrors "task-service.com/task-service/internal/errors"
	model "task-service.com/task-service/internal/models"
	"task-service.com/task-service/internal/querybuilder"
)

// TaskRepository executes builder output against the profile's table. Every
// statement runs on its own pooled connection and commits on its own; list
// and count are not read in one transaction.
type TaskRepository struct {
	pool *database.Pool
	qb   *querybuilder.Builder
	now  func() time.Time
}

func NewTaskRepository(pool *database.Pool, qb *querybuilder.Builder) *TaskRepository {
	return &TaskRepository{
		pool: pool,
		qb:   qb,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *TaskRepository) List(ctx context.Context, f querybuilder.ListFilters) ([]model.Task, error) {
	query, args := r.qb.BuildList(f)

	tasks := make([]model.Task, 0)
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query, args...).Scan(&tasks).Error
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return tasks, nil
}

func (r *TaskRepository) Count(ctx context.Context, f querybuilder.ListFilters) (int64, error) {
	query, args := r.qb.BuildCount(f)
	return r.scalarCount(ctx, query, args...)
}

func (r *TaskRepository) CreateTask(ctx context.Context, title string, description *string) (*model.Task, error) {
	query, args := r.qb.BuildInsert(title, description, r.now())

	var task model.Task
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query, args...).Scan(&task).Error
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return &task, nil
}

// UpdateCompleted sets the completed flag and returns the updated record, or
// ErrTaskNotFound when no row has that id.
func (r *TaskRepository) UpdateCompleted(ctx context.Context, id int64, completed bool) (*model.Task, error) {
	query, args := r.qb.BuildUpdateCompleted(id, completed, r.now())
	return r.returningOne(ctx, query, args)
}

// Delete removes the record and returns it as it was.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (*model.Task, error) {
	query, args := r.qb.BuildDelete(id)
	return r.returningOne(ctx, query, args)
}

func (r *TaskRepository) returningOne(ctx context.Context, query string, args []interface{}) (*model.Task, error) {
	var task model.Task
	var found bool
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		res := tx.Raw(query, args...).Scan(&task)
		found = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if !found {
		return nil, apperrors.ErrTaskNotFound
	}
	return &task, nil
}

func (r *TaskRepository) CountAll(ctx context.Context) (int64, error) {
	return r.scalarCount(ctx, r.qb.BuildTotalCount())
}

func (r *TaskRepository) CountCompleted(ctx context.Context) (int64, error) {
	query, args := r.qb.BuildCompletedCount()
	return r.scalarCount(ctx, query, args...)
}

func (r *TaskRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	query, args := r.qb.BuildCreatedSinceCount(since)
	return r.scalarCount(ctx, query, args...)
}

// OldestCreatedAt returns nil when the table is empty.
func (r *TaskRepository) OldestCreatedAt(ctx context.Context) (*time.Time, error) {
	var ts time.Time
	var found bool
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		res := tx.Raw(r.qb.BuildOldestCreatedAt()).Scan(&ts)
		found = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if !found {
		return nil, nil
	}
	ts = ts.UTC()
	return &ts, nil
}

type DayCount struct {
	Day   string
	Count int64
}

type HourCount struct {
	Hour  int
	Count int64
}

func (r *TaskRepository) DailyCreated(ctx context.Context, since time.Time) ([]DayCount, error) {
	query, args := r.qb.BuildDailyCreated(since)
	return r.dayCounts(ctx, query, args)
}

func (r *TaskRepository) DailyCompleted(ctx context.Context, since time.Time) ([]DayCount, error) {
	query, args := r.qb.BuildDailyCompleted(since)
	return r.dayCounts(ctx, query, args)
}

func (r *TaskRepository) dayCounts(ctx context.Context, query string, args []interface{}) ([]DayCount, error) {
	var rows []DayCount
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query, args...).Scan(&rows).Error
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return rows, nil
}

func (r *TaskRepository) Hourly(ctx context.Context) ([]HourCount, error) {
	var rows []HourCount
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(r.qb.BuildHourly()).Scan(&rows).Error
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return rows, nil
}

// AverageCompletionSeconds is 0 when nothing is completed or the table does
// not track updated_at.
func (r *TaskRepository) AverageCompletionSeconds(ctx context.Context) (float64, error) {
	query, args, ok := r.qb.BuildAverageCompletion()
	if !ok {
		return 0, nil
	}

	var avg sql.NullFloat64
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query, args...).Row().Scan(&avg)
	})
	if err != nil {
		return 0, apperrors.Database(err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// ServerInfo runs the dialect's health query.
func (r *TaskRepository) ServerInfo(ctx context.Context) (serverTime, version string, err error) {
	err = r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(r.qb.Dialect().HealthQuery()).Row().Scan(&serverTime, &version)
	})
	return serverTime, version, err
}

// RawQuery runs query verbatim and returns its rows as column maps. Callers
// are responsible for deciding whether query may run at all.
func (r *TaskRepository) RawQuery(ctx context.Context, query string) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0)
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query).Scan(&rows).Error
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
	}
	return rows, nil
}

func (r *TaskRepository) scalarCount(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	err := r.pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query, args...).Row().Scan(&n)
	})
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return n, nil
}
