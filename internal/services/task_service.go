package services

import (
	"context"
	"strings"

	dto "task-service.com/task-service/internal/data_models"
	apperrors "task-service.com/task-service/internal/errors"
	model "task-service.com/task-service/internal/models"
	"task-service.com/task-service/internal/querybuilder"
)

type TaskStore interface {
	List(ctx context.Context, f querybuilder.ListFilters) ([]model.Task, error)
	Count(ctx context.Context, f querybuilder.ListFilters) (int64, error)
	CreateTask(ctx context.Context, title string, description *string) (*model.Task, error)
	UpdateCompleted(ctx context.Context, id int64, completed bool) (*model.Task, error)
	Delete(ctx context.Context, id int64) (*model.Task, error)
}

type TaskService struct {
	repo TaskStore
}

func NewTaskService(repo TaskStore) *TaskService {
	return &TaskService{repo: repo}
}

// ListTasks returns one page and the pagination totals. The page and the count
// are separate statements, so a concurrent writer can make them disagree.
func (s *TaskService) ListTasks(ctx context.Context, f querybuilder.ListFilters) (*dto.ListTasksResponse, error) {
	if f.Limit <= 0 {
		return nil, apperrors.ErrInvalidLimit
	}
	if f.Offset < 0 {
		return nil, apperrors.ErrInvalidOffset
	}

	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	return &dto.ListTasksResponse{
		Items: items,
		Pagination: dto.Pagination{
			Total:  total,
			Limit:  f.Limit,
			Offset: f.Offset,
			Pages:  Pages(total, f.Limit),
		},
	}, nil
}

// Pages is ceil(total/limit).
func Pages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	pages := total / l
	if total%l != 0 {
		pages++
	}
	return pages
}

func (s *TaskService) CreateTask(ctx context.Context, title string, description *string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.ErrTitleRequired
	}
	return s.repo.CreateTask(ctx, title, description)
}

func (s *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) (*model.Task, error) {
	if id <= 0 {
		return nil, apperrors.ErrInvalidID
	}
	return s.repo.UpdateCompleted(ctx, id, completed)
}

// DeleteTask returns the record that was removed.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) (*model.Task, error) {
	if id <= 0 {
		return nil, apperrors.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}
