package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "task-service.com/task-service/internal/errors"
	model "task-service.com/task-service/internal/models"
	"task-service.com/task-service/internal/querybuilder"
	"task-service.com/task-service/internal/testutil"
)

func setupRepo(t *testing.T, profileName string) (*TaskRepository, *gorm.DB, model.Profile) {
	t.Helper()
	profile := testutil.MustProfile(t, profileName)
	db := testutil.NewDB(t, profile)
	pool := testutil.NewPool(t, db)
	return NewTaskRepository(pool, testutil.NewBuilder(profile)), db, profile
}

func TestTaskRepository_CreateUpdateDelete(t *testing.T) {
	for _, name := range []string{model.ProfileAPIService, model.ProfileBackend} {
		t.Run(name, func(t *testing.T) {
			repo, _, profile := setupRepo(t, name)
			ctx := context.Background()
			desc := "two litres"

			created, err := repo.CreateTask(ctx, "buy milk", &desc)
			if err != nil {
				t.Fatalf("CreateTask: %v", err)
			}
			if created.ID <= 0 || created.Title != "buy milk" || created.Completed {
				t.Fatalf("unexpected created record: %+v", created)
			}
			if created.CreatedAt.IsZero() {
				t.Error("created_at must be set")
			}
			if profile.HasDescription {
				if created.Description == nil || *created.Description != desc {
					t.Errorf("description not stored: %+v", created.Description)
				}
				if created.UpdatedAt == nil {
					t.Error("updated_at must be set for tasks")
				}
			} else if created.Description != nil || created.UpdatedAt != nil {
				t.Errorf("todos must not carry description/updated_at: %+v", created)
			}

			second, err := repo.CreateTask(ctx, "walk dog", nil)
			if err != nil {
				t.Fatalf("CreateTask: %v", err)
			}
			if second.ID == created.ID {
				t.Error("ids must be unique")
			}

			repo.now = func() time.Time { return created.CreatedAt.Add(time.Hour) }
			updated, err := repo.UpdateCompleted(ctx, created.ID, true)
			if err != nil {
				t.Fatalf("UpdateCompleted: %v", err)
			}
			if !updated.Completed || updated.ID != created.ID {
				t.Errorf("unexpected updated record: %+v", updated)
			}
			if !updated.CreatedAt.Equal(created.CreatedAt) {
				t.Errorf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
			}
			if profile.HasUpdatedAt && (updated.UpdatedAt == nil || !updated.UpdatedAt.After(created.CreatedAt)) {
				t.Errorf("updated_at not refreshed: %v", updated.UpdatedAt)
			}

			deleted, err := repo.Delete(ctx, created.ID)
			if err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if deleted.ID != created.ID || deleted.Title != "buy milk" || !deleted.Completed {
				t.Errorf("delete must return the removed record, got %+v", deleted)
			}

			total, err := repo.CountAll(ctx)
			if err != nil || total != 1 {
				t.Errorf("expected 1 remaining record, got %d (%v)", total, err)
			}
		})
	}
}

func TestTaskRepository_MissingIDs(t *testing.T) {
	repo, _, _ := setupRepo(t, model.ProfileAPIService)
	ctx := context.Background()

	if _, err := repo.CreateTask(ctx, "keep me", nil); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.UpdateCompleted(ctx, 9999, true); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("update: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := repo.Delete(ctx, 9999); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("delete: expected ErrTaskNotFound, got %v", err)
	}

	if n, _ := repo.CountAll(ctx); n != 1 {
		t.Errorf("row count changed to %d", n)
	}
}

func TestTaskRepository_ListAndCountAgree(t *testing.T) {
	repo, db, profile := setupRepo(t, model.ProfileAPIService)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		title := fmt.Sprintf("Chore %02d", i)
		if i%3 == 0 {
			title = fmt.Sprintf("Buy MILK %02d", i)
		}
		testutil.InsertTask(t, db, profile, title, i%2 == 0, base.Add(time.Duration(i)*time.Hour), nil)
	}

	yes := true
	tests := []struct {
		name      string
		filters   querybuilder.ListFilters
		wantTotal int64
		wantItems int
	}{
		{"all", querybuilder.ListFilters{Limit: 5}, 12, 5},
		{"second page", querybuilder.ListFilters{Limit: 5, Offset: 10}, 12, 2},
		{"completed", querybuilder.ListFilters{Completed: &yes, Limit: 100}, 6, 6},
		{"case-insensitive search", querybuilder.ListFilters{Search: "milk", Limit: 100}, 4, 4},
		{"search and completed", querybuilder.ListFilters{Search: "milk", Completed: &yes, Limit: 100}, 2, 2},
		{"no match", querybuilder.ListFilters{Search: "zzz", Limit: 10}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			total, err := repo.Count(ctx, tt.filters)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if total != tt.wantTotal || len(items) != tt.wantItems {
				t.Errorf("got %d items / total %d, want %d / %d", len(items), total, tt.wantItems, tt.wantTotal)
			}
			if int64(len(items)) > total || len(items) > tt.filters.Limit {
				t.Errorf("page larger than total or limit: %d items, total %d", len(items), total)
			}
			for _, it := range items {
				if tt.filters.Completed != nil && it.Completed != *tt.filters.Completed {
					t.Errorf("item %d violates completed filter", it.ID)
				}
			}
		})
	}

	items, err := repo.List(ctx, querybuilder.ListFilters{Sort: "created_at", Order: "ASC", Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Title != "Buy MILK 00" || !items[0].CreatedAt.Before(items[1].CreatedAt) {
		t.Errorf("expected ascending created_at order, got %+v", items)
	}

	items, err = repo.List(ctx, querybuilder.ListFilters{Sort: "bogus", Order: "bogus", Limit: 2})
	if err != nil {
		t.Fatalf("invalid sort must not fail: %v", err)
	}
	if len(items) != 2 || items[0].ID < items[1].ID {
		t.Errorf("expected default id DESC order, got %+v", items)
	}
}

func TestTaskRepository_Aggregates(t *testing.T) {
	repo, db, profile := setupRepo(t, model.ProfileBackend)
	ctx := context.Background()

	oldest, err := repo.OldestCreatedAt(ctx)
	if err != nil || oldest != nil {
		t.Fatalf("empty table: expected nil oldest, got %v (%v)", oldest, err)
	}
	if avg, err := repo.AverageCompletionSeconds(ctx); err != nil || avg != 0 {
		t.Fatalf("empty table: expected 0 average, got %v (%v)", avg, err)
	}

	day := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	done := day.Add(2 * time.Hour)
	testutil.InsertTask(t, db, profile, "a", true, day, &done)
	testutil.InsertTask(t, db, profile, "b", false, day.Add(24*time.Hour), nil)
	testutil.InsertTask(t, db, profile, "c", false, day.AddDate(0, 0, -30), nil)

	if n, _ := repo.CountCompleted(ctx); n != 1 {
		t.Errorf("completed: got %d", n)
	}
	if n, _ := repo.CountCreatedSince(ctx, day); n != 1 {
		t.Errorf("created after %v: got %d", day, n)
	}

	oldest, err = repo.OldestCreatedAt(ctx)
	if err != nil || oldest == nil || !oldest.Equal(day.AddDate(0, 0, -30)) {
		t.Errorf("oldest: got %v (%v)", oldest, err)
	}

	avg, err := repo.AverageCompletionSeconds(ctx)
	if err != nil || avg < 7199 || avg > 7201 {
		t.Errorf("average completion: got %v (%v)", avg, err)
	}

	created, err := repo.DailyCreated(ctx, day.Truncate(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 || created[0].Day != "2026-10-15" || created[1].Day != "2026-10-16" {
		t.Errorf("daily created: %+v", created)
	}

	completed, err := repo.DailyCompleted(ctx, day.Truncate(24*time.Hour))
	if err != nil || len(completed) != 1 || completed[0].Day != "2026-10-15" || completed[0].Count != 1 {
		t.Errorf("daily completed: %+v (%v)", completed, err)
	}

	hourly, err := repo.Hourly(ctx)
	if err != nil || len(hourly) != 1 || hourly[0].Hour != 9 || hourly[0].Count != 3 {
		t.Errorf("hourly: %+v (%v)", hourly, err)
	}
}

func TestTaskRepository_ServerInfoAndRawQuery(t *testing.T) {
	repo, _, _ := setupRepo(t, model.ProfileAPIService)
	ctx := context.Background()

	serverTime, version, err := repo.ServerInfo(ctx)
	if err != nil || serverTime == "" || version == "" {
		t.Fatalf("ServerInfo: %q %q %v", serverTime, version, err)
	}

	if _, err := repo.CreateTask(ctx, "x", nil); err != nil {
		t.Fatal(err)
	}
	rows, err := repo.RawQuery(ctx, "SELECT title, completed FROM todos")
	if err != nil {
		t.Fatalf("RawQuery: %v", err)
	}
	if len(rows) != 1 || rows[0]["title"] != "x" {
		t.Errorf("unexpected rows: %#v", rows)
	}

	_, err = repo.RawQuery(ctx, "SELECT * FROM missing_table")
	if apperrors.StatusCode(err) != 500 {
		t.Errorf("expected database error, got %v", err)
	}
}
