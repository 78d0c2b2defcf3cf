package services

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	dto "task-service.com/task-service/internal/data_models"
	repository "task-service.com/task-service/internal/repositories"
)

const analyticsDays = 7

type StatsStore interface {
	CountAll(ctx context.Context) (int64, error)
	CountCompleted(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	OldestCreatedAt(ctx context.Context) (*time.Time, error)
	DailyCreated(ctx context.Context, since time.Time) ([]repository.DayCount, error)
	DailyCompleted(ctx context.Context, since time.Time) ([]repository.DayCount, error)
	Hourly(ctx context.Context) ([]repository.HourCount, error)
	AverageCompletionSeconds(ctx context.Context) (float64, error)
}

type StatsService struct {
	repo StatsStore
	now  func() time.Time
}

func NewStatsService(repo StatsStore) *StatsService {
	return &StatsService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// ComputeStats runs the aggregate queries concurrently and joins them.
func (s *StatsService) ComputeStats(ctx context.Context) (*dto.Stats, error) {
	var (
		total, completed, recent int64
		oldest                   *time.Time
	)
	since := s.now().Add(-24 * time.Hour)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		completed, err = s.repo.CountCompleted(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.repo.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		oldest, err = s.repo.OldestCreatedAt(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.Stats{
		Total:           total,
		Completed:       completed,
		Pending:         total - completed,
		CompletionRate:  CompletionRate(completed, total),
		Recent24h:       recent,
		OldestCreatedAt: oldest,
	}, nil
}

// CompletionRate is completed/total as a percentage rounded to one decimal,
// 0 for an empty table.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// ComputeAnalytics builds the 7-day created/completed histogram, the
// hour-of-day histogram and the mean time to completion.
func (s *StatsService) ComputeAnalytics(ctx context.Context) (*dto.Analytics, error) {
	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(analyticsDays - 1))

	var (
		created, done []repository.DayCount
		hourly        []repository.HourCount
		avg           float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		created, err = s.repo.DailyCreated(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		done, err = s.repo.DailyCompleted(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		hourly, err = s.repo.Hourly(gctx)
		return err
	})
	g.Go(func() (err error) {
		avg, err = s.repo.AverageCompletionSeconds(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.Analytics{
		Daily:                dailyHistogram(since, created, done),
		Hourly:               hourlyHistogram(hourly),
		AvgCompletionSeconds: math.Round(avg*10) / 10,
	}, nil
}

func dailyHistogram(since time.Time, created, done []repository.DayCount) []dto.DailyActivity {
	days := make([]dto.DailyActivity, analyticsDays)
	index := make(map[string]int, analyticsDays)
	for i := range days {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		days[i].Date = date
		index[date] = i
	}

	for _, c := range created {
		if i, ok := index[c.Day]; ok {
			days[i].Created += c.Count
		}
	}
	for _, c := range done {
		if i, ok := index[c.Day]; ok {
			days[i].Completed += c.Count
		}
	}
	return days
}

func hourlyHistogram(rows []repository.HourCount) []dto.HourlyActivity {
	hours := make([]dto.HourlyActivity, 24)
	for h := range hours {
		hours[h].Hour = h
	}
	for _, r := range rows {
		if r.Hour >= 0 && r.Hour < 24 {
			hours[r.Hour].Count += r.Count
		}
	}
	return hours
}
