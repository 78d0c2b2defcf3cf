package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"task-service.com/task-service/internal/admission"
	dto "task-service.com/task-service/internal/data_models"
	"task-service.com/task-service/internal/database"
	apperrors "task-service.com/task-service/internal/errors"
	"task-service.com/task-service/internal/logging"
	"task-service.com/task-service/internal/metrics"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

type DiagnosticsStore interface {
	ServerInfo(ctx context.Context) (serverTime, version string, err error)
	RawQuery(ctx context.Context, query string) ([]map[string]interface{}, error)
}

type PoolReporter interface {
	Stats() database.PoolStats
}

type ServiceInfo struct {
	Name        string
	Profile     string
	Version     string
	Environment string
}

type DiagnosticsService struct {
	repo            DiagnosticsStore
	pool            PoolReporter
	tokens          admission.TokenManager
	info            ServiceInfo
	rawQueryAllowed bool
	startedAt       time.Time
	now             func() time.Time
}

func NewDiagnosticsService(
	repo DiagnosticsStore,
	pool PoolReporter,
	tokens admission.TokenManager,
	info ServiceInfo,
	rawQueryAllowed bool,
) *DiagnosticsService {
	return &DiagnosticsService{
		repo:            repo,
		pool:            pool,
		tokens:          tokens,
		info:            info,
		rawQueryAllowed: rawQueryAllowed,
		startedAt:       time.Now(),
		now:             time.Now,
	}
}

// Health never fails; a database error is reported in the result.
func (s *DiagnosticsService) Health(ctx context.Context) dto.HealthReport {
	report := dto.HealthReport{
		Status:  StatusOK,
		Service: s.info.Name,
	}

	serverTime, version, err := s.repo.ServerInfo(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("health check failed")
		report.Status = StatusError
		report.Database = dto.DatabaseHealth{Connected: false, Error: err.Error()}
	} else {
		report.Database = dto.DatabaseHealth{Connected: true, Time: serverTime, Version: version}
	}

	report.Pool = s.pool.Stats()
	return report
}

func (s *DiagnosticsService) PoolStats() database.PoolStats {
	return s.pool.Stats()
}

func (s *DiagnosticsService) Info() dto.Info {
	now := s.now()
	return dto.Info{
		Service:       s.info.Name,
		Profile:       s.info.Profile,
		Version:       s.info.Version,
		Environment:   s.info.Environment,
		UptimeSeconds: int64(now.Sub(s.startedAt) / time.Second),
		Timestamp:     now.UTC().Format(time.RFC3339),
	}
}

// RawQuery executes a caller-supplied statement. It only runs when the
// feature is enabled outside production and the statement starts with SELECT.
func (s *DiagnosticsService) RawQuery(ctx context.Context, query string) (*dto.RawQueryResponse, error) {
	if !s.rawQueryAllowed {
		metrics.RawQueries.WithLabelValues("disabled").Inc()
		return nil, apperrors.ErrRawQueryDisabled
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, apperrors.ErrRawQueryRequired
	}
	if !IsSelect(trimmed) {
		metrics.RawQueries.WithLabelValues("forbidden").Inc()
		logging.Ctx(ctx).Warn().Str("query", trimmed).Msg("rejected non-SELECT diagnostic query")
		return nil, apperrors.ErrRawQueryForbidden
	}
	if !IsSingleStatement(trimmed) {
		metrics.RawQueries.WithLabelValues("forbidden").Inc()
		logging.Ctx(ctx).Warn().Str("query", trimmed).Msg("rejected multi-statement diagnostic query")
		return nil, apperrors.ErrRawQueryMultiStatement
	}

	if err := s.tokens.AcquireToken(ctx); err != nil {
		if errors.Is(err, admission.ErrNoTokenAvailable) {
			metrics.RawQueries.WithLabelValues("throttled").Inc()
			return nil, apperrors.ErrNoTokenAvailable
		}
		return nil, err
	}
	defer func() {
		if err := s.tokens.ReleaseToken(context.WithoutCancel(ctx)); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("failed to release diagnostic query token")
		}
	}()

	rows, err := s.repo.RawQuery(ctx, trimmed)
	if err != nil {
		metrics.RawQueries.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RawQueries.WithLabelValues("ok").Inc()

	return &dto.RawQueryResponse{Rows: rows, Count: len(rows)}, nil
}

// IsSingleStatement reports whether query has no semicolon except trailing
// ones. A semicolon inside a string literal also counts.
func IsSingleStatement(query string) bool {
	q := strings.TrimRight(strings.TrimSpace(query), "; \t\r\n")
	return !strings.Contains(q, ";")
}

// IsSelect reports whether the trimmed, case-folded query begins with SELECT.
func IsSelect(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(q, "SELECT")
}
