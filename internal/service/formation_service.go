package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edutrack/edutrack-api/internal/models"
	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
)

const formationCachePattern = "formations:*"

type formationRepository interface {
	List(ctx context.Context, status string) ([]models.Formation, error)
	FindByID(ctx context.Context, id int64) (*models.Formation, error)
	Create(ctx context.Context, formation *models.Formation) error
	Update(ctx context.Context, formation *models.Formation) error
	Delete(ctx context.Context, id int64) error
}

// ListCache is the caching surface the formation service depends on.
type ListCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// FormationService manages course cohorts with an optional list cache.
type FormationService struct {
	repo      formationRepository
	cache     ListCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFormationService constructs a FormationService. A nil cache disables
// caching.
func NewFormationService(repo formationRepository, cache ListCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *FormationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FormationService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns formations, optionally filtered by status. List payloads are
// cached per status key and invalidated on any write.
func (s *FormationService) List(ctx context.Context, status string) ([]models.Formation, error) {
	if status != "" && !models.ValidFormationStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, invalidStatusMessage(status))
	}

	cacheKey := fmt.Sprintf("formations:list:%s", status)
	if s.cache != nil {
		var cached []models.Formation
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("formation list cache read failed", zap.Error(err))
		}
	}

	formations, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list formations")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, formations, s.cacheTTL); err != nil {
			s.logger.Warn("formation list cache write failed", zap.Error(err))
		}
	}

	return formations, nil
}

// Get returns one formation by id.
func (s *FormationService) Get(ctx context.Context, id int64) (*models.Formation, error) {
	formation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "formation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load formation")
	}
	return formation, nil
}

// Create stores a new formation after enum validation.
func (s *FormationService) Create(ctx context.Context, req models.FormationRequest) (*models.Formation, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	formation := &models.Formation{
		FormationName: req.FormationName,
		FromDate:      req.FromDate,
		EndDate:       req.EndDate,
		Level:         req.Level,
		Status:        req.Status,
	}
	if err := s.repo.Create(ctx, formation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create formation")
	}

	s.invalidateListCache(ctx)
	return formation, nil
}

// Update replaces the mutable fields of an existing formation.
func (s *FormationService) Update(ctx context.Context, id int64, req models.FormationRequest) (*models.Formation, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	formation := &models.Formation{
		ID:            id,
		FormationName: req.FormationName,
		FromDate:      req.FromDate,
		EndDate:       req.EndDate,
		Level:         req.Level,
		Status:        req.Status,
	}
	if err := s.repo.Update(ctx, formation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "formation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update formation")
	}

	s.invalidateListCache(ctx)
	return formation, nil
}

// Delete removes a formation by id.
func (s *FormationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "formation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete formation")
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *FormationService) validateRequest(req models.FormationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing required formation fields")
	}
	if !models.ValidFormationLevel(req.Level) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("invalid level %q, must be one of %s", req.Level, strings.Join(models.FormationLevels, ", ")))
	}
	if !models.ValidFormationStatus(req.Status) {
		return appErrors.Clone(appErrors.ErrValidation, invalidStatusMessage(req.Status))
	}
	return nil
}

func (s *FormationService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, formationCachePattern); err != nil {
		s.logger.Warn("formation cache invalidation failed", zap.Error(err))
	}
}

func invalidStatusMessage(status string) string {
	return fmt.Sprintf("invalid status %q, must be one of %s", status, strings.Join(models.FormationStatuses, ", "))
}
