package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/cache"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/repository"
	"github.com/spec-kit/lead-service/internal/validator"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

const (
	// MaxLeadLimit caps a single listing.
	MaxLeadLimit = 100

	requiredFieldsMessage = "name and phone are required"
)

// LeadInput is a raw submission from the website form.
type LeadInput struct {
	Name         string `json:"name" validate:"required"`
	Company      string `json:"company"`
	Phone        string `json:"phone" validate:"required"`
	Email        string `json:"email"`
	Volume       string `json:"volume"`
	UsagePurpose string `json:"usage"`
	Comment      string `json:"comment"`
}

func (in LeadInput) normalized() LeadInput {
	return LeadInput{
		Name:         strings.TrimSpace(in.Name),
		Company:      strings.TrimSpace(in.Company),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Volume:       strings.TrimSpace(in.Volume),
		UsagePurpose: strings.TrimSpace(in.UsagePurpose),
		Comment:      strings.TrimSpace(in.Comment),
	}
}

// LeadService coordinates lead ingestion and queries.
type LeadService struct {
	leads      repository.LeadRepository
	cache      *cache.LeadCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// LeadDependencies bundles collaborators for the lead service. Cache,
// Dispatcher and Metrics are optional.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	Cache      *cache.LeadCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &LeadService{
		leads:      deps.LeadRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// Submit stores a lead and announces it. Only validation and storage
// failures reach the caller.
func (s *LeadService) Submit(ctx context.Context, input LeadInput) (*domain.Lead, error) {
	input = input.normalized()
	if err := validator.Validate(input); err != nil {
		s.logger.Debug("lead rejected", zap.Error(err))
		return nil, apperrors.NewValidationError(requiredFieldsMessage)
	}

	lead := &domain.Lead{
		Name:         input.Name,
		Company:      input.Company,
		Phone:        input.Phone,
		Email:        input.Email,
		Volume:       input.Volume,
		UsagePurpose: input.UsagePurpose,
		Comment:      input.Comment,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.cache.Invalidate(ctx)
	s.metrics.RecordLeadCreated()
	s.logger.Info("lead stored", zap.Int64("lead_id", lead.ID))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewLeadCreated(*lead))
	}
	return lead, nil
}

// List returns the newest leads created within period, relative to the local clock.
func (s *LeadService) List(ctx context.Context, period domain.Period, limit int) ([]domain.Lead, error) {
	limit = NormalizeLimit(limit)
	now := s.now()

	key := cache.QueryKey{Period: period, Limit: limit, Day: now.Format("2006-01-02")}
	if leads, ok := s.cache.Get(ctx, key); ok {
		return leads, nil
	}

	filter := repository.LeadFilter{Limit: limit}
	if from, to, ok := period.Range(now); ok {
		filter.From = &from
		filter.To = &to
	}
	leads, err := s.leads.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.cache.Set(ctx, key, leads)
	return leads, nil
}

// Leads satisfies the admin bot's lead source.
func (s *LeadService) Leads(ctx context.Context, period domain.Period, limit int) ([]domain.Lead, error) {
	return s.List(ctx, period, limit)
}

// NormalizeLimit applies the default to non-positive limits and caps the rest.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return repository.DefaultLeadLimit
	case limit > MaxLeadLimit:
		return MaxLeadLimit
	default:
		return limit
	}
}
