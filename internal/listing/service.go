// Package listing implements the job-listing service: payload
// validation, the owner-only authorization gate, and orchestration of
// the store and cache behind the HTTP boundary.
package listing

import (
	"context"
	"fmt"
	"strings"

	"job-board-api/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const maxSalaryLength = 100

// Store is the durable listing collection.
type Store interface {
	Create(ctx context.Context, l *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Update(ctx context.Context, l *models.Listing) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f models.SearchFilters) (*models.SearchResult, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Listing, error)
}

// Cache is the optional read-through cache in front of the store.
type Cache interface {
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	SetListing(ctx context.Context, l *models.Listing) error
	InvalidateListing(ctx context.Context, id string) error
	GetSearchResult(ctx context.Context, f models.SearchFilters) (*models.SearchResult, error)
	SetSearchResult(ctx context.Context, f models.SearchFilters, result *models.SearchResult) error
	InvalidateSearches(ctx context.Context) error
}

type Service struct {
	store  Store
	cache  Cache
	opts   *models.Options
	logger *zap.Logger
}

// NewService wires a Service. cache may be nil; the service then goes
// straight to the store.
func NewService(store Store, cache Cache, opts *models.Options, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		opts:   opts,
		logger: logger,
	}
}

// Create validates the payload and persists a listing owned by
// subject. The store assigns id and posted_at.
func (s *Service) Create(ctx context.Context, subject string, input models.ListingInput) (*models.Listing, error) {
	l, err := s.buildListing(input)
	if err != nil {
		return nil, err
	}
	l.Owner = subject

	if err := s.store.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	s.dropSearchCache(ctx)

	s.logger.Info("listing created",
		zap.String("listing_id", l.ID),
		zap.String("owner_id", subject),
	)

	return l, nil
}

// Search returns one page of listings matching the filters, with a
// total computed independently of the page window.
func (s *Service) Search(ctx context.Context, f models.SearchFilters) (*models.SearchResult, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSearchResult(ctx, f); err == nil {
			return cached, nil
		}
	}

	result, err := s.store.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetSearchResult(ctx, f, result); err != nil {
			s.logger.Warn("failed to cache search result", zap.Error(err))
		}
	}

	return result, nil
}

// Get fetches a single listing, read-through cached.
func (s *Service) Get(ctx context.Context, id string) (*models.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetListing(ctx, id); err == nil {
			return cached, nil
		}
	}

	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, l); err != nil {
			s.logger.Warn("failed to cache listing",
				zap.String("listing_id", id),
				zap.Error(err),
			)
		}
	}

	return l, nil
}

// Mine returns every listing the subject owns, newest-first.
func (s *Service) Mine(ctx context.Context, subject string) ([]models.Listing, error) {
	listings, err := s.store.ListByOwner(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("mine: %w", err)
	}
	return listings, nil
}

// Update applies the fields present in input to a listing the subject
// owns. Owner and posted_at are immutable regardless of the payload.
func (s *Service) Update(ctx context.Context, subject, id string, input models.ListingInput) (*models.Listing, error) {
	l, err := s.authorize(ctx, subject, id)
	if err != nil {
		return nil, err
	}

	if err := applyInput(l, input, s.opts); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	s.dropListingCache(ctx, id)
	s.dropSearchCache(ctx)

	s.logger.Info("listing updated",
		zap.String("listing_id", id),
		zap.String("owner_id", subject),
	)

	return l, nil
}

// Delete removes a listing the subject owns. Deletion is final.
func (s *Service) Delete(ctx context.Context, subject, id string) error {
	if _, err := s.authorize(ctx, subject, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	s.dropListingCache(ctx, id)
	s.dropSearchCache(ctx)

	s.logger.Info("listing deleted",
		zap.String("listing_id", id),
		zap.String("owner_id", subject),
	)

	return nil
}

// authorize is the gate every mutation goes through: the listing must
// exist and the subject must be its owner.
func (s *Service) authorize(ctx context.Context, subject, id string) (*models.Listing, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.Owner != subject {
		return nil, ErrForbidden
	}

	return l, nil
}

func (s *Service) dropListingCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListing(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate listing cache",
			zap.String("listing_id", id),
			zap.Error(err),
		)
	}
}

func (s *Service) dropSearchCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSearches(ctx); err != nil {
		s.logger.Warn("failed to invalidate search cache", zap.Error(err))
	}
}

// buildListing validates a full create payload and assembles the
// listing. The first violated constraint is reported.
func (s *Service) buildListing(input models.ListingInput) (*models.Listing, error) {
	title := trimmed(input.Title)
	if len(title) < 3 {
		return nil, validationf("Title must be at least 3 characters long")
	}

	company := trimmed(input.Company)
	if len(company) < 2 {
		return nil, validationf("Company name is required")
	}

	location := trimmed(input.Location)
	if len(location) < 2 {
		return nil, validationf("Location is required")
	}

	if input.Category == nil || !s.opts.ValidCategory(*input.Category) {
		return nil, validationf("Invalid or missing category")
	}

	if len(input.Tags) == 0 {
		return nil, validationf("At least one tag is required")
	}

	if len(input.RequiredSkills) == 0 {
		return nil, validationf("At least one required skill is needed")
	}

	if len(trimmed(input.Description)) < 50 {
		return nil, validationf("Job description must be at least 50 characters long")
	}

	if input.ExperienceLevel == nil || !s.opts.ValidExperienceLevel(*input.ExperienceLevel) {
		return nil, validationf("Invalid experience level")
	}

	if input.JobType == nil || !s.opts.ValidJobType(*input.JobType) {
		return nil, validationf("Invalid job type")
	}

	salary := models.SalaryNotSpecified
	if input.Salary != nil && strings.TrimSpace(*input.Salary) != "" {
		if len(*input.Salary) > maxSalaryLength {
			return nil, validationf("Salary value too long")
		}
		salary = *input.Salary
	}

	return &models.Listing{
		Title:           title,
		Company:         company,
		Location:        location,
		Category:        *input.Category,
		JobType:         *input.JobType,
		ExperienceLevel: *input.ExperienceLevel,
		Tags:            pq.StringArray(input.Tags),
		RequiredSkills:  pq.StringArray(input.RequiredSkills),
		Description:     strings.TrimSpace(*input.Description),
		Salary:          salary,
	}, nil
}

// applyInput copies the fields present in a partial update onto l,
// re-validating each one under the same constraints as Create.
func applyInput(l *models.Listing, input models.ListingInput, opts *models.Options) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if len(title) < 3 {
			return validationf("Title must be at least 3 characters long")
		}
		l.Title = title
	}

	if input.Company != nil {
		company := strings.TrimSpace(*input.Company)
		if len(company) < 2 {
			return validationf("Company name is required")
		}
		l.Company = company
	}

	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if len(location) < 2 {
			return validationf("Location is required")
		}
		l.Location = location
	}

	if input.Category != nil {
		if !opts.ValidCategory(*input.Category) {
			return validationf("Invalid or missing category")
		}
		l.Category = *input.Category
	}

	if input.Tags != nil {
		if len(input.Tags) == 0 {
			return validationf("At least one tag is required")
		}
		l.Tags = pq.StringArray(input.Tags)
	}

	if input.RequiredSkills != nil {
		if len(input.RequiredSkills) == 0 {
			return validationf("At least one required skill is needed")
		}
		l.RequiredSkills = pq.StringArray(input.RequiredSkills)
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if len(description) < 50 {
			return validationf("Job description must be at least 50 characters long")
		}
		l.Description = description
	}

	if input.ExperienceLevel != nil {
		if !opts.ValidExperienceLevel(*input.ExperienceLevel) {
			return validationf("Invalid experience level")
		}
		l.ExperienceLevel = *input.ExperienceLevel
	}

	if input.JobType != nil {
		if !opts.ValidJobType(*input.JobType) {
			return validationf("Invalid job type")
		}
		l.JobType = *input.JobType
	}

	if input.Salary != nil {
		salary := strings.TrimSpace(*input.Salary)
		if len(*input.Salary) > maxSalaryLength {
			return validationf("Salary value too long")
		}
		if salary == "" {
			salary = models.SalaryNotSpecified
		}
		l.Salary = salary
	}

	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
