package postgres

import (
	"context"
	"fmt"
	"time"

	"job-board-api/internal/listing"
	"job-board-api/internal/models"

	"github.com/gocraft/dbr/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const listingsTable = "listings"

var listingColumns = []string{
	"id", "title", "company", "location", "category", "job_type",
	"experience_level", "tags", "required_skills", "description",
	"salary", "posted_at", "owner_id",
}

// Create persists a new listing. The store assigns the id and the
// posted_at timestamp; the caller's values for both are ignored.
func (s *Store) Create(ctx context.Context, l *models.Listing) error {
	l.ID = uuid.New().String()
	l.PostedAt = time.Now().UTC()

	_, err := s.sess.
		InsertInto(listingsTable).
		Columns(listingColumns...).
		Record(l).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to create listing",
			zap.String("listing_id", l.ID),
			zap.String("owner_id", l.Owner),
			zap.Error(err),
		)
		return fmt.Errorf("create listing: %w", err)
	}

	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing

	err := s.sess.
		Select(listingColumns...).
		From(listingsTable).
		Where("id = ?", id).
		LoadOneContext(ctx, &l)

	if err == dbr.ErrNotFound {
		return nil, listing.ErrNotFound
	}

	if err != nil {
		s.logger.Error("failed to get listing",
			zap.String("listing_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get listing: %w", err)
	}

	return &l, nil
}

// Update rewrites the mutable columns of a listing. owner_id and
// posted_at are never part of the statement.
func (s *Store) Update(ctx context.Context, l *models.Listing) error {
	result, err := s.sess.
		Update(listingsTable).
		SetMap(map[string]interface{}{
			"title":            l.Title,
			"company":          l.Company,
			"location":         l.Location,
			"category":         l.Category,
			"job_type":         l.JobType,
			"experience_level": l.ExperienceLevel,
			"tags":             l.Tags,
			"required_skills":  l.RequiredSkills,
			"description":      l.Description,
			"salary":           l.Salary,
		}).
		Where("id = ?", l.ID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update listing",
			zap.String("listing_id", l.ID),
			zap.Error(err),
		)
		return fmt.Errorf("update listing: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return listing.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.sess.
		DeleteFrom(listingsTable).
		Where("id = ?", id).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to delete listing",
			zap.String("listing_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("delete listing: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return listing.ErrNotFound
	}

	return nil
}

// Search runs one filtered, paginated query plus an independent count
// with the same conditions. Results come back newest-first; the id is
// a tie-break so pages never overlap when timestamps collide.
func (s *Store) Search(ctx context.Context, f models.SearchFilters) (*models.SearchResult, error) {
	conds := buildConditions(f)

	countStmt := s.sess.Select("COUNT(*)").From(listingsTable)
	for _, c := range conds {
		countStmt = countStmt.Where(c)
	}

	var total int
	if err := countStmt.LoadOneContext(ctx, &total); err != nil {
		s.logger.Error("failed to count listings", zap.Error(err))
		return nil, fmt.Errorf("count listings: %w", err)
	}

	pageStmt := s.sess.
		Select(listingColumns...).
		From(listingsTable)
	for _, c := range conds {
		pageStmt = pageStmt.Where(c)
	}

	results := make([]models.Listing, 0, f.Limit)
	_, err := pageStmt.
		OrderBy("posted_at DESC, id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset())).
		LoadContext(ctx, &results)

	if err != nil {
		s.logger.Error("failed to search listings", zap.Error(err))
		return nil, fmt.Errorf("search listings: %w", err)
	}

	return &models.SearchResult{
		Total:   total,
		Page:    f.Page,
		Pages:   f.Pages(total),
		Results: results,
	}, nil
}

// ListByOwner returns every listing a subject owns, newest-first.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]models.Listing, error) {
	listings := make([]models.Listing, 0)

	_, err := s.sess.
		Select(listingColumns...).
		From(listingsTable).
		Where("owner_id = ?", owner).
		OrderBy("posted_at DESC, id DESC").
		LoadContext(ctx, &listings)

	if err != nil {
		s.logger.Error("failed to list listings by owner",
			zap.String("owner_id", owner),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list listings by owner: %w", err)
	}

	return listings, nil
}

// buildConditions translates the typed filters into SQL predicates.
// Absent filters contribute nothing; everything present is ANDed.
func buildConditions(f models.SearchFilters) []dbr.Builder {
	var conds []dbr.Builder

	if f.Search != "" {
		conds = append(conds, dbr.Expr(
			"search_tsv @@ plainto_tsquery('english', ?)", f.Search))
	}
	if f.Category != "" {
		conds = append(conds, dbr.Eq("category", f.Category))
	}
	if f.Location != "" {
		conds = append(conds, dbr.Expr("location ILIKE ?", "%"+f.Location+"%"))
	}
	if len(f.Skills) > 0 {
		conds = append(conds, dbr.Expr("required_skills && ?", pq.Array(f.Skills)))
	}
	if len(f.Tags) > 0 {
		conds = append(conds, dbr.Expr("tags && ?", pq.Array(f.Tags)))
	}
	// Salary bounds compare lexically: salary is free text.
	if f.MinSalary != "" {
		conds = append(conds, dbr.Expr("salary >= ?", f.MinSalary))
	}
	if f.MaxSalary != "" {
		conds = append(conds, dbr.Expr("salary <= ?", f.MaxSalary))
	}
	if f.JobType != "" {
		conds = append(conds, dbr.Eq("job_type", f.JobType))
	}
	if f.ExperienceLevel != "" {
		conds = append(conds, dbr.Eq("experience_level", f.ExperienceLevel))
	}
	if f.Owner != "" {
		conds = append(conds, dbr.Eq("owner_id", f.Owner))
	}

	return conds
}
