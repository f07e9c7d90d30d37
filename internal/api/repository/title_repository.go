package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// GenreSpec identifies a genre in a title write payload. The slug is the
// upsert key; the name is only used when the genre has to be created.
type GenreSpec struct {
	Name string
	Slug string
}

// TitleFilters narrows the title list query.
type TitleFilters struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

// ratingExpr computes a title's display rating inline: the
// floor-truncated average of its review scores, 0 with no reviews.
// Scores are positive so FLOOR(AVG(..)) equals floor(sum/count).
const ratingExpr = "(SELECT COALESCE(FLOOR(AVG(r.score)), 0) FROM reviews r WHERE r.title_id = titles.id)"

type TitleRepository interface {
	List(ctx context.Context, filters TitleFilters, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title, genres []GenreSpec) error
	Update(ctx context.Context, title *models.Title, genres []GenreSpec, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
	RatingsFor(ctx context.Context, titleIDs []int64) (map[int64]int, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) applyFilters(q *gorm.DB, filters TitleFilters) *gorm.DB {
	if filters.CategorySlug != "" {
		q = q.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", filters.CategorySlug)
	}
	if filters.GenreSlug != "" {
		q = q.Where("titles.id IN (SELECT tg.title_id FROM title_genres tg JOIN genres g ON g.id = tg.genre_id WHERE g.slug = ?)", filters.GenreSlug)
	}
	if filters.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+filters.Name+"%")
	}
	if filters.Year != nil {
		q = q.Where("titles.year = ?", *filters.Year)
	}
	return q
}

// List returns a page of titles ordered by computed rating (highest
// first), with name as the tie-break.
func (r *titleRepository) List(ctx context.Context, filters TitleFilters, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	q := r.applyFilters(r.db.WithContext(ctx).Model(&models.Title{}), filters)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.
		Preload("Category").
		Preload("Genres").
		Order(ratingExpr + " DESC, titles.name ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts the title and writes its genre set in one transaction.
func (r *titleRepository) Create(ctx context.Context, title *models.Title, genres []GenreSpec) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Create(title).Error; err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		return replaceGenres(tx, title.ID, genres)
	})
}

// Update saves the title's scalar fields; when replace is set the genre
// association set is rewritten in the same transaction.
func (r *titleRepository) Update(ctx context.Context, title *models.Title, genres []GenreSpec, replace bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Save(title).Error; err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		if replace {
			return replaceGenres(tx, title.ID, genres)
		}
		return nil
	})
}

// replaceGenres implements full replacement of a title's genre set.
// Each spec is resolved to a genre row (created on first sight, keyed by
// slug), a fresh association row is written for it, and every
// association row that predates this call is then deleted. Running
// inside the caller's transaction keeps the swap invisible to readers
// until commit.
func replaceGenres(tx *gorm.DB, titleID int64, genres []GenreSpec) error {
	var stale []int64
	if err := tx.Model(&models.TitleGenre{}).
		Where("title_id = ?", titleID).
		Pluck("id", &stale).Error; err != nil {
		return fmt.Errorf("load genre associations: %w", err)
	}

	for _, spec := range genres {
		var genre models.Genre
		if err := tx.
			Where(models.Genre{Slugged: models.Slugged{Slug: spec.Slug}}).
			Attrs(models.Genre{Slugged: models.Slugged{Name: spec.Name}}).
			FirstOrCreate(&genre).Error; err != nil {
			return fmt.Errorf("resolve genre %q: %w", spec.Slug, err)
		}
		assoc := models.TitleGenre{TitleID: titleID, GenreID: genre.ID}
		if err := tx.Create(&assoc).Error; err != nil {
			return fmt.Errorf("associate genre %q: %w", spec.Slug, err)
		}
	}

	if len(stale) > 0 {
		if err := tx.Delete(&models.TitleGenre{}, stale).Error; err != nil {
			return fmt.Errorf("drop stale genre associations: %w", err)
		}
	}
	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RatingsFor computes display ratings for a set of titles in one grouped
// query. Titles without reviews are absent from the map; callers treat
// that as rating 0.
func (r *titleRepository) RatingsFor(ctx context.Context, titleIDs []int64) (map[int64]int, error) {
	if len(titleIDs) == 0 {
		return map[int64]int{}, nil
	}

	var rows []struct {
		TitleID int64
		Rating  int
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, FLOOR(AVG(score))::int AS rating").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	ratings := make(map[int64]int, len(rows))
	for _, row := range rows {
		ratings[row.TitleID] = row.Rating
	}
	return ratings, nil
}
