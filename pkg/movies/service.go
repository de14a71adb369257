package movies

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/castinghq/casting/pkg/database"
	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/castinghq/casting/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveMovieOptions struct {
	ID    *int
	Title *string
}

type ListMoviesOptions struct {
	Limit  *int
	Offset *int
}

type UpdateMovieOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateMovie(ctx context.Context, movie *models.Movie) error {
	if err := svc.checkDuplicateTitle(ctx, movie.Title, 0); err != nil {
		return err
	}

	now := time.Now()
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = now
	}
	movie.UpdatedAt = movie.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(movie).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.Duplicate("Movie", "title", movie.Title)
	}
	return errors.WithStack(err)
}

func (svc *Service) RetrieveMovie(ctx context.Context, opts RetrieveMovieOptions) (*models.Movie, error) {
	movie := &models.Movie{}

	q := svc.db.
		NewSelect().
		Model(movie)

	if opts.ID != nil {
		q = q.Where("m.id = ?", *opts.ID)
	}
	if opts.Title != nil {
		q = q.Where("LOWER(m.title) = LOWER(?)", *opts.Title)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Movie")
		}
		return nil, errors.WithStack(err)
	}

	return movie, nil
}

func (svc *Service) ListMoviesWithTotal(ctx context.Context, opts ListMoviesOptions) ([]*models.Movie, int, error) {
	movies := []*models.Movie{}
	q := svc.db.
		NewSelect().
		Model(&movies).
		Order("m.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return movies, total, nil
}

func (svc *Service) UpdateMovie(ctx context.Context, movie *models.Movie, opts UpdateMovieOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	if slices.Contains(opts.Columns, "title") {
		if err := svc.checkDuplicateTitle(ctx, movie.Title, movie.ID); err != nil {
			return err
		}
	}

	movie.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(movie).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Duplicate("Movie", "title", movie.Title)
		}
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Movie")
	}

	return nil
}

func (svc *Service) DeleteMovie(ctx context.Context, movieID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Movie)(nil)).
		Where("id = ?", movieID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Movie")
	}

	return nil
}

func (svc *Service) checkDuplicateTitle(ctx context.Context, title string, excludeID int) error {
	existing, err := svc.RetrieveMovie(ctx, RetrieveMovieOptions{Title: &title})
	if errors.Is(err, errcodes.NotFound("Movie")) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != excludeID {
		return errcodes.Duplicate("Movie", "title", title)
	}

	return nil
}
