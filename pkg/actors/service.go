package actors

import (
	"context"
	"database/sql"
	"time"

	"github.com/castinghq/casting/pkg/database"
	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/castinghq/casting/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveActorOptions struct {
	ID   *int
	Name *string
}

type ListActorsOptions struct {
	Limit  *int
	Offset *int
}

type UpdateActorOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateActor(ctx context.Context, actor *models.Actor) error {
	if err := svc.checkDuplicateName(ctx, actor.Name, 0); err != nil {
		return err
	}

	now := time.Now()
	if actor.CreatedAt.IsZero() {
		actor.CreatedAt = now
	}
	actor.UpdatedAt = actor.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(actor).
		Returning("*").
		Exec(ctx)
	return storeError(err, actor.Name)
}

func (svc *Service) RetrieveActor(ctx context.Context, opts RetrieveActorOptions) (*models.Actor, error) {
	actor := &models.Actor{}

	q := svc.db.
		NewSelect().
		Model(actor)

	if opts.ID != nil {
		q = q.Where("a.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		// Case-insensitive match
		q = q.Where("LOWER(a.name) = LOWER(?)", *opts.Name)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Actor")
		}
		return nil, errors.WithStack(err)
	}

	return actor, nil
}

func (svc *Service) ListActorsWithTotal(ctx context.Context, opts ListActorsOptions) ([]*models.Actor, int, error) {
	actors := []*models.Actor{}
	q := svc.db.
		NewSelect().
		Model(&actors).
		Order("a.id ASC")

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

	return actors, total, nil
}

// UpdateActor writes the given columns of actor. An empty column list is a
// no-op.
func (svc *Service) UpdateActor(ctx context.Context, actor *models.Actor, opts UpdateActorOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "name" {
			if err := svc.checkDuplicateName(ctx, actor.Name, actor.ID); err != nil {
				return err
			}
		}
	}

	now := time.Now()
	actor.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(actor).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return storeError(err, actor.Name)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Actor")
	}

	return nil
}

func (svc *Service) DeleteActor(ctx context.Context, actorID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Actor)(nil)).
		Where("id = ?", actorID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Actor")
	}

	return nil
}

// checkDuplicateName fails when another actor already uses name, ignoring
// case. excludeID skips the actor being updated.
func (svc *Service) checkDuplicateName(ctx context.Context, name string, excludeID int) error {
	existing, err := svc.RetrieveActor(ctx, RetrieveActorOptions{Name: &name})
	if errors.Is(err, errcodes.NotFound("Actor")) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != excludeID {
		return errcodes.Duplicate("Actor", "name", name)
	}

	return nil
}

// storeError maps a unique index violation that slipped past the pre-check
// (for instance a concurrent insert) onto the same error.
func storeError(err error, name string) error {
	if database.IsUniqueViolation(err) {
		return errcodes.Duplicate("Actor", "name", name)
	}
	return errors.WithStack(err)
}
