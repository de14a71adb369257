package actors

import (
	"net/http"
	"strconv"

	"github.com/castinghq/casting/pkg/binder"
	"github.com/castinghq/casting/pkg/dates"
	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/castinghq/casting/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	actorService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListActorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	actors, total, err := h.actorService.ListActorsWithTotal(ctx, ListActorsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"success": true,
		"actors":  actors,
		"total":   total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Actor")
	}

	actor, err := h.actorService.RetrieveActor(ctx, RetrieveActorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, actorResponse(actor)))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateActorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	birthDate, err := dates.Normalize(params.BirthDate)
	if err != nil {
		return errcodes.ValidationError(`"birth_date" should be a calendar date such as 2021-07-04 or July 4, 2021`)
	}

	actor := &models.Actor{
		Name:      params.Name,
		BirthDate: birthDate,
		Gender:    params.Gender,
	}
	err = h.actorService.CreateActor(ctx, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("actor created", logger.Data{"actor_id": actor.ID})

	return errors.WithStack(c.JSON(http.StatusOK, actorResponse(actor)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Actor")
	}

	params := UpdateActorPayload{}
	binder.Partial(c)
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	actor, err := h.actorService.RetrieveActor(ctx, RetrieveActorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdateActorOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != actor.Name {
		actor.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.BirthDate != nil {
		birthDate, err := dates.Normalize(*params.BirthDate)
		if err != nil {
			return errcodes.ValidationError(`"birth_date" should be a calendar date such as 2021-07-04 or July 4, 2021`)
		}
		if birthDate != actor.BirthDate {
			actor.BirthDate = birthDate
			opts.Columns = append(opts.Columns, "birth_date")
		}
	}
	if params.Gender != nil && *params.Gender != actor.Gender {
		actor.Gender = *params.Gender
		opts.Columns = append(opts.Columns, "gender")
	}

	err = h.actorService.UpdateActor(ctx, actor, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	// Reload the model
	actor, err = h.actorService.RetrieveActor(ctx, RetrieveActorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, actorResponse(actor)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Actor")
	}

	err = h.actorService.DeleteActor(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("actor deleted", logger.Data{"actor_id": id})

	response := map[string]interface{}{
		"success": true,
		"delete":  id,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func actorResponse(actor *models.Actor) map[string]interface{} {
	return map[string]interface{}{
		"success": true,
		"actor":   actor,
	}
}
