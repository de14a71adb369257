package movies

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

const invalidReleaseDate = `"release_date" should be a calendar date such as 2021-07-04 or July 4, 2021`

type handler struct {
	movieService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListMoviesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	movies, total, err := h.movieService.ListMoviesWithTotal(ctx, ListMoviesOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"movies":  movies,
		"total":   total,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	movie, err := h.movieService.RetrieveMovie(ctx, RetrieveMovieOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, movieResponse(movie)))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateMoviePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	releaseDate, err := dates.Normalize(params.ReleaseDate)
	if err != nil {
		return errcodes.ValidationError(invalidReleaseDate)
	}

	movie := &models.Movie{
		Title:       params.Title,
		ReleaseDate: releaseDate,
	}
	err = h.movieService.CreateMovie(ctx, movie)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("movie created", logger.Data{"movie_id": movie.ID})

	return errors.WithStack(c.JSON(http.StatusOK, movieResponse(movie)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	params := UpdateMoviePayload{}
	binder.Partial(c)
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	movie, err := h.movieService.RetrieveMovie(ctx, RetrieveMovieOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateMovieOptions{Columns: []string{}}

	if params.Title != nil && *params.Title != movie.Title {
		movie.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.ReleaseDate != nil {
		releaseDate, err := dates.Normalize(*params.ReleaseDate)
		if err != nil {
			return errcodes.ValidationError(invalidReleaseDate)
		}
		if releaseDate != movie.ReleaseDate {
			movie.ReleaseDate = releaseDate
			opts.Columns = append(opts.Columns, "release_date")
		}
	}

	err = h.movieService.UpdateMovie(ctx, movie, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	movie, err = h.movieService.RetrieveMovie(ctx, RetrieveMovieOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, movieResponse(movie)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Movie")
	}

	err = h.movieService.DeleteMovie(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("movie deleted", logger.Data{"movie_id": id})

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"delete":  id,
	}))
}

func movieResponse(movie *models.Movie) map[string]interface{} {
	return map[string]interface{}{
		"success": true,
		"movie":   movie,
	}
}
