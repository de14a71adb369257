package movies

type ListMoviesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type CreateMoviePayload struct {
	Title       string `json:"title" mod:"trim" validate:"required,max=300"`
	ReleaseDate string `json:"release_date" mod:"trim" validate:"required,calendardate"`
}

// UpdateMoviePayload fields are applied only when present.
type UpdateMoviePayload struct {
	Title       *string `json:"title,omitempty" mod:"trim" validate:"omitnil,min=1,max=300"`
	ReleaseDate *string `json:"release_date,omitempty" mod:"trim" validate:"omitnil,min=1,calendardate"`
}
