package actors

type ListActorsQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type CreateActorPayload struct {
	Name      string `json:"name" mod:"trim" validate:"required,max=200"`
	BirthDate string `json:"birth_date" mod:"trim" validate:"required,calendardate"`
	Gender    string `json:"gender" mod:"trim,ucase" validate:"required,oneof=M F X"`
}

// UpdateActorPayload fields are applied only when present.
type UpdateActorPayload struct {
	Name      *string `json:"name,omitempty" mod:"trim" validate:"omitnil,min=1,max=200"`
	BirthDate *string `json:"birth_date,omitempty" mod:"trim" validate:"omitnil,min=1,calendardate"`
	Gender    *string `json:"gender,omitempty" mod:"trim,ucase" validate:"omitnil,oneof=M F X"`
}
