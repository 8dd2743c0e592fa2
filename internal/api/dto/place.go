package dto

import "time"

type CreatePlaceRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Type    string `json:"type" validate:"required,oneof=restaurant activity"`
	Address string `json:"address" validate:"required,max=500"`
	Notes   string `json:"notes" validate:"max=2000"`
	Rating  int    `json:"rating" validate:"min=0,max=5"`
	Unit    string `json:"unit" validate:"omitempty,oneof=km mi"`
}

// Absent fields are left unchanged.
type UpdatePlaceRequest struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=200"`
	Address *string `json:"address" validate:"omitnil,min=1,max=500"`
	Notes   *string `json:"notes" validate:"omitnil,max=2000"`
	Rating  *int    `json:"rating" validate:"omitnil,min=0,max=5"`
	Unit    string  `json:"unit" validate:"omitempty,oneof=km mi"`
}

type ListPlacesQuery struct {
	Unit     string `validate:"omitempty,oneof=km mi"`
	Type     string `validate:"omitempty,oneof=restaurant activity"`
	Archived string `validate:"omitempty,oneof=true false all"`
}

// Distance is null when the address could not be resolved.
type PlaceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address"`
	Distance  *float64  `json:"distance"`
	Unit      string    `json:"unit"`
	Notes     string    `json:"notes"`
	Visited   bool      `json:"visited"`
	Rating    int       `json:"rating"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListPlaceResponse struct {
	Places []PlaceResponse `json:"places"`
}

// Dates are YYYY-MM-DD.
type ArchiveTripRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type ArchiveTripResponse struct {
	Places int64 `json:"places"`
}
