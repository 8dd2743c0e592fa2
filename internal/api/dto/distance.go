package dto

type DistanceQuery struct {
	Origin      string `validate:"required,max=500"`
	Destination string `validate:"required,max=500"`
	Unit        string `validate:"omitempty,oneof=km mi"`
}

type DistanceResponse struct {
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit"`
	Resolved bool    `json:"resolved"`
}

type ConvertQuery struct {
	Value float64
	From  string  `validate:"required,oneof=km mi"`
	To    string  `validate:"required,oneof=km mi"`
}

type ConvertResponse struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}
