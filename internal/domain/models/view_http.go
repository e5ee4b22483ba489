package models

// Requests for the view HTTP endpoints. Defined in domain for consistency and reuse.

type SignalsViewRequest struct {
	Asset string `query:"asset" json:"asset" default:"all" validate:"required,max=64"`
	Query string `query:"q" json:"q" validate:"max=64"`
	Limit int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
}

type ChartViewRequest struct {
	Last int `query:"last" json:"last" default:"0" validate:"gte=0,lte=500"`
}

type FilterRequest struct {
	Asset string `json:"asset" default:"all" validate:"required,max=64"`
	Query string `json:"q" validate:"max=64"`
}

type SnapshotRequest struct {
	Kind string `param:"kind" validate:"required,oneof=signals metrics chart connection"`
}

type JournalRequest struct {
	Asset string `query:"asset" json:"asset" validate:"max=64"`
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
