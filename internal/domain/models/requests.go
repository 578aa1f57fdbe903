package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency and reuse.
//
// The GBM overrides are pointers on purpose: a missing field falls back to
// the configured default, while an explicit zero (e.g. volatility 0) is
// honored as-is.

type AnalyzeRequest struct {
	Symbol        string   `query:"symbol" json:"symbol" validate:"required,max=16"`
	Days          int      `query:"days" json:"days" default:"180" validate:"gte=2,lte=5000"`
	Seed          int64    `query:"seed" json:"seed" default:"42" validate:"gte=1"`
	Source        string   `query:"source" json:"source" default:"synthetic" validate:"oneof=synthetic remote"`
	CrossValidate bool     `query:"cross_validate" json:"cross_validate"`
	InitialPrice  *float64 `json:"initial_price" validate:"omitempty,gt=0"`
	Drift         *float64 `json:"drift"`
	Volatility    *float64 `json:"volatility" validate:"omitempty,gte=0"`
	MAWindows     []int    `json:"ma_windows" default:"[20,50]" validate:"omitempty,dive,gte=1,lte=500"`
	BollWindow    int      `json:"boll_window" default:"20" validate:"gte=2,lte=500"`
	BollStd       float64  `json:"boll_std" default:"2" validate:"gt=0"`
	RSIWindow     int      `json:"rsi_window" default:"14" validate:"gte=2,lte=500"`
	VolWindow     int      `json:"vol_window" default:"20" validate:"gte=2,lte=500"`
}

type CompareRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=10,dive,required,max=16"`
	Days    int      `json:"days" default:"180" validate:"gte=2,lte=5000"`
	Seed    int64    `json:"seed" default:"42" validate:"gte=1"`
}

type ExportRequest struct {
	Symbol string `query:"symbol" validate:"required,max=16"`
	Days   int    `query:"days" default:"180" validate:"gte=1,lte=5000"`
	Seed   int64  `query:"seed" default:"42" validate:"gte=1"`
}
