package models

// TrendPoint is the share of search happening in standalone search versus
// inside integrated software for a given year.
type TrendPoint struct {
	Year       int `json:"year"`
	Standalone int `json:"standalone"`
	Integrated int `json:"integrated"`
}

const TrendTitle = "Market Paradigm Shift: Search Modalities"

// TrendData is illustrative and static, it isn't derived from any report.
var TrendData = []TrendPoint{
	{Year: 2010, Standalone: 90, Integrated: 10},
	{Year: 2015, Standalone: 80, Integrated: 20},
	{Year: 2020, Standalone: 60, Integrated: 40},
	{Year: 2024, Standalone: 45, Integrated: 55},
	{Year: 2028, Standalone: 20, Integrated: 80},
	{Year: 2030, Standalone: 5, Integrated: 95},
}
