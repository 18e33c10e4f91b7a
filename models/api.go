package models

import "time"

type SummaryPostRequest struct {
	Thesis string `json:"thesis"`
}

type SummaryPostResponse struct {
	// ReportID is zero when the server has no report archive.
	ReportID int64   `json:"reportId,omitempty"`
	Summary  Summary `json:"summary"`
}

type ReportsGetResponse struct {
	Reports []Report `json:"reports"`
}

type ReportGetResponse struct {
	Report Report `json:"report"`
}

type Report struct {
	ID        int64     `json:"id"`
	Thesis    string    `json:"thesis"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}
