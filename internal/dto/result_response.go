package dto

import (
	"datachat-resultview/internal/model"
	"datachat-resultview/internal/resultview"
)

type ResultResponse struct {
	ResultId string              `json:"resultId"`
	Snapshot resultview.Snapshot `json:"snapshot"`
}

type WindowResponse struct {
	ResultId      string         `json:"resultId"`
	Start         int            `json:"start"`
	End           int            `json:"end"`
	OffsetTop     float64        `json:"offsetTop"`
	TotalHeight   float64        `json:"totalHeight"`
	FilteredCount int            `json:"filteredCount"`
	Rows          []model.Record `json:"rows"`
}

// Download is an export artifact ready to be sent as an attachment.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}
