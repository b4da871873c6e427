package model

import "time"

// ResultEvent announces whether a freshly loaded answer can be charted.
type ResultEvent struct {
	ResultId        string    `json:"resultId"`
	ChartCompatible bool      `json:"chartCompatible"`
	DefaultView     string    `json:"defaultView"`
	OccurredAt      time.Time `json:"occurredAt"`
}
