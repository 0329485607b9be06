package model

import "time"

// Period15Min is the only interval granularity requested from providers.
const Period15Min = "15min"

// UsageResponse is the payload returned by a usage provider. A nil Items field
// means the provider answer carried no readings list at all.
type UsageResponse struct {
	Items []Reading `json:"items"`
}

// UsageQuery describes the time range and granularity requested from a usage
// provider. Start and End are epoch milliseconds.
type UsageQuery struct {
	Start  int64  `json:"start"`
	End    int64  `json:"end"`
	Period string `json:"period"`
}

// StartTime returns Start as a UTC time.
func (q UsageQuery) StartTime() time.Time { return time.UnixMilli(q.Start).UTC() }

// EndTime returns End as a UTC time.
func (q UsageQuery) EndTime() time.Time { return time.UnixMilli(q.End).UTC() }
