package v3api

// document is one page of a JSON:API collection response.
type document[A any] struct {
	Data  []resource[A] `json:"data"`
	Links struct {
		Next *string `json:"next"`
	} `json:"links"`
}

type resource[A any] struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    A                       `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type relationship struct {
	Data *resourceRef `json:"data"`
}

type resourceRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// related returns the id of a to-one relationship, or "" when absent.
func (r resource[A]) related(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return ""
	}
	return rel.Data.ID
}

type alertAttributes struct {
	Effect         string               `json:"effect"`
	Header         string               `json:"header"`
	ActivePeriod   []activePeriodJSON   `json:"active_period"`
	InformedEntity []informedEntityJSON `json:"informed_entity"`
}

type activePeriodJSON struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type informedEntityJSON struct {
	Trip  string `json:"trip"`
	Route string `json:"route"`
	Stop  string `json:"stop"`
}

type scheduleAttributes struct {
	StopSequence int `json:"stop_sequence"`
}
