package transit

import "time"

// Alert effects that cancel service.
const (
	EffectNoService    = "NO_SERVICE"
	EffectCancellation = "CANCELLATION"
)

// CancellationEffects returns the alert effects that produce cancellations.
func CancellationEffects() []string {
	return []string{EffectCancellation, EffectNoService}
}

// Alert is a service alert as published by the upstream API.
type Alert struct {
	ID               string
	Effect           string
	Header           string
	ActivePeriods    []ActivePeriod
	InformedEntities []InformedEntity
}

// IsCancellation reports whether the alert's effect removes service.
func (a Alert) IsCancellation() bool {
	return a.Effect == EffectNoService || a.Effect == EffectCancellation
}

// ActivePeriod is the window during which an alert is in effect. A zero End
// means the period is open-ended.
type ActivePeriod struct {
	Start time.Time
	End   time.Time
}

// OpenEnded reports whether the period has no upper bound.
func (p ActivePeriod) OpenEnded() bool { return p.End.IsZero() }

// InformedEntity is the scope of an alert. Empty fields are absent.
type InformedEntity struct {
	Trip  string
	Route string
	Stop  string
}
