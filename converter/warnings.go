package converter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Warning type constants
const (
	// Alert warnings
	WarningIgnoredEffect        = "ignored_effect"
	WarningNoActionableEntities = "no_actionable_entities"
	WarningOutsideServiceDay    = "outside_service_day"

	// Schedule warnings
	WarningNoScheduledStops = "no_scheduled_stops"
	WarningNoTripID         = "no_trip_id"
	WarningTripReplaced     = "trip_replaced"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects warnings during a run and logs one consolidated
// line per warning type.
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns how many times a warning type was recorded.
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// LogAll writes every collected warning type to logger, sorted by type.
func (w *WarningAggregator) LogAll(logger zerolog.Logger, serviceDay string) {
	if len(w.warnings) == 0 {
		return
	}

	types := make([]string, 0, len(w.warnings))
	for warningType := range w.warnings {
		types = append(types, warningType)
	}
	sort.Strings(types)

	for _, warningType := range types {
		info := w.warnings[warningType]
		logger.Warn().
			Str("warning", warningType).
			Str("service_day", serviceDay).
			Int("occurrences", info.count).
			Strs("examples", info.examples).
			Msg(formatWarningMessage(warningType, serviceDay, info))
	}
}

func formatWarningMessage(warningType, serviceDay string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningIgnoredEffect:
		description = "alerts whose effect is neither NO_SERVICE nor CANCELLATION"
		action = "Skipping them"
	case WarningNoActionableEntities:
		description = "alerts with no trip or route entity free of a stop reference"
		action = "Issuing no schedule query for them"
	case WarningOutsideServiceDay:
		description = "alerts with no active period inside the service day"
		action = "Issuing no schedule query for them"
	case WarningNoScheduledStops:
		description = "alerts whose schedule queries returned no stops"
		action = "Cancelling nothing for them"
	case WarningNoTripID:
		description = "alerts whose schedule entries name no trip"
		action = "Leaving those entries out of the feed"
	case WarningTripReplaced:
		description = "trips already cancelled by an earlier alert"
		action = "Applying the configured merge policy"
	default:
		description = "unknown issue"
		action = "Continuing"
	}

	return fmt.Sprintf("Service day %s has %s (%d occurrences). %s. Examples: %s",
		serviceDay, description, info.count, action, strings.Join(info.examples, ", "))
}
