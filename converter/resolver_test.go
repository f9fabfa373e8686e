package converter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/converter"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/serviceday"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

func newTestConverter(schedules converter.ScheduleSource, policy converter.MergePolicy) *converter.Converter {
	return converter.NewConverter(&fakeAlerts{}, schedules, converter.ConverterOptions{
		Location:    newYork,
		MergePolicy: policy,
		Logger:      zerolog.Nop(),
	})
}

func tripAlert(id, trip string, periods ...transit.ActivePeriod) transit.Alert {
	return transit.Alert{
		ID:               id,
		Effect:           transit.EffectCancellation,
		ActivePeriods:    periods,
		InformedEntities: []transit.InformedEntity{{Trip: trip}},
	}
}

func TestClipToServiceDay(t *testing.T) {
	cal := serviceday.NewCalendar(newYork)
	ref := at(t, "2024-01-20 12:00:00")

	tests := []struct {
		name    string
		periods []transit.ActivePeriod
		want    []serviceday.Period
	}{
		{
			name:    "inside the window",
			periods: []transit.ActivePeriod{{Start: at(t, "2024-01-20 13:00:00"), End: at(t, "2024-01-20 14:00:00")}},
			want:    []serviceday.Period{{Start: at(t, "2024-01-20 13:00:00"), End: at(t, "2024-01-20 14:00:00")}},
		},
		{
			name:    "before the window",
			periods: []transit.ActivePeriod{{Start: at(t, "2024-01-18 10:00:00"), End: at(t, "2024-01-19 10:00:00")}},
			want:    []serviceday.Period{},
		},
		{
			name:    "open-ended runs to the window end",
			periods: []transit.ActivePeriod{{Start: at(t, "2024-01-20 22:00:00")}},
			want:    []serviceday.Period{{Start: at(t, "2024-01-20 22:00:00"), End: at(t, "2024-01-21 02:59:59")}},
		},
		{
			name:    "starting the day before is clipped to the cutover",
			periods: []transit.ActivePeriod{{Start: at(t, "2024-01-19 20:00:00"), End: at(t, "2024-01-20 05:00:00")}},
			want:    []serviceday.Period{{Start: at(t, "2024-01-20 03:00:00"), End: at(t, "2024-01-20 05:00:00")}},
		},
		{
			name:    "open-ended without start covers the whole window",
			periods: []transit.ActivePeriod{{}},
			want:    []serviceday.Period{{Start: at(t, "2024-01-20 03:00:00"), End: at(t, "2024-01-21 02:59:59")}},
		},
		{
			name: "keeps input order and drops misses",
			periods: []transit.ActivePeriod{
				{Start: at(t, "2024-01-20 18:00:00"), End: at(t, "2024-01-20 19:00:00")},
				{Start: at(t, "2024-01-22 08:00:00"), End: at(t, "2024-01-22 09:00:00")},
				{Start: at(t, "2024-01-20 07:00:00"), End: at(t, "2024-01-20 08:00:00")},
			},
			want: []serviceday.Period{
				{Start: at(t, "2024-01-20 18:00:00"), End: at(t, "2024-01-20 19:00:00")},
				{Start: at(t, "2024-01-20 07:00:00"), End: at(t, "2024-01-20 08:00:00")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := converter.ClipToServiceDay(cal, tt.periods, ref)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, tt.want[i].Start.Equal(got[i].Start), "start %d: want %s, got %s", i, tt.want[i].Start, got[i].Start)
				assert.True(t, tt.want[i].End.Equal(got[i].End), "end %d: want %s, got %s", i, tt.want[i].End, got[i].End)
			}
		})
	}
}

func TestBuildQueries(t *testing.T) {
	cal := serviceday.NewCalendar(newYork)
	groups := converter.EntityGroups{Trips: []string{"1", "2"}, Routes: []string{"Red"}}
	periods := []serviceday.Period{
		{Start: at(t, "2024-01-20 13:00:00"), End: at(t, "2024-01-20 14:00:00")},
		{Start: at(t, "2024-01-20 23:30:00"), End: at(t, "2024-01-21 01:15:00")},
	}

	got := converter.BuildQueries(cal, groups, periods)

	assert.Equal(t, []transit.ScheduleQuery{
		{Filter: transit.TripFilter{IDs: []string{"1", "2"}}, MinTime: "13:00:00", MaxTime: "14:00:00"},
		{Filter: transit.TripFilter{IDs: []string{"1", "2"}}, MinTime: "23:30:00", MaxTime: "25:15:00"},
		{Filter: transit.RouteFilter{IDs: []string{"Red"}}, MinTime: "13:00:00", MaxTime: "14:00:00"},
		{Filter: transit.RouteFilter{IDs: []string{"Red"}}, MinTime: "23:30:00", MaxTime: "25:15:00"},
	}, got)

	assert.Empty(t, converter.BuildQueries(cal, converter.EntityGroups{}, periods))
	assert.Empty(t, converter.BuildQueries(cal, groups, nil))
}

func TestResolveAffectedSchedules(t *testing.T) {
	ctx := context.Background()
	ref := at(t, "2024-01-20 12:00:00")

	t.Run("single trip in window issues one query", func(t *testing.T) {
		schedules := &fakeSchedules{respond: byTrip(map[string][]transit.ScheduleEntry{
			"123": {stop("123", "Red", "s2", 2), stop("123", "Red", "s1", 1)},
		})}
		conv := newTestConverter(schedules, nil)

		alert := tripAlert("a1", "123", transit.ActivePeriod{
			Start: at(t, "2024-01-20 13:00:00"), End: at(t, "2024-01-20 14:00:00"),
		})
		got, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)
		require.NoError(t, err)

		assert.Equal(t, []transit.ScheduleQuery{
			{Filter: transit.TripFilter{IDs: []string{"123"}}, MinTime: "13:00:00", MaxTime: "14:00:00"},
		}, schedules.seen())
		assert.Equal(t, transit.AffectedScheduleMap{
			"123": {stop("123", "Red", "s1", 1), stop("123", "Red", "s2", 2)},
		}, got)
	})

	t.Run("period outside the service day issues no query", func(t *testing.T) {
		schedules := &fakeSchedules{}
		conv := newTestConverter(schedules, nil)

		alert := tripAlert("a1", "123", transit.ActivePeriod{
			Start: at(t, "2024-01-18 10:00:00"), End: at(t, "2024-01-19 10:00:00"),
		})
		got, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)
		require.NoError(t, err)
		assert.Empty(t, schedules.seen())
		assert.Empty(t, got)
	})

	t.Run("open-ended period ends at the service day end", func(t *testing.T) {
		schedules := &fakeSchedules{}
		conv := newTestConverter(schedules, nil)

		alert := tripAlert("a1", "123", transit.ActivePeriod{Start: at(t, "2024-01-20 22:00:00")})
		_, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)
		require.NoError(t, err)

		queries := schedules.seen()
		require.Len(t, queries, 1)
		assert.Equal(t, "22:00:00", queries[0].MinTime)
		assert.Equal(t, "26:59:59", queries[0].MaxTime)
	})

	t.Run("both groups and two periods issue four queries", func(t *testing.T) {
		schedules := &fakeSchedules{}
		conv := newTestConverter(schedules, nil)

		alert := transit.Alert{
			ID:     "a1",
			Effect: transit.EffectNoService,
			ActivePeriods: []transit.ActivePeriod{
				{Start: at(t, "2024-01-20 08:00:00"), End: at(t, "2024-01-20 09:00:00")},
				{Start: at(t, "2024-01-20 17:00:00"), End: at(t, "2024-01-20 18:00:00")},
			},
			InformedEntities: []transit.InformedEntity{{Trip: "t1"}, {Route: "Red"}, {Stop: "s1", Route: "Blue"}},
		}
		_, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)
		require.NoError(t, err)

		assert.ElementsMatch(t, []transit.ScheduleQuery{
			{Filter: transit.TripFilter{IDs: []string{"t1"}}, MinTime: "08:00:00", MaxTime: "09:00:00"},
			{Filter: transit.TripFilter{IDs: []string{"t1"}}, MinTime: "17:00:00", MaxTime: "18:00:00"},
			{Filter: transit.RouteFilter{IDs: []string{"Red"}}, MinTime: "08:00:00", MaxTime: "09:00:00"},
			{Filter: transit.RouteFilter{IDs: []string{"Red"}}, MinTime: "17:00:00", MaxTime: "18:00:00"},
		}, schedules.seen())
	})

	t.Run("stop-only alert issues no query", func(t *testing.T) {
		schedules := &fakeSchedules{}
		conv := newTestConverter(schedules, nil)

		alert := transit.Alert{
			ID:               "a1",
			Effect:           transit.EffectNoService,
			ActivePeriods:    []transit.ActivePeriod{{}},
			InformedEntities: []transit.InformedEntity{{Stop: "place-a", Route: "Red"}},
		}
		got, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)
		require.NoError(t, err)
		assert.Empty(t, schedules.seen())
		assert.Empty(t, got)
	})

	t.Run("overlapping periods do not duplicate stops", func(t *testing.T) {
		schedules := &fakeSchedules{respond: func(q transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
			if q.MinTime == "13:00:00" {
				return []transit.ScheduleEntry{stop("1", "Red", "s2", 2), stop("1", "Red", "s3", 3)}, nil
			}
			return []transit.ScheduleEntry{stop("1", "Red", "s1", 1), stop("1", "Red", "s2", 2)}, nil
		}}
		conv := newTestConverter(schedules, nil)

		alert := tripAlert("a1", "1",
			transit.ActivePeriod{Start: at(t, "2024-01-20 12:30:00"), End: at(t, "2024-01-20 13:30:00")},
			transit.ActivePeriod{Start: at(t, "2024-01-20 13:00:00"), End: at(t, "2024-01-20 14:00:00")},
		)
		got, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)
		require.NoError(t, err)
		assert.Equal(t, []transit.ScheduleEntry{
			stop("1", "Red", "s1", 1), stop("1", "Red", "s2", 2), stop("1", "Red", "s3", 3),
		}, got["1"])
	})

	t.Run("entries without a trip are left out", func(t *testing.T) {
		schedules := &fakeSchedules{respond: func(transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
			return []transit.ScheduleEntry{
				stop("", "Red", "s1", 1),
				stop("T1", "Red", "s2", 2),
				stop("", "Red", "s3", 3),
			}, nil
		}}
		conv := newTestConverter(schedules, nil)
		alert := transit.Alert{
			ID:               "a1",
			Effect:           transit.EffectNoService,
			ActivePeriods:    []transit.ActivePeriod{{}},
			InformedEntities: []transit.InformedEntity{{Route: "Red"}},
		}

		got, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)

		require.NoError(t, err)
		assert.NotContains(t, got, "")
		assert.Equal(t, transit.AffectedScheduleMap{
			"T1": {stop("T1", "Red", "s2", 2)},
		}, got)
	})

	t.Run("schedule source error aborts", func(t *testing.T) {
		boom := errors.New("upstream down")
		schedules := &fakeSchedules{respond: func(transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
			return nil, boom
		}}
		conv := newTestConverter(schedules, nil)

		alert := tripAlert("a1", "1", transit.ActivePeriod{})
		got, err := conv.ResolveAffectedSchedules(ctx, []transit.Alert{alert}, ref)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "alert a1")
		assert.Nil(t, got)
	})
}

func TestResolveMergePolicies(t *testing.T) {
	ctx := context.Background()
	ref := at(t, "2024-01-20 12:00:00")

	// Alert "early" sees stops 1-3 of trip T, alert "late" only stop 3-4.
	respond := func(q transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
		if q.MinTime == "08:00:00" {
			return []transit.ScheduleEntry{stop("T", "Red", "s1", 1), stop("T", "Red", "s2", 2), stop("T", "Red", "s3", 3)}, nil
		}
		return []transit.ScheduleEntry{stop("T", "Red", "s3", 3), stop("T", "Red", "s4", 4)}, nil
	}
	alerts := []transit.Alert{
		tripAlert("early", "T", transit.ActivePeriod{Start: at(t, "2024-01-20 08:00:00"), End: at(t, "2024-01-20 09:00:00")}),
		tripAlert("late", "T", transit.ActivePeriod{Start: at(t, "2024-01-20 18:00:00"), End: at(t, "2024-01-20 19:00:00")}),
	}

	tests := []struct {
		name   string
		policy converter.MergePolicy
		want   []transit.ScheduleEntry
	}{
		{
			name:   "latest replaces",
			policy: converter.PreferLatest,
			want:   []transit.ScheduleEntry{stop("T", "Red", "s3", 3), stop("T", "Red", "s4", 4)},
		},
		{
			name:   "default is latest",
			policy: nil,
			want:   []transit.ScheduleEntry{stop("T", "Red", "s3", 3), stop("T", "Red", "s4", 4)},
		},
		{
			name:   "union keeps both",
			policy: converter.UnionStops,
			want: []transit.ScheduleEntry{
				stop("T", "Red", "s1", 1), stop("T", "Red", "s2", 2), stop("T", "Red", "s3", 3), stop("T", "Red", "s4", 4),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := newTestConverter(&fakeSchedules{respond: respond}, tt.policy)
			got, err := conv.ResolveAffectedSchedules(ctx, alerts, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got["T"])
		})
	}
}

func TestResolveLimitedConcurrency(t *testing.T) {
	schedules := &fakeSchedules{respond: func(q transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
		return []transit.ScheduleEntry{stop(q.Filter.Values()[0], "Red", q.MinTime, 1)}, nil
	}}
	conv := converter.NewConverter(&fakeAlerts{}, schedules, converter.ConverterOptions{
		Location:         newYork,
		QueryConcurrency: 3,
	})

	var periods []transit.ActivePeriod
	start := at(t, "2024-01-20 04:00:00")
	for i := 0; i < 6; i++ {
		periods = append(periods, transit.ActivePeriod{Start: start.Add(time.Duration(i) * time.Hour), End: start.Add(time.Duration(i)*time.Hour + 30*time.Minute)})
	}
	got, err := conv.ResolveAffectedSchedules(context.Background(), []transit.Alert{tripAlert("a1", "T", periods...)}, at(t, "2024-01-20 12:00:00"))
	require.NoError(t, err)
	require.Len(t, schedules.seen(), 6)

	// results are merged in query order regardless of completion order
	require.Len(t, got["T"], 6)
	for i, e := range got["T"] {
		assert.Equal(t, start.Add(time.Duration(i)*time.Hour).Format("15:04:05"), e.StopID)
	}
}
