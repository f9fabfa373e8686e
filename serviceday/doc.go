// Package serviceday implements the transit operating-day calendar.
//
// A service day runs from 03:00:00 local time until 02:59:59 on the following
// calendar date. Trips that run shortly after midnight therefore belong to the
// previous day's schedule, and their times of day are written with hours past
// 24 (for example 26:15:00 for 02:15 the next morning).
//
// All arithmetic is done in the agency's *time.Location so that daylight saving
// transitions are resolved by the time package rather than by fixed offsets.
//
//	cal := serviceday.NewCalendar(serviceday.MustLoadLocation(serviceday.DefaultTimezone))
//	day := cal.ServiceDay(time.Now())     // 2024-01-20
//	win := cal.Window(time.Now())         // 2024-01-20 03:00:00 .. 2024-01-21 02:59:59
//	hh := cal.ExtendedTime(win.End)       // "26:59:59"
package serviceday
