package kovaaks

import (
	"regexp"
	"time"
)

// fileNameTimestampRe matches the precise timestamp Kovaak's embeds in
// stats file names, e.g. "... - Challenge - 2026.03.01-18.22.33 Stats.csv".
var fileNameTimestampRe = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})-(\d{2})\.(\d{2})\.(\d{2})`)

// datePlayedLayouts are tried, in order, when parsing the "Date Played"
// stat on its own.
var datePlayedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006.01.02-15.04.05",
	"2006-01-02",
	"2006.01.02",
	"01/02/2006",
}

// dateOnlyLayouts are tried when combining "Date Played" with a separate
// "Challenge Start" time of day.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"01/02/2006",
}

// timeOfDayLayouts are tried for the "Challenge Start" stat.
var timeOfDayLayouts = []string{
	"15:04:05.000",
	"15:04:05",
	"15:04",
}

// ResolveTimestamp resolves a run's timestamp from its stats file. The
// fallback chain is ordered by precision and must not be collapsed into a
// single generic parse:
//
//  1. the timestamp embedded in the file name,
//  2. the "Date Played" date combined with the "Challenge Start" time of
//     day,
//  3. generic parsing of "Date Played" alone.
//
// Returns the zero time when nothing in the chain matches; callers decide
// whether to exclude the record (session grouping) or substitute "now"
// (forecasting).
func ResolveTimestamp(fileName string, stats map[string]any, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}

	if m := fileNameTimestampRe.FindStringSubmatch(fileName); m != nil {
		if ts, err := time.ParseInLocation("2006.01.02-15.04.05", m[0], loc); err == nil {
			return ts
		}
	}

	datePlayed := toString(stats["Date Played"])
	start := toString(stats["Challenge Start"])

	if datePlayed != "" && start != "" {
		if ts, ok := combineDateAndTime(datePlayed, start, loc); ok {
			return ts
		}
	}

	if datePlayed != "" {
		for _, layout := range datePlayedLayouts {
			if ts, err := time.ParseInLocation(layout, datePlayed, loc); err == nil {
				return ts
			}
		}
	}

	return time.Time{}
}

// combineDateAndTime merges a calendar date and a time-of-day string into
// one local timestamp.
func combineDateAndTime(date, timeOfDay string, loc *time.Location) (time.Time, bool) {
	var day time.Time
	ok := false
	for _, layout := range dateOnlyLayouts {
		if d, err := time.ParseInLocation(layout, date, loc); err == nil {
			day = d
			ok = true
			break
		}
	}
	if !ok {
		return time.Time{}, false
	}

	for _, layout := range timeOfDayLayouts {
		if tod, err := time.Parse(layout, timeOfDay); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), loc), true
		}
	}
	return time.Time{}, false
}
