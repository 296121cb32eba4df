package weather

import (
	"fmt"
	"strings"
	"time"

	"weather-tracks/internal/models"
	"weather-tracks/pkg/jsonpath"
	"weather-tracks/pkg/observe"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 timestamp. A trailing Z means UTC and
// timestamps without an offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// +00:00 may otherwise come back as time.Local.
		if _, offset := t.Zone(); offset == 0 {
			t = t.UTC()
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time format: %q", s)
}

// ParseSeries turns raw met.no timeseries entries into aligned columns.
// Entries that are not objects or lack a readable time are dropped; missing
// readings become nil. Order is preserved.
func ParseSeries(entries []any, l *observe.Logger) models.Series {
	var series models.Series

	for i, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			l.Warning("skipping non-object entry in timeseries", map[string]any{
				"index": i,
				"entry": fmt.Sprintf("%v", raw),
			})
			continue
		}

		timeStr, _ := jsonpath.String(entry, "time")
		if timeStr == "" {
			l.Warning("missing time in entry", map[string]any{
				"index": i,
				"time":  fmt.Sprintf("%v", entry["time"]),
			})
			continue
		}

		ts, err := ParseTimestamp(timeStr)
		if err != nil {
			l.Warning("invalid time format", map[string]any{
				"index": i,
				"time":  timeStr,
			})
			continue
		}

		details := jsonpath.Get(entry, map[string]any{}, "data", "instant", "details")

		series.Append(models.ForecastEntry{
			Time:          ts,
			Temperature:   jsonpath.FloatPtr(details, "air_temperature"),
			Humidity:      jsonpath.FloatPtr(details, "relative_humidity"),
			WindSpeed:     jsonpath.FloatPtr(details, "wind_speed"),
			WindDirection: jsonpath.FloatPtr(details, "wind_from_direction"),
		})
	}

	return series
}
