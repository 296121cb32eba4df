package models

import "time"

// ForecastEntry is one timeseries point. Nil readings were absent upstream.
type ForecastEntry struct {
	Time          time.Time `json:"time" example:"2025-06-03T12:00:00Z"`
	Temperature   *float64  `json:"air_temperature" example:"14.2"`
	Humidity      *float64  `json:"relative_humidity" example:"71.5"`
	WindSpeed     *float64  `json:"wind_speed" example:"3.4"`
	WindDirection *float64  `json:"wind_from_direction" example:"212.9"`
}

// Series holds forecast entries as five index-aligned columns.
type Series struct {
	Times          []time.Time
	Temperatures   []*float64
	Humidity       []*float64
	WindSpeeds     []*float64
	WindDirections []*float64
}

func (s *Series) Append(e ForecastEntry) {
	s.Times = append(s.Times, e.Time)
	s.Temperatures = append(s.Temperatures, e.Temperature)
	s.Humidity = append(s.Humidity, e.Humidity)
	s.WindSpeeds = append(s.WindSpeeds, e.WindSpeed)
	s.WindDirections = append(s.WindDirections, e.WindDirection)
}

func (s Series) Len() int {
	return len(s.Times)
}

func (s Series) Entry(i int) ForecastEntry {
	return ForecastEntry{
		Time:          s.Times[i],
		Temperature:   s.Temperatures[i],
		Humidity:      s.Humidity[i],
		WindSpeed:     s.WindSpeeds[i],
		WindDirection: s.WindDirections[i],
	}
}

func (s Series) Entries() []ForecastEntry {
	entries := make([]ForecastEntry, 0, s.Len())
	for i := range s.Times {
		entries = append(entries, s.Entry(i))
	}
	return entries
}

// Span returns the first and last timestamps. ok is false for an empty series.
func (s Series) Span() (first, last time.Time, ok bool) {
	if s.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = s.Times[0], s.Times[0]
	for _, t := range s.Times[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return first, last, true
}
