package analytics

import (
	"net/url"
	"sort"
	"time"

	"github.com/inkpress/inkpress/internal/db/models"
)

// Traffic source labels for events without a usable referrer.
const (
	SourceDirect = "Direct"
	SourceOther  = "Other"
)

// DailyViews is one bucket of the dense daily time series.
type DailyViews struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Views int    `json:"views"`
}

// TrafficSource is one referrer group with its share of all visits.
type TrafficSource struct {
	Source     string  `json:"source"`
	Visits     int     `json:"visits"`
	Percentage float64 `json:"percentage"`
}

const dateLayout = "2006-01-02"

// DailySeries buckets events by calendar date into a dense, gap-filled
// series of exactly DefaultWindowDays buckets, dated consecutively from
// today minus 29 through today. Days without events carry zero views.
func DailySeries(events []models.AnalyticsEvent) []DailyViews {
	return DailySeriesAt(events, time.Now())
}

// DailySeriesAt is DailySeries anchored on an explicit "today".
func DailySeriesAt(events []models.AnalyticsEvent, now time.Time) []DailyViews {
	counts := make(map[string]int, len(events))
	for _, e := range events {
		counts[e.CreatedAt.Format(dateLayout)]++
	}

	series := make([]DailyViews, 0, DefaultWindowDays)

	for i := DefaultWindowDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(dateLayout)
		series = append(series, DailyViews{
			Date:  date,
			Views: counts[date],
		})
	}

	return series
}

// TrafficSources groups events by referrer origin. A parseable absolute
// referrer URL is labeled by its hostname, an empty referrer counts as
// "Direct" and anything unparseable as "Other". Percentages are left
// unrounded; rounding is a display concern.
func TrafficSources(events []models.AnalyticsEvent) []TrafficSource {
	if len(events) == 0 {
		return []TrafficSource{}
	}

	counts := make(map[string]int)
	for _, e := range events {
		counts[sourceLabel(e.Referrer)]++
	}

	out := make([]TrafficSource, 0, len(counts))
	total := float64(len(events))

	for source, visits := range counts {
		out = append(out, TrafficSource{
			Source:     source,
			Visits:     visits,
			Percentage: float64(visits) / total * 100,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Visits != out[j].Visits {
			return out[i].Visits > out[j].Visits
		}

		return out[i].Source < out[j].Source
	})

	return out
}

// sourceLabel derives the traffic-source label from a raw referrer header.
func sourceLabel(referrer string) string {
	if referrer == "" {
		return SourceDirect
	}

	u, err := url.Parse(referrer)
	if err != nil || !u.IsAbs() || u.Hostname() == "" {
		return SourceOther
	}

	return u.Hostname()
}
