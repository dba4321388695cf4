package google

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/damionrashford/google-trends/pkg/trends"
)

// Wire shapes for the upstream replies. The upstream owns these formats and
// drifts them without notice, so every field is mapped defensively and
// nothing beyond this file sees the raw structures.

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type widget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []timelinePoint `json:"timelineData"`
	} `json:"default"`
}

type timelinePoint struct {
	Time      string `json:"time"` // unix seconds, as a string
	Value     []int  `json:"value"`
	IsPartial bool   `json:"isPartial"`
}

type relatedResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []rankedKeyword `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

type rankedKeyword struct {
	Query          string `json:"query"`
	Value          int    `json:"value"`
	FormattedValue string `json:"formattedValue"`
}

type comparedGeoResponse struct {
	Default struct {
		GeoMapData []struct {
			GeoCode string `json:"geoCode"`
			GeoName string `json:"geoName"`
			Value   []int  `json:"value"`
			HasData []bool `json:"hasData"`
		} `json:"geoMapData"`
	} `json:"default"`
}

type dailyTrendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

// normalizeTimeline converts the multiline reply into one series per
// keyword. Points arrive in chronological order; out-of-order or duplicate
// timestamps are dropped rather than trusted. A well-formed empty timeline
// is a valid empty result, not an error.
func normalizeTimeline(resp multilineResponse, keywords []string) ([]trends.Series, error) {
	series := make([]trends.Series, len(keywords))
	for i, kw := range keywords {
		series[i] = trends.Series{Keyword: kw, Points: []trends.Point{}}
	}

	var last time.Time
	for _, tp := range resp.Default.TimelineData {
		secs, err := strconv.ParseInt(tp.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q", trends.ErrTransient, tp.Time)
		}
		if len(tp.Value) < len(keywords) {
			return nil, fmt.Errorf("%w: timeline row has %d values for %d keywords",
				trends.ErrTransient, len(tp.Value), len(keywords))
		}

		ts := time.Unix(secs, 0).UTC()
		if !ts.After(last) && !last.IsZero() {
			continue
		}
		last = ts

		for i := range keywords {
			v := tp.Value[i]
			if v < 0 {
				v = 0
			}
			series[i].Points = append(series[i].Points, trends.Point{
				Time:    ts,
				Value:   v,
				Partial: tp.IsPartial,
			})
		}
	}
	return series, nil
}

// normalizeRelated splits the ranked lists into top (first list) and rising
// (second list). Breakout entries are flagged from the formatted value.
func normalizeRelated(resp relatedResponse, keyword string) trends.RelatedQueries {
	out := trends.RelatedQueries{
		Keyword: keyword,
		Top:     []trends.RelatedQuery{},
		Rising:  []trends.RelatedQuery{},
	}

	lists := resp.Default.RankedList
	if len(lists) > 0 {
		out.Top = convertRanked(lists[0].RankedKeyword)
	}
	if len(lists) > 1 {
		out.Rising = convertRanked(lists[1].RankedKeyword)
	}
	return out
}

func convertRanked(ranked []rankedKeyword) []trends.RelatedQuery {
	queries := make([]trends.RelatedQuery, 0, len(ranked))
	for _, rk := range ranked {
		if rk.Query == "" {
			continue
		}
		queries = append(queries, trends.RelatedQuery{
			Query:          rk.Query,
			Value:          rk.Value,
			FormattedValue: rk.FormattedValue,
			Breakout:       rk.FormattedValue == "Breakout",
		})
	}
	return queries
}

// normalizeRegions keeps regions that carry data for the first keyword.
func normalizeRegions(resp comparedGeoResponse, keyword string) []trends.RegionInterest {
	regions := make([]trends.RegionInterest, 0, len(resp.Default.GeoMapData))
	for _, g := range resp.Default.GeoMapData {
		if g.GeoCode == "" || len(g.Value) == 0 {
			continue
		}
		if len(g.HasData) > 0 && !g.HasData[0] {
			continue
		}
		regions = append(regions, trends.RegionInterest{
			Keyword: keyword,
			Code:    g.GeoCode,
			Name:    g.GeoName,
			Value:   g.Value[0],
		})
	}
	return regions
}

func normalizeTrending(resp dailyTrendsResponse) []string {
	terms := []string{}
	for _, day := range resp.Default.TrendingSearchesDays {
		for _, ts := range day.TrendingSearches {
			if ts.Title.Query != "" {
				terms = append(terms, ts.Title.Query)
			}
		}
	}
	return terms
}
