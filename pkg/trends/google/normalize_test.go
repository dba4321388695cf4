package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damionrashford/google-trends/pkg/trends"
)

func TestDecode_StripsAntiXSSIPrefix(t *testing.T) {
	var resp exploreResponse
	body := []byte(")]}'\n{\"widgets\":[{\"id\":\"TIMESERIES\",\"token\":\"tok\",\"request\":{}}]}")

	require.NoError(t, decode(body, &resp))
	require.Len(t, resp.Widgets, 1)
	assert.Equal(t, "TIMESERIES", resp.Widgets[0].ID)
	assert.Equal(t, "tok", resp.Widgets[0].Token)
}

func TestDecode_PlainJSON(t *testing.T) {
	var v map[string]int
	require.NoError(t, decode([]byte(`{"a":1}`), &v))
	assert.Equal(t, 1, v["a"])
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no json at all", ")]}'\nnot json"},
		{"truncated object", ")]}'\n{\"widgets\":"},
		{"empty body", ""},
		{"html block page", "<html><body>unusual traffic</body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v map[string]any
			err := decode([]byte(tt.body), &v)
			require.Error(t, err)
			assert.ErrorIs(t, err, trends.ErrTransient)
		})
	}
}

func timelineResp(points ...timelinePoint) multilineResponse {
	var resp multilineResponse
	resp.Default.TimelineData = points
	return resp
}

func TestNormalizeTimeline(t *testing.T) {
	resp := timelineResp(
		timelinePoint{Time: "1700000000", Value: []int{10, 55}},
		timelinePoint{Time: "1700086400", Value: []int{20, 65}},
		timelinePoint{Time: "1700172800", Value: []int{30, 75}, IsPartial: true},
	)

	series, err := normalizeTimeline(resp, []string{"golang", "rust"})
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "golang", series[0].Keyword)
	assert.Equal(t, []int{10, 20, 30}, series[0].Values())
	assert.Equal(t, "rust", series[1].Keyword)
	assert.Equal(t, []int{55, 65, 75}, series[1].Values())

	assert.Equal(t, time.Unix(1700000000, 0).UTC(), series[0].Points[0].Time)
	assert.False(t, series[0].Points[0].Partial)
	assert.True(t, series[0].Points[2].Partial)
}

func TestNormalizeTimeline_EmptyIsValid(t *testing.T) {
	series, err := normalizeTimeline(multilineResponse{}, []string{"golang"})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.NotNil(t, series[0].Points)
	assert.Empty(t, series[0].Points)
}

func TestNormalizeTimeline_BadTimestamp(t *testing.T) {
	resp := timelineResp(timelinePoint{Time: "not-a-number", Value: []int{10}})

	_, err := normalizeTimeline(resp, []string{"golang"})
	require.Error(t, err)
	assert.ErrorIs(t, err, trends.ErrTransient)
}

func TestNormalizeTimeline_ShortValueRow(t *testing.T) {
	resp := timelineResp(timelinePoint{Time: "1700000000", Value: []int{10}})

	_, err := normalizeTimeline(resp, []string{"golang", "rust"})
	require.Error(t, err)
	assert.ErrorIs(t, err, trends.ErrTransient)
}

func TestNormalizeTimeline_DropsOutOfOrderPoints(t *testing.T) {
	resp := timelineResp(
		timelinePoint{Time: "1700086400", Value: []int{20}},
		timelinePoint{Time: "1700000000", Value: []int{10}}, // regresses, dropped
		timelinePoint{Time: "1700086400", Value: []int{25}}, // duplicate, dropped
		timelinePoint{Time: "1700172800", Value: []int{30}},
	)

	series, err := normalizeTimeline(resp, []string{"golang"})
	require.NoError(t, err)
	assert.Equal(t, []int{20, 30}, series[0].Values())
}

func TestNormalizeTimeline_ClampsNegativeValues(t *testing.T) {
	resp := timelineResp(timelinePoint{Time: "1700000000", Value: []int{-5}})

	series, err := normalizeTimeline(resp, []string{"golang"})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, series[0].Values())
}

func TestNormalizeRelated(t *testing.T) {
	body := `)]}'
{"default":{"rankedList":[
  {"rankedKeyword":[
    {"query":"golang tutorial","value":100,"formattedValue":"100"},
    {"query":"","value":50}
  ]},
  {"rankedKeyword":[
    {"query":"golang generics","value":25000,"formattedValue":"Breakout"},
    {"query":"golang 1.24","value":150,"formattedValue":"+150%"}
  ]}
]}}`

	var resp relatedResponse
	require.NoError(t, decode([]byte(body), &resp))

	related := normalizeRelated(resp, "golang")

	assert.Equal(t, "golang", related.Keyword)
	require.Len(t, related.Top, 1)
	assert.Equal(t, "golang tutorial", related.Top[0].Query)
	assert.False(t, related.Top[0].Breakout)

	require.Len(t, related.Rising, 2)
	assert.True(t, related.Rising[0].Breakout)
	assert.False(t, related.Rising[1].Breakout)
}

func TestNormalizeRelated_MissingLists(t *testing.T) {
	related := normalizeRelated(relatedResponse{}, "golang")

	assert.NotNil(t, related.Top)
	assert.NotNil(t, related.Rising)
	assert.Empty(t, related.Top)
	assert.Empty(t, related.Rising)
}

func TestNormalizeRegions(t *testing.T) {
	body := `{"default":{"geoMapData":[
  {"geoCode":"US-CA","geoName":"California","value":[100],"hasData":[true]},
  {"geoCode":"US-NV","geoName":"Nevada","value":[40],"hasData":[false]},
  {"geoCode":"","geoName":"Unknown","value":[10]},
  {"geoCode":"US-OR","geoName":"Oregon","value":[]},
  {"geoCode":"US-WA","geoName":"Washington","value":[73]}
]}}`

	var resp comparedGeoResponse
	require.NoError(t, decode([]byte(body), &resp))

	regions := normalizeRegions(resp, "golang")

	require.Len(t, regions, 2)
	assert.Equal(t, "US-CA", regions[0].Code)
	assert.Equal(t, 100, regions[0].Value)
	assert.Equal(t, "golang", regions[0].Keyword)
	assert.Equal(t, "US-WA", regions[1].Code)
}

func TestNormalizeTrending(t *testing.T) {
	body := `)]}'
{"default":{"trendingSearchesDays":[{"trendingSearches":[
  {"title":{"query":"world cup"}},
  {"title":{"query":"weather"}},
  {"title":{"query":""}}
]}]}}`

	var resp dailyTrendsResponse
	require.NoError(t, decode([]byte(body), &resp))

	assert.Equal(t, []string{"world cup", "weather"}, normalizeTrending(resp))
	assert.Empty(t, normalizeTrending(dailyTrendsResponse{}))
}

func TestUpstreamTimeframe(t *testing.T) {
	assert.Equal(t, "all", upstreamTimeframe("2004-present"))
	assert.Equal(t, "today 12-m", upstreamTimeframe("today 12-m"))
}

func TestBuildPayload(t *testing.T) {
	q := trends.Query{
		Keywords:  []string{"golang", "rust"},
		Timeframe: "today 12-m",
		Region:    "US",
		Category:  31,
	}

	payload := buildPayload(q)

	require.Len(t, payload.ComparisonItem, 2)
	assert.Equal(t, "golang", payload.ComparisonItem[0].Keyword)
	assert.Equal(t, "US", payload.ComparisonItem[0].Geo)
	assert.Equal(t, "today 12-m", payload.ComparisonItem[0].Time)
	assert.Equal(t, 31, payload.Category)
}

func TestFindWidget(t *testing.T) {
	widgets := []widget{
		{ID: "TIMESERIES", Token: "t0"},
		{ID: "GEO_MAP", Token: "g0"},
		{ID: "RELATED_QUERIES", Token: "r0"},
		{ID: "RELATED_QUERIES", Token: "r1"},
	}

	w, err := findWidget(widgets, "RELATED_QUERIES", 1)
	require.NoError(t, err)
	assert.Equal(t, "r1", w.Token)

	_, err = findWidget(widgets, "RELATED_TOPICS", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, trends.ErrTransient)
}
