package server

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/damionrashford/google-trends/pkg/analysis"
	"github.com/damionrashford/google-trends/pkg/export"
	"github.com/damionrashford/google-trends/pkg/logging"
	"github.com/damionrashford/google-trends/pkg/trends"
)

// maxListedResults bounds the related-query, region and trending lists
// returned to clients.
const maxListedResults = 20

// Register adds every trends tool to the MCP server.
func (s *Server) Register(srv *mcp.Server) {
	s.registerSearch(srv)
	s.registerRelatedQueries(srv)
	s.registerInterestByRegion(srv)
	s.registerTrendingSearches(srv)
	s.registerCompare(srv)
	s.registerSeasonal(srv)
	s.registerExportCSV(srv)
	s.registerExportJSON(srv)
	s.registerCreateSQLTable(srv)
	s.registerTimeframes(srv)
	s.registerRegions(srv)
}

var (
	keywordsProp = map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "Search terms to analyze (1 to 5)",
	}
	keywordProp = map[string]any{
		"type":        "string",
		"description": "Search term to analyze",
	}
	timeframeProp = map[string]any{
		"type":        "string",
		"description": "Time range, e.g. 'today 12-m', 'today 5-y', 'now 1-d'",
	}
	regionProp = map[string]any{
		"type":        "string",
		"description": "Two-letter country code; empty means worldwide",
	}
	categoryProp = map[string]any{
		"type":        "integer",
		"description": "Category ID, 0 for all categories",
	}
)

type queryArgs struct {
	Keywords  []string `json:"keywords"`
	Timeframe string   `json:"timeframe"`
	Region    string   `json:"region"`
	Category  int      `json:"category"`
}

func (a *queryArgs) toQuery() trends.Query {
	tf := a.Timeframe
	if tf == "" {
		tf = trends.DefaultTimeframe
	}
	return trends.Query{
		Keywords:  a.Keywords,
		Timeframe: tf,
		Region:    a.Region,
		Category:  a.Category,
	}
}

// keywordSummary is the per-keyword digest returned by trends_search.
type keywordSummary struct {
	Keyword      string  `json:"keyword"`
	MeanInterest float64 `json:"mean_interest"`
	PeakInterest int     `json:"peak_interest"`
	PeakDate     string  `json:"peak_date,omitempty"`
	Trend        string  `json:"trend_direction"`
	DataPoints   int     `json:"data_points"`
	DateRange    string  `json:"date_range,omitempty"`
}

func summarize(series []trends.Series) []keywordSummary {
	summaries := make([]keywordSummary, 0, len(series))
	for _, s := range series {
		stats := analysis.Statistics(s)
		summary := keywordSummary{
			Keyword:      s.Keyword,
			MeanInterest: stats.Mean,
			PeakInterest: stats.PeakValue,
			Trend:        string(stats.Trend),
			DataPoints:   stats.Points,
		}
		if !stats.PeakDate.IsZero() {
			summary.PeakDate = stats.PeakDate.Format("2006-01-02")
		}
		if len(s.Points) > 0 {
			summary.DateRange = fmt.Sprintf("%s to %s",
				s.Points[0].Time.Format("2006-01-02"),
				s.Points[len(s.Points)-1].Time.Format("2006-01-02"))
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func (s *Server) registerSearch(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "trends_search",
		Description: "Search Google Trends interest for up to 5 keywords and summarize each series.",
		InputSchema: inputSchema(map[string]any{
			"keywords":  keywordsProp,
			"timeframe": timeframeProp,
			"region":    regionProp,
			"category":  categoryProp,
		}, []string{"keywords"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *queryArgs) (any, error) {
		series, err := s.provider.InterestOverTime(ctx, args.toQuery())
		if err != nil {
			return nil, err
		}
		return summarize(series), nil
	})
}

func (s *Server) registerRelatedQueries(srv *mcp.Server) {
	type relatedArgs struct {
		Keyword   string `json:"keyword"`
		Timeframe string `json:"timeframe"`
		Region    string `json:"region"`
	}

	tool := &mcp.Tool{
		Name:        "trends_related_queries",
		Description: "Get top and rising related queries for a keyword.",
		InputSchema: inputSchema(map[string]any{
			"keyword":   keywordProp,
			"timeframe": timeframeProp,
			"region":    regionProp,
		}, []string{"keyword"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *relatedArgs) (any, error) {
		q := (&queryArgs{
			Keywords:  []string{args.Keyword},
			Timeframe: args.Timeframe,
			Region:    args.Region,
		}).toQuery()

		related, err := s.provider.RelatedQueries(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(related) == 0 {
			return trends.RelatedQueries{Keyword: args.Keyword}, nil
		}
		result := related[0]
		result.Top = truncate(result.Top, maxListedResults)
		result.Rising = truncate(result.Rising, maxListedResults)
		return result, nil
	})
}

func (s *Server) registerInterestByRegion(srv *mcp.Server) {
	type regionArgs struct {
		Keyword    string `json:"keyword"`
		Resolution string `json:"resolution"`
		Timeframe  string `json:"timeframe"`
		Region     string `json:"region"`
	}

	tool := &mcp.Tool{
		Name:        "trends_interest_by_region",
		Description: "Get geographic interest for a keyword at COUNTRY, REGION, CITY or DMA resolution.",
		InputSchema: inputSchema(map[string]any{
			"keyword": keywordProp,
			"resolution": map[string]any{
				"type":        "string",
				"description": "Geographic resolution: COUNTRY, REGION, CITY or DMA",
			},
			"timeframe": timeframeProp,
			"region":    regionProp,
		}, []string{"keyword"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *regionArgs) (any, error) {
		resolution := args.Resolution
		if resolution == "" {
			resolution = "COUNTRY"
		}
		q := (&queryArgs{
			Keywords:  []string{args.Keyword},
			Timeframe: args.Timeframe,
			Region:    args.Region,
		}).toQuery()

		regions, err := s.provider.InterestByRegion(ctx, q, resolution)
		if err != nil {
			return nil, err
		}
		return truncate(regions, maxListedResults), nil
	})
}

func (s *Server) registerTrendingSearches(srv *mcp.Server) {
	type trendingArgs struct {
		Region string `json:"region"`
	}

	tool := &mcp.Tool{
		Name:        "trends_trending_searches",
		Description: "Get the current trending search terms for a region.",
		InputSchema: inputSchema(map[string]any{
			"region": regionProp,
		}, nil),
	}

	registerTool(srv, tool, func(ctx context.Context, args *trendingArgs) (any, error) {
		terms, err := s.provider.TrendingSearches(ctx, args.Region)
		if err != nil {
			return nil, err
		}
		return map[string]any{"trending": truncate(terms, maxListedResults)}, nil
	})
}

func (s *Server) registerCompare(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "trends_compare",
		Description: "Compare keywords: per-keyword statistics, Pearson correlation matrix, and ranking by mean interest.",
		InputSchema: inputSchema(map[string]any{
			"keywords":  keywordsProp,
			"timeframe": timeframeProp,
			"region":    regionProp,
			"category":  categoryProp,
		}, []string{"keywords"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *queryArgs) (any, error) {
		return s.provider.CompareKeywords(ctx, args.toQuery())
	})
}

func (s *Server) registerSeasonal(srv *mcp.Server) {
	type seasonalResult struct {
		Patterns []trends.SeasonalPattern `json:"patterns"`
		Message  string                   `json:"message,omitempty"`
	}

	tool := &mcp.Tool{
		Name:        "trends_seasonal_patterns",
		Description: "Analyze calendar-period patterns (month-of-year or day-of-week) in keyword interest.",
		InputSchema: inputSchema(map[string]any{
			"keywords":  keywordsProp,
			"timeframe": timeframeProp,
			"region":    regionProp,
		}, []string{"keywords"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *queryArgs) (any, error) {
		patterns, err := s.provider.SeasonalPatterns(ctx, args.toQuery())
		if err != nil {
			return nil, err
		}
		result := seasonalResult{Patterns: patterns}
		if len(patterns) == 0 {
			result.Message = "insufficient data for seasonal analysis"
		}
		return result, nil
	})
}

type exportArgs struct {
	Keywords  []string `json:"keywords"`
	Timeframe string   `json:"timeframe"`
	Region    string   `json:"region"`
	Filename  string   `json:"filename"`
}

func (s *Server) fetchForExport(ctx context.Context, args *exportArgs) ([]trends.Series, trends.Query, error) {
	q := (&queryArgs{
		Keywords:  args.Keywords,
		Timeframe: args.Timeframe,
		Region:    args.Region,
	}).toQuery()

	series, err := s.provider.InterestOverTime(ctx, q)
	if err != nil {
		return nil, q, err
	}
	return series, q, nil
}

func (s *Server) registerExportCSV(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "trends_export_csv",
		Description: "Fetch interest data and export it to a CSV file.",
		InputSchema: inputSchema(map[string]any{
			"keywords":  keywordsProp,
			"timeframe": timeframeProp,
			"region":    regionProp,
			"filename":  map[string]any{"type": "string", "description": "Optional custom filename"},
		}, []string{"keywords"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *exportArgs) (any, error) {
		series, _, err := s.fetchForExport(ctx, args)
		if err != nil {
			return nil, err
		}
		filename := export.Filename("trends", args.Keywords, "csv", args.Filename)
		result, err := export.WriteCSV(s.exportDir, filename, series)
		if err != nil {
			return nil, err
		}
		s.logger.Info("exported trends data",
			logging.String("format", "csv"),
			logging.String("path", result.Path),
		)
		return result, nil
	})
}

func (s *Server) registerExportJSON(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "trends_export_json",
		Description: "Fetch interest data and export it, with metadata, to a JSON file.",
		InputSchema: inputSchema(map[string]any{
			"keywords":  keywordsProp,
			"timeframe": timeframeProp,
			"region":    regionProp,
			"filename":  map[string]any{"type": "string", "description": "Optional custom filename"},
		}, []string{"keywords"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *exportArgs) (any, error) {
		series, q, err := s.fetchForExport(ctx, args)
		if err != nil {
			return nil, err
		}
		doc := export.Document{
			Metadata: export.Metadata{
				Keywords:   q.Keywords,
				Timeframe:  q.Timeframe,
				Region:     q.Region,
				ExportDate: time.Now().UTC(),
			},
			Data: series,
		}
		filename := export.Filename("trends", args.Keywords, "json", args.Filename)
		result, err := export.WriteJSON(s.exportDir, filename, doc)
		if err != nil {
			return nil, err
		}
		s.logger.Info("exported trends data",
			logging.String("format", "json"),
			logging.String("path", result.Path),
		)
		return result, nil
	})
}

func (s *Server) registerCreateSQLTable(srv *mcp.Server) {
	type tableArgs struct {
		Keywords  []string `json:"keywords"`
		Timeframe string   `json:"timeframe"`
		Region    string   `json:"region"`
		TableName string   `json:"table_name"`
	}

	tool := &mcp.Tool{
		Name:        "trends_create_sql_table",
		Description: "Fetch interest data and load it into a new SQLite table.",
		InputSchema: inputSchema(map[string]any{
			"keywords":   keywordsProp,
			"timeframe":  timeframeProp,
			"region":     regionProp,
			"table_name": map[string]any{"type": "string", "description": "Optional custom table name"},
		}, []string{"keywords"}),
	}

	registerTool(srv, tool, func(ctx context.Context, args *tableArgs) (any, error) {
		series, _, err := s.fetchForExport(ctx, &exportArgs{
			Keywords:  args.Keywords,
			Timeframe: args.Timeframe,
			Region:    args.Region,
		})
		if err != nil {
			return nil, err
		}
		result, err := export.CreateTable(s.dbDir, export.TableName(args.Keywords, args.TableName), series)
		if err != nil {
			return nil, err
		}
		s.logger.Info("created sql table",
			logging.String("table", result.TableName),
			logging.Int("rows", result.RowsInserted),
		)
		return result, nil
	})
}

func (s *Server) registerTimeframes(srv *mcp.Server) {
	type noArgs struct{}

	tool := &mcp.Tool{
		Name:        "trends_timeframes",
		Description: "List the supported timeframe selectors.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	registerTool(srv, tool, func(_ context.Context, _ *noArgs) (any, error) {
		return map[string]any{"timeframes": trends.Timeframes()}, nil
	})
}

func (s *Server) registerRegions(srv *mcp.Server) {
	type noArgs struct{}

	tool := &mcp.Tool{
		Name:        "trends_regions",
		Description: "List the supported region codes.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	registerTool(srv, tool, func(_ context.Context, _ *noArgs) (any, error) {
		return map[string]any{"regions": trends.Regions()}, nil
	})
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
