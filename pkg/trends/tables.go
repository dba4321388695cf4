package trends

// Configuration tables: the timeframes and region codes accepted by Query
// validation. These mirror the ranges the upstream UI exposes.

// DefaultTimeframe is used when a tool call omits the timeframe.
const DefaultTimeframe = "today 12-m"

// DefaultRegion is used by tools that default to a single country.
const DefaultRegion = "US"

var timeframes = []string{
	"now 1-H",      // past hour
	"now 4-H",      // past 4 hours
	"now 1-d",      // past day
	"now 7-d",      // past 7 days
	"today 1-m",    // past month
	"today 3-m",    // past 3 months
	"today 12-m",   // past 12 months
	"today 5-y",    // past 5 years
	"2004-present", // everything since 2004
}

var regions = []string{
	"US", "GB", "CA", "AU", "DE", "FR", "IT", "ES", "NL", "BR",
	"MX", "AR", "CL", "CO", "PE", "VE", "JP", "KR", "IN", "SG",
	"MY", "TH", "VN", "PH", "ID", "NZ", "ZA", "EG", "NG", "KE",
}

var (
	timeframeSet = toSet(timeframes)
	regionSet    = toSet(regions)
)

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Timeframes returns the supported timeframe selectors in display order.
func Timeframes() []string {
	out := make([]string, len(timeframes))
	copy(out, timeframes)
	return out
}

// Regions returns the supported region codes in display order.
func Regions() []string {
	out := make([]string, len(regions))
	copy(out, regions)
	return out
}

// ValidTimeframe reports whether tf is a supported timeframe selector.
func ValidTimeframe(tf string) bool {
	_, ok := timeframeSet[tf]
	return ok
}

// ValidRegion reports whether code is a supported region code.
func ValidRegion(code string) bool {
	_, ok := regionSet[code]
	return ok
}
