package entity

const (
	// DefaultReferrer is stored when a click carries no referrer.
	DefaultReferrer = "direct"
	// Unknown is stored for request metadata that could not be extracted.
	Unknown = "unknown"
)

// ClickEvent is a single recorded redirect. Events are append-only.
type ClickEvent struct {
	ShortCode string // ShortCode is the partition key.
	Timestamp int64  // Timestamp is the sort key in epoch milliseconds.
	EventID   string // EventID disambiguates events recorded in the same millisecond.
	UserAgent string
	Referrer  string
	IPAddress string
	Country   string
}

// ClickStats summarizes one page of click events.
//
// UniqueIPs and TopReferrers are computed over the returned page only, so
// they are approximate once the page is truncated by the query limit.
type ClickStats struct {
	TotalClicks  int
	UniqueIPs    int
	TopReferrers map[string]int
	Clicks       []ClickEvent
}
