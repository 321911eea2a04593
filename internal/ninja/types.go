package ninja

// Wire types for the poe.ninja economy overview endpoints. Only the fields
// the tracker consumes are declared.

// CurrencyOverviewResponse is the payload of /api/data/currencyoverview.
type CurrencyOverviewResponse struct {
	Lines []CurrencyLine `json:"lines"`
}

// CurrencyLine is one currency row. Prices are expressed in chaos orbs.
type CurrencyLine struct {
	CurrencyTypeName string         `json:"currencyTypeName"`
	ChaosEquivalent  float64        `json:"chaosEquivalent"`
	DetailsID        string         `json:"detailsId"`
	Receive          *CurrencyTrade `json:"receive"`
	Pay              *CurrencyTrade `json:"pay"`
	ReceiveSparkLine *SparkLine     `json:"receiveSparkLine"`
}

// CurrencyTrade is one side of the currency exchange listing.
type CurrencyTrade struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// ItemOverviewResponse is the payload of /api/data/itemoverview.
type ItemOverviewResponse struct {
	Lines []ItemLine `json:"lines"`
}

// ItemLine is one item row.
type ItemLine struct {
	Name         string     `json:"name"`
	ChaosValue   float64    `json:"chaosValue"`
	DivineValue  float64    `json:"divineValue"`
	DetailsID    string     `json:"detailsId"`
	ListingCount int        `json:"listingCount"`
	Sparkline    *SparkLine `json:"sparkline"`
}

// SparkLine holds the short price-trend series. Data points can be null for
// days with no samples.
type SparkLine struct {
	Data        []*float64 `json:"data"`
	TotalChange float64    `json:"totalChange"`
}

// ErrorResponse is the upstream's JSON error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
