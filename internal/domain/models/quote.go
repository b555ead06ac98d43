package models

import "time"

// Banxico SIE series used by the report.
const (
	SeriesTIIE28  = "SF43783"
	SeriesCETES28 = "SF60632"
	SeriesFIX     = "SF60633"
	SeriesMbono10 = "SF61839"
)

// SeriesQuote is the latest observation of one central-bank series.
type SeriesQuote struct {
	SeriesID string
	Value    string
	// Date is the observation date as published (dd/mm/yyyy).
	Date string
	AsOf time.Time
}

// MarketQuote is a GLOBAL_QUOTE snapshot. Fields keep the provider's text.
type MarketQuote struct {
	Symbol        string
	Price         string
	Change        string
	ChangePercent string
}

// FXRate is a realtime currency pair rate.
type FXRate struct {
	From string
	To   string
	Rate string
}

// QuoteRequest describes one symbol of the report and how it is labelled.
type QuoteRequest struct {
	Symbol string
	Label  string
}

// Quote symbols per report stage.
var (
	EquityQuotes = []QuoteRequest{
		{Symbol: "SPY", Label: "S&P 500 (ETF)"},
		{Symbol: "DIA", Label: "Dow Jones (ETF)"},
		{Symbol: "QQQ", Label: "NASDAQ (ETF)"},
		{Symbol: "EWW", Label: "México (ETF)"},
	}
	CommodityQuotes = []QuoteRequest{
		{Symbol: "GC=F", Label: "Oro"},
		{Symbol: "SI=F", Label: "Plata"},
		{Symbol: "CL=F", Label: "WTI"},
		{Symbol: "BZ=F", Label: "Brent"},
	}
	TreasuryQuote = QuoteRequest{Symbol: "TNX", Label: "US Treasury 10Y"}
)

// QuoteSnapshot is one archived quote of a run.
type QuoteSnapshot struct {
	RunID      string
	ReportDate string
	Symbol     string
	Quote      *MarketQuote
	FetchedAt  time.Time
}
