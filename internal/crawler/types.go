package crawler

import (
	"context"
	"fmt"
	"time"
)

// Record is one row of the canonical price table.
// Field order is the output column order.
type Record struct {
	HighPrice   string `json:"上價"`
	LowPrice    string `json:"下價"`
	MidPrice    string `json:"中價"`
	TradeDate   string `json:"交易日期"`
	Volume      string `json:"交易量"`
	SpeciesCode string `json:"品種代碼"`
	MarketName  string `json:"市場名稱"`
	AvgPrice    string `json:"平均價"`
	FishName    string `json:"魚貨名稱"`
}

// Canonical column labels
const (
	ColHighPrice   = "上價"
	ColLowPrice    = "下價"
	ColMidPrice    = "中價"
	ColTradeDate   = "交易日期"
	ColVolume      = "交易量"
	ColSpeciesCode = "品種代碼"
	ColMarketName  = "市場名稱"
	ColAvgPrice    = "平均價"
	ColFishName    = "魚貨名稱"
)

// Columns lists the canonical columns in output order
var Columns = []string{
	ColHighPrice,
	ColLowPrice,
	ColMidPrice,
	ColTradeDate,
	ColVolume,
	ColSpeciesCode,
	ColMarketName,
	ColAvgPrice,
	ColFishName,
}

// Values returns the record's fields in Columns order
func (r Record) Values() []string {
	return []string{
		r.HighPrice,
		r.LowPrice,
		r.MidPrice,
		r.TradeDate,
		r.Volume,
		r.SpeciesCode,
		r.MarketName,
		r.AvgPrice,
		r.FishName,
	}
}

// RawTable is the verbatim content of the price table in one response
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Pair is one (date, market) request unit
type Pair struct {
	Date       time.Time
	MarketCode string
}

func (p Pair) String() string {
	return fmt.Sprintf("%s@%s", p.MarketCode, p.Date.Format("2006-01-02"))
}

// Failure records a pair that contributed no records
type Failure struct {
	Pair     Pair
	Attempts int
	Err      error
}

// Result is the outcome of one crawl over a date range
type Result struct {
	Records  []Record
	Failures []Failure
	Requests int
	Pairs    int
}

// Crawler interface defines the contract for price table crawlers
type Crawler interface {
	// FetchRecords crawls every market for each day in [start, end)
	FetchRecords(ctx context.Context, start, end time.Time) (*Result, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string
}

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	URL         string
	MaxAttempts int
	Timeout     time.Duration
	Registry    RegistryLookup
}

// RegistryLookup is the part of the market registry the crawler needs
type RegistryLookup interface {
	Codes() []string
	NameFor(code string) (string, error)
}
