package crawler

import (
	"strings"
	"time"

	"sjsage522/seafoodcrawler/logger"
	"sjsage522/seafoodcrawler/pkg/errors"
)

// Percentage-change columns that are not part of the canonical schema
var droppedColumns = map[string]bool{
	"交易量漲跌幅+(-)%": true,
	"平均價漲跌幅+(-)%": true,
}

// Source labels carrying a unit suffix
var renamedColumns = map[string]string{
	"上價(元/公斤)":  ColHighPrice,
	"下價(元/公斤)":  ColLowPrice,
	"中價(元/公斤)":  ColMidPrice,
	"交易量(公斤)":   ColVolume,
	"平均價(元/公斤)": ColAvgPrice,
}

// Canonical columns that come from the source table rather than the request
var sourceColumns = map[string]bool{
	ColHighPrice:   true,
	ColLowPrice:    true,
	ColMidPrice:    true,
	ColVolume:      true,
	ColSpeciesCode: true,
	ColAvgPrice:    true,
	ColFishName:    true,
}

// normalize reshapes a parsed table into canonical records for one market
// and day. Rows whose cell count differs from the header count are skipped.
// A header without any recognised source column is a malformed table.
func normalize(table *RawTable, date time.Time, marketCode string, registry RegistryLookup) ([]Record, error) {
	marketName, err := registry.NameFor(marketCode)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(table.Headers))
	recognised := false
	for i, h := range table.Headers {
		if renamed, ok := renamedColumns[h]; ok {
			h = renamed
		}
		labels[i] = h
		recognised = recognised || sourceColumns[h]
	}
	if !recognised {
		target := Pair{Date: date, MarketCode: marketCode}.String()
		return nil, errors.NewParsing(target, "no recognised price columns in table header", errors.ErrMalformedTable)
	}

	tradeDate := ROCDate(date)
	records := make([]Record, 0, len(table.Rows))

	for i, row := range table.Rows {
		if len(row) != len(labels) {
			logger.Debug("skipping row %d of %s@%s: %d cells for %d columns",
				i, marketCode, date.Format("2006-01-02"), len(row), len(labels))
			continue
		}

		fields := make(map[string]string, len(labels))
		for j, label := range labels {
			if droppedColumns[label] {
				continue
			}
			fields[label] = row[j]
		}

		records = append(records, Record{
			HighPrice:   fields[ColHighPrice],
			LowPrice:    fields[ColLowPrice],
			MidPrice:    fields[ColMidPrice],
			TradeDate:   tradeDate,
			Volume:      strings.ReplaceAll(fields[ColVolume], ",", ""),
			SpeciesCode: fields[ColSpeciesCode],
			MarketName:  marketName,
			AvgPrice:    fields[ColAvgPrice],
			FishName:    fields[ColFishName],
		})
	}

	return records, nil
}
