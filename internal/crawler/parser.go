package crawler

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/seafoodcrawler/pkg/errors"
)

// tableSelector identifies the price table on the statistics page
const tableSelector = "table#ltable"

// parseTable extracts the header labels and body cells of the price table.
// A missing table or header section is reported as a parsing error.
func (c *BaseCrawler) parseTable(reader io.Reader, target string) (*RawTable, error) {
	doc, err := c.createDocument(reader)
	if err != nil {
		return nil, err
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, errors.NewTableNotFound(target)
	}

	thead := table.Find("thead").First()
	if thead.Length() == 0 {
		return nil, errors.NewParsing(target, "table #ltable has no thead", errors.ErrMalformedTable)
	}

	raw := &RawTable{}
	thead.Find("th").Each(func(_ int, th *goquery.Selection) {
		raw.Headers = append(raw.Headers, strings.TrimSpace(th.Text()))
	})
	if len(raw.Headers) == 0 {
		return nil, errors.NewParsing(target, "table #ltable has no header cells", errors.ErrMalformedTable)
	}

	table.Find("tbody").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		raw.Rows = append(raw.Rows, row)
	})

	return raw, nil
}
