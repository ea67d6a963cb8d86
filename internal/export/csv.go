// Package export serializes a day's ledger into the fixed-column survey
// CSV and delivers it through a pluggable sink.
package export

import (
	"fmt"
	"strings"

	"feira/internal/core"
)

// SampleColumns is the fixed number of sample columns in the export.
// Records with more samples are truncated; the extra samples stay in the
// ledger, they just do not appear in the file.
const SampleColumns = 10

// BuildCSV renders the records in input order. Fields are ';'-delimited
// with a trailing separator per row, product names are upper-cased and
// prices use the comma decimal format. An empty input yields an empty
// string; the caller decides whether to deliver anything.
func BuildCSV(records []core.ProductRecord) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("PRODUTO;")
	for i := 1; i <= SampleColumns; i++ {
		fmt.Fprintf(&b, "AMOSTRA %d;", i)
	}
	b.WriteString("\n")

	for _, rec := range records {
		b.WriteString(strings.ToUpper(rec.Product))
		b.WriteString(";")
		for i := 0; i < SampleColumns; i++ {
			if i < len(rec.Prices) {
				b.WriteString(rec.Prices[i].Display())
			}
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
	return b.String()
}
