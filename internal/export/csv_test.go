package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"feira/internal/core"
)

func cents(values ...int64) []core.Money {
	out := make([]core.Money, len(values))
	for i, v := range values {
		out[i] = core.Money{Cents: v}
	}
	return out
}

func TestBuildCSVHeader(t *testing.T) {
	csv := BuildCSV([]core.ProductRecord{{Product: "Tomate", Prices: cents(150)}})
	lines := strings.Split(csv, "\n")
	want := "PRODUTO;AMOSTRA 1;AMOSTRA 2;AMOSTRA 3;AMOSTRA 4;AMOSTRA 5;AMOSTRA 6;AMOSTRA 7;AMOSTRA 8;AMOSTRA 9;AMOSTRA 10;"
	if lines[0] != want {
		t.Fatalf("header:\n got %q\nwant %q", lines[0], want)
	}
}

func TestBuildCSVRow(t *testing.T) {
	csv := BuildCSV([]core.ProductRecord{{Product: "Tomate", Prices: cents(150, 200)}})
	lines := strings.Split(csv, "\n")
	// Product column plus ten sample fields, each ';'-terminated: two filled
	// samples followed by eight empty ones.
	want := "TOMATE;1,50;2,00;;;;;;;;;"
	if lines[1] != want {
		t.Fatalf("row:\n got %q\nwant %q", lines[1], want)
	}
}

func TestBuildCSVTruncatesAtTenSamples(t *testing.T) {
	prices := cents(100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100, 1200)
	csv := BuildCSV([]core.ProductRecord{{Product: "Banana", Prices: prices}})
	row := strings.Split(csv, "\n")[1]

	if strings.Contains(row, "11,00") || strings.Contains(row, "12,00") {
		t.Fatalf("samples beyond the 10th must be omitted: %q", row)
	}
	if !strings.HasSuffix(row, "10,00;") {
		t.Fatalf("10th sample missing: %q", row)
	}
	// Product column plus exactly ten sample fields, all terminated by ';'.
	if got := strings.Count(row, ";"); got != 11 {
		t.Fatalf("expected 11 separators, got %d in %q", got, row)
	}
}

func TestBuildCSVPreservesRecordOrder(t *testing.T) {
	csv := BuildCSV([]core.ProductRecord{
		{Product: "Banana", Prices: cents(100)},
		{Product: "Alface", Prices: cents(200)},
	})
	lines := strings.Split(csv, "\n")
	if !strings.HasPrefix(lines[1], "BANANA;") || !strings.HasPrefix(lines[2], "ALFACE;") {
		t.Fatalf("input order not preserved: %v", lines[1:3])
	}
}

func TestBuildCSVEmpty(t *testing.T) {
	if got := BuildCSV(nil); got != "" {
		t.Fatalf("empty input must yield empty content, got %q", got)
	}
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1718000000000)
	if got := Filename(now); got != "pesquisa_1718000000000.csv" {
		t.Fatalf("got %q", got)
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := &FileSink{Dir: dir}

	content := BuildCSV([]core.ProductRecord{{Product: "Tomate", Prices: cents(150)}})
	if err := sink.SaveAndShare(context.Background(), content, "pesquisa_1.csv"); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "pesquisa_1.csv"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != content {
		t.Fatal("written content differs")
	}
}
