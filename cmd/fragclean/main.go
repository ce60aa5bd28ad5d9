// fragclean turns a raw Fragrantica scrape into the catalog snapshot
// consumed by fragrec. It infers gender, extracts brand and perfume
// names from Fragrantica URLs, normalizes accords, and synthesizes
// deterministic PLN price ranges and longevity/sillage figures mildly
// correlated with rating.
//
// Usage:
//
//	fragclean -in raw_fragrantica.csv -out perfumes.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type config struct {
	inPath  string
	outPath string
	seed    int64
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.inPath, "in", "raw_fragrantica.csv", "raw scrape CSV path")
	flag.StringVar(&cfg.outPath, "out", filepath.Join("data", "perfumes.csv"), "cleaned catalog output path")
	flag.Int64Var(&cfg.seed, "seed", 2025, "seed for synthetic price/longevity fields")
	flag.Parse()
	return cfg
}

var outputHeader = []string{
	"brand", "name", "gender",
	"price_min", "price_max",
	"main_accords",
	"longevity", "sillage",
	"description",
	"rating_value", "rating_count",
	"url",
}

func run(cfg config) error {
	in, err := os.Open(cfg.inPath)
	if err != nil {
		return fmt.Errorf("open raw file: %w", err)
	}
	defer in.Close()

	rows, err := readRawRows(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.inPath, err)
	}
	log.Printf("read %d raw rows from %s", len(rows), cfg.inPath)

	rng := rand.New(rand.NewSource(cfg.seed))
	cleaned := make([][]string, 0, len(rows))
	seen := make(map[string]struct{})
	dropped := 0

	for _, raw := range rows {
		rec, ok := cleanRow(raw, rng)
		if !ok {
			dropped++
			continue
		}
		key := strings.ToLower(rec.brand) + "\x00" + strings.ToLower(rec.name)
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}

		cleaned = append(cleaned, []string{
			rec.brand, rec.name, rec.gender,
			strconv.Itoa(rec.priceMin), strconv.Itoa(rec.priceMax),
			rec.accords,
			strconv.Itoa(rec.longevity), strconv.Itoa(rec.sillage),
			rec.description,
			strconv.FormatFloat(rec.ratingValue, 'f', 2, 64), strconv.Itoa(rec.ratingCount),
			rec.url,
		})
	}

	if err := os.MkdirAll(filepath.Dir(cfg.outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := os.Create(cfg.outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(outputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(cleaned); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	log.Printf("saved %s | rows: %d, dropped: %d", cfg.outPath, len(cleaned), dropped)
	return nil
}

// rawRow carries the tolerated subset of scrape columns.
type rawRow struct {
	name        string
	gender      string
	accords     string
	description string
	url         string
	ratingValue string
	ratingCount string
}

// readRawRows reads the scrape with tolerant column-name handling:
// "Rating Value" and "rating_value" are both accepted, and so on.
func readRawRows(r io.Reader) ([]rawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	pick := func(record []string, names ...string) string {
		for _, n := range names {
			if i, ok := cols[n]; ok && i < len(record) {
				return record[i]
			}
		}
		return ""
	}

	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("missing required column \"name\" (found: %s)", strings.Join(header, ", "))
	}

	var rows []rawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, rawRow{
			name:        pick(record, "name"),
			gender:      pick(record, "gender"),
			accords:     pick(record, "main accords", "main_accords", "accords"),
			description: pick(record, "description"),
			url:         pick(record, "url"),
			ratingValue: pick(record, "rating value", "rating_value"),
			ratingCount: pick(record, "rating count", "rating_count"),
		})
	}
	return rows, nil
}

// cleanedRow is one output record.
type cleanedRow struct {
	brand       string
	name        string
	gender      string
	priceMin    int
	priceMax    int
	accords     string
	longevity   int
	sillage     int
	description string
	ratingValue float64
	ratingCount int
	url         string
}

// cleanRow normalizes one scrape row. Returns false for rows without
// usable identity fields; those are dropped, never defaulted.
func cleanRow(raw rawRow, rng *rand.Rand) (cleanedRow, bool) {
	brand, name := parseBrandNameFromURL(raw.url)
	if brand == "" || name == "" {
		brand, name = fallbackBrandName(raw.name)
	}
	accords := normalizeAccords(raw.accords)
	if strings.TrimSpace(brand) == "" || strings.TrimSpace(name) == "" || accords == "" {
		return cleanedRow{}, false
	}

	rating := clampFloat(parseFloatDefault(raw.ratingValue, 0), 0, 5)
	count := int(parseFloatDefault(raw.ratingCount, 0))
	if count < 0 {
		count = 0
	}

	// Price ranges in PLN, stable RNG, gently correlated with rating.
	baseMin := 150 + rng.Intn(750)
	bonus := 0.0
	if rating > 3.5 {
		bonus = (rating - 3.5) * float64(20+rng.Intn(60))
	}
	priceMin := baseMin + int(bonus+0.5)
	priceMax := priceMin + 120 + rng.Intn(580)

	// Longevity/sillage 2-5, biased up for highly rated perfumes.
	bias := 0
	if rating >= 4.4 {
		bias = 1
	}
	longevity := clampInt(2+rng.Intn(4)+bias, 2, 5)
	sillage := clampInt(2+rng.Intn(4)+bias, 2, 5)

	return cleanedRow{
		brand:       brand,
		name:        name,
		gender:      string(inferGender(raw.gender, raw.name, raw.description)),
		priceMin:    priceMin,
		priceMax:    priceMax,
		accords:     accords,
		longevity:   longevity,
		sillage:     sillage,
		description: oneLiner(raw.description),
		ratingValue: rating,
		ratingCount: count,
		url:         raw.url,
	}, true
}

func parseFloatDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
