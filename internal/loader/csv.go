// Package loader reads the player dataset from CSV.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Jit017/iplauction/internal/domain"
)

var columns = []string{
	"id", "name", "role", "base_price", "min_price", "max_price",
	"rating", "popularity", "is_capped", "overseas",
}

// LoadFile reads players from a CSV file.
func LoadFile(path string) ([]*domain.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open player file: %w", err)
	}
	defer f.Close()
	players, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return players, nil
}

// Load reads players from CSV data. The first row must be the header;
// every row is validated before it is accepted.
func Load(r io.Reader) ([]*domain.Player, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var players []*domain.Player
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		p, err := parseRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: player %s: %w", line, p.ID, err)
		}
		players = append(players, p)
	}
	return players, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, want := range columns {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("missing column %q in header", want)
		}
	}
	return idx, nil
}

func parseRecord(record []string, idx map[string]int) (*domain.Player, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	role, err := domain.ParseRole(field("role"))
	if err != nil {
		return nil, err
	}

	base, err := decimal.NewFromString(field("base_price"))
	if err != nil {
		return nil, fmt.Errorf("base_price: %w", err)
	}
	min, err := decimal.NewFromString(field("min_price"))
	if err != nil {
		return nil, fmt.Errorf("min_price: %w", err)
	}
	max, err := decimal.NewFromString(field("max_price"))
	if err != nil {
		return nil, fmt.Errorf("max_price: %w", err)
	}

	rating, err := strconv.ParseFloat(field("rating"), 64)
	if err != nil {
		return nil, fmt.Errorf("rating: %w", err)
	}
	popularity, err := strconv.ParseFloat(field("popularity"), 64)
	if err != nil {
		return nil, fmt.Errorf("popularity: %w", err)
	}

	capped, err := strconv.ParseBool(field("is_capped"))
	if err != nil {
		return nil, fmt.Errorf("is_capped: %w", err)
	}
	overseas, err := strconv.ParseBool(field("overseas"))
	if err != nil {
		return nil, fmt.Errorf("overseas: %w", err)
	}

	return &domain.Player{
		ID:         field("id"),
		Name:       field("name"),
		Role:       role,
		BasePrice:  base,
		MinPrice:   min,
		MaxPrice:   max,
		Rating:     rating,
		Popularity: popularity,
		IsCapped:   capped,
		Overseas:   overseas,
	}, nil
}
