package csvtable

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"credit-scoring-api/internal/adapters/secondary/artifact"
	"credit-scoring-api/internal/core/domain"
	ports "credit-scoring-api/internal/core/ports/output"
)

type tableRepo struct {
	resolver *artifact.Resolver
	filename string
	idColumn string
}

// NewTableRepository loads the feature table from a CSV file located by resolver.
func NewTableRepository(resolver *artifact.Resolver, filename, idColumn string) ports.FeatureTableRepository {
	return &tableRepo{resolver: resolver, filename: filename, idColumn: idColumn}
}

func (r *tableRepo) LoadTable(ctx context.Context) (*domain.FeatureTable, error) {
	f, path, err := r.resolver.Open(r.filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.WithField("path", path).Info("loading feature table")

	table, err := Parse(f, r.idColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse reads a CSV document with a header row. Every data cell must be numeric;
// empty and NA-like cells become NaN.
func Parse(rd io.Reader, idColumn string) (*domain.FeatureTable, error) {
	cr := csv.NewReader(rd)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrTableParse)
		}
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrTableParse, err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column %q", domain.ErrTableParse, name)
		}
		seen[name] = true
		columns[i] = name
	}

	var rows [][]float64
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTableParse, err)
		}

		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %q: %v", domain.ErrTableParse, line, columns[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return domain.NewFeatureTable(columns, rows, idColumn)
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "na", "null", "none":
		return math.NaN(), nil
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}
