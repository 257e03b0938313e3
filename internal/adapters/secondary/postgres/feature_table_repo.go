package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"credit-scoring-api/internal/core/domain"
	ports "credit-scoring-api/internal/core/ports/output"
)

const pgUndefinedTable = "42P01"

type featureTableRepo struct {
	pool     *pgxpool.Pool
	table    string
	idColumn string
}

// NewFeatureTableRepository reads the whole feature table into memory on each load.
func NewFeatureTableRepository(pool *pgxpool.Pool, table, idColumn string) ports.FeatureTableRepository {
	return &featureTableRepo{pool: pool, table: table, idColumn: idColumn}
}

func (r *featureTableRepo) LoadTable(ctx context.Context) (*domain.FeatureTable, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{r.table}.Sanitize())

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, fmt.Errorf("%w: table %s", domain.ErrArtifactNotFound, r.table)
		}
		return nil, fmt.Errorf("query feature table: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var data [][]float64
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: scan row %d: %v", domain.ErrTableParse, len(data)+1, err)
		}
		row := make([]float64, len(values))
		for i, v := range values {
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %q: %v", domain.ErrTableParse, len(data)+1, columns[i], err)
			}
			row[i] = f
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, fmt.Errorf("%w: table %s", domain.ErrArtifactNotFound, r.table)
		}
		return nil, fmt.Errorf("read feature table: %w", err)
	}

	log.WithFields(log.Fields{
		"table": r.table,
		"rows":  len(data),
	}).Info("feature table read from postgres")

	return domain.NewFeatureTable(columns, data, r.idColumn)
}

// toFloat converts a decoded column value to float64; NULL becomes NaN.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case pgtype.Numeric:
		if !x.Valid || x.NaN {
			return math.NaN(), nil
		}
		f, err := x.Float64Value()
		if err != nil {
			return 0, err
		}
		return f.Float64, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unsupported column type %T", v)
	}
}
