package csvtable

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-scoring-api/internal/adapters/secondary/artifact"
	"credit-scoring-api/internal/core/domain"
)

const sampleCSV = `SK_ID_CURR,Feature1,Feature2,Feature3
100001,1,4,7
100002,2,5,
100003,3,6,9
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleCSV), "SK_ID_CURR")
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"Feature1", "Feature2", "Feature3"}, table.FeatureColumns())

	rows, err := table.Lookup(100002)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0][0])
	assert.True(t, math.IsNaN(rows[0][2]), "empty cell is NaN")
}

func TestParse_FloatIdentifiers(t *testing.T) {
	table, err := Parse(strings.NewReader("SK_ID_CURR,A\n100001.0,1\n"), "SK_ID_CURR")
	require.NoError(t, err)

	rows, err := table.Lookup(100001)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParse_PandasIndexAndBooleans(t *testing.T) {
	table, err := Parse(strings.NewReader(",SK_ID_CURR,FLAG\n0,5,True\n1,6,False\n"), "SK_ID_CURR")
	require.NoError(t, err)

	assert.Equal(t, []string{"Unnamed: 0", "FLAG"}, table.FeatureColumns())
	rows, err := table.Lookup(5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, rows[0])
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"non numeric":      "SK_ID_CURR,A\n1,abc\n",
		"ragged row":       "SK_ID_CURR,A\n1,2,3\n",
		"duplicate column": "SK_ID_CURR,A,A\n1,2,3\n",
		"fractional id":    "SK_ID_CURR,A\n1.5,2\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc), "SK_ID_CURR")
			assert.ErrorIs(t, err, domain.ErrTableParse)
		})
	}
}

func TestParse_MissingIDColumnIsDeferred(t *testing.T) {
	table, err := Parse(strings.NewReader("Feature1,Feature2\n1,3\n"), "SK_ID_CURR")
	require.NoError(t, err)

	_, err = table.Lookup(1)
	assert.ErrorIs(t, err, domain.ErrIDColumnMissing)
}

func TestTableRepository_LoadTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/srv/app/data/df_test_reduit.csv", []byte(sampleCSV), 0o644))
	resolver := &artifact.Resolver{Fs: fs, BaseDirs: []string{"/srv/app/api", "/srv/app"}, SearchRoot: "/srv/app"}

	repo := NewTableRepository(resolver, "df_test_reduit.csv", "SK_ID_CURR")
	table, err := repo.LoadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestTableRepository_LoadTable_NotFound(t *testing.T) {
	resolver := &artifact.Resolver{Fs: afero.NewMemMapFs(), BaseDirs: []string{"/srv/app"}, SearchRoot: "/srv/app"}

	repo := NewTableRepository(resolver, "df_test_reduit.csv", "SK_ID_CURR")
	_, err := repo.LoadTable(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
