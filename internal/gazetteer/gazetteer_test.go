package gazetteer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PreservesOrderAndDuplicates(t *testing.T) {
	g := New([]Row{
		{Zip: "02139", City: "CAMBRIDGE", State: "MA"},
		{Zip: "02108", City: "BOSTON", State: "MA"},
		{Zip: "02139", City: "CAMBRIDGEPORT", State: "MA"},
		{Zip: "02138", City: "CAMBRIDGE", State: "MA"},
	})

	assert.Equal(t, []string{"CAMBRIDGE", "BOSTON", "CAMBRIDGEPORT", "CAMBRIDGE"}, g.CitiesInState("MA"))
	assert.Equal(t, []string{"CAMBRIDGE", "CAMBRIDGEPORT"}, g.CitiesForZip("02139"))
	assert.Equal(t, "CAMBRIDGE", g.FirstCityForZip("02139"))
	assert.Equal(t, 4, g.Len())
}

func TestLookups_Missing(t *testing.T) {
	g := New([]Row{{Zip: "02139", City: "CAMBRIDGE", State: "MA"}})

	assert.Empty(t, g.CitiesInState("ZZ"))
	assert.Empty(t, g.CitiesForZip("99999"))
	assert.Equal(t, "", g.FirstCityForZip("99999"))
	assert.False(t, g.HasState("ZZ"))
	assert.True(t, g.HasState("MA"))
}

func TestRead(t *testing.T) {
	table := "02139,CAMBRIDGE,MA\n63130,UNIVERSITY CITY,MO\n"
	g, err := Read(strings.NewReader(table))
	require.NoError(t, err)

	assert.Equal(t, []string{"MA", "MO"}, g.States())
	assert.Equal(t, "UNIVERSITY CITY", g.FirstCityForZip("63130"))
}

func TestRead_KeepsLeadingZeros(t *testing.T) {
	g, err := Read(strings.NewReader("01002,AMHERST,MA\n"))
	require.NoError(t, err)
	assert.Equal(t, "AMHERST", g.FirstCityForZip("01002"))
	assert.Empty(t, g.CitiesForZip("1002"))
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{"empty", ""},
		{"wrong field count", "02139,CAMBRIDGE\n"},
		{"blank city", "02139,,MA\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.table))
			assert.Error(t, err)
		})
	}
}

func TestRead_EmptyIsErrEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDefault(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 138, g.Len())
	assert.Len(t, g.CitiesInState("MA"), 63)
	assert.Equal(t, "CAMBRIDGE", g.FirstCityForZip("02139"))
	assert.Equal(t, "JAMAICA PLAIN", g.FirstCityForZip("02130"))
	assert.Contains(t, g.CitiesInState("MO"), "UNIVERSITY CITY")
	for _, state := range []string{"MA", "MO", "CA", "MD", "ME"} {
		assert.True(t, g.HasState(state), "expected state %s", state)
	}
}

func TestDefault_SampleCoverage(t *testing.T) {
	g, err := Default()
	require.NoError(t, err)

	assert.Len(t, g.States(), 34)
	assert.False(t, g.HasState("KS"))
	assert.False(t, g.HasState("LA"))
}

func TestOpen_PathReplacesEmbeddedTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zips.csv")
	require.NoError(t, os.WriteFile(path, []byte("67202,WICHITA,KS\n"), 0o644))

	g, err := Open(path)
	require.NoError(t, err)
	assert.True(t, g.HasState("KS"))
	assert.False(t, g.HasState("MA"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zips.csv")
	require.NoError(t, os.WriteFile(path, []byte("04901,WATERVILLE,ME\n"), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"WATERVILLE"}, g.CitiesInState("ME"))
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_EmptyPathUsesEmbeddedTable(t *testing.T) {
	g, err := Open("")
	require.NoError(t, err)
	assert.True(t, g.HasState("MA"))
}
