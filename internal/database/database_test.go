package database

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	got := dsn("assess", "p@ss:word", "db.example.com", "1521", "ASSESS_PDB", "")
	u, err := url.Parse(got)
	require.NoError(t, err)

	assert.Equal(t, "oracle", u.Scheme)
	assert.Equal(t, "db.example.com:1521", u.Host)
	assert.Equal(t, "/ASSESS_PDB", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss:word", pw)
}

func TestDSNWallet(t *testing.T) {
	got := dsn("assess", "secret", "adb.example.com", "1522", "svc_high", "/opt/wallet dir")
	assert.Contains(t, got, "ssl=true")
	assert.Contains(t, got, "wallet_location=%2Fopt%2Fwallet%20dir")
}

func TestSelectQuery(t *testing.T) {
	assert.Equal(t, "SELECT ROLL_YEAR, ROLL_NUMBER FROM ASSESS.LAND_DATA",
		selectQuery("ASSESS.LAND_DATA", "ROLL_YEAR", "ROLL_NUMBER"))
}

func TestValidTable(t *testing.T) {
	for _, name := range []string{"LAND_DATA", "assess.land_data", "T$1", "A#B"} {
		assert.True(t, validTable.MatchString(name), name)
	}
	for _, name := range []string{"", "1LAND", "LAND DATA", "LAND;DROP", "A.B.C", "land--"} {
		assert.False(t, validTable.MatchString(name), name)
	}
}

func TestNewDatabaseRejectsTableNames(t *testing.T) {
	_, err := NewDatabase(context.Background(), DBConfig{
		ConstructionTable: "YEAR_OF_CONSTRUCTION",
		LandTable:         "LAND; DROP TABLE X",
		AssessmentTable:   "ASSESSMENT",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestTimeoutDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, DBConfig{}.timeout())
	assert.Equal(t, 3*time.Second, DBConfig{Timeout: 3 * time.Second}.timeout())
}
