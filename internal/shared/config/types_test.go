package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "15m", want: 15 * time.Minute},
		{in: "1h30m", want: 90 * time.Minute},
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: " 2d ", want: 48 * time.Hour},
		{in: "0d", wantErr: true},
		{in: "-5m", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, Username: "app", Password: "p@ss", Database: "davomat"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/davomat?sslmode=disable&TimeZone=UTC", pg.GetDSN())

	my := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, Username: "app", Password: "pw", Database: "davomat"}
	assert.Equal(t, "app:pw@tcp(db:3306)/davomat?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true", my.GetDSN())

	lite := DatabaseConfig{Driver: "sqlite", Database: ":memory:"}
	assert.Equal(t, ":memory:", lite.GetDSN())
}

func TestJWTConfig_RefreshTTL(t *testing.T) {
	j := JWTConfig{RefreshTTLDays: 30, AccessTTL: "15m"}
	assert.Equal(t, 30*24*time.Hour, j.RefreshTTL())
	assert.Equal(t, 15*time.Minute, j.AccessTTLDuration())
}
