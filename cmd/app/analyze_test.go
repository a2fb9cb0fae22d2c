package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingCSV(days int) string {
	var b strings.Builder
	b.WriteString("date,price\n")
	for i := 0; i < days; i++ {
		// two quotes per day averaging to 100+i
		fmt.Fprintf(&b, "2024-01-%02d,%d\n", i+1, 99+i)
		fmt.Fprintf(&b, "2024-01-%02d,%d\n", i+1, 101+i)
	}
	return b.String()
}

func TestAnalyzeWritesCombinedJSON(t *testing.T) {
	var out bytes.Buffer
	err := analyze(context.Background(), &out, strings.NewReader(risingCSV(20)), config.Default(), "wheat", 7)
	require.NoError(t, err)

	var res models.CommodityAnalysis
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "wheat", res.Commodity)
	assert.Equal(t, 20, res.Points)
	assert.Len(t, res.Indicators, 20)
	require.NotNil(t, res.Forecast)
	assert.InDelta(t, 126, res.Forecast.PredictedPrice, 1e-9)
	assert.Empty(t, res.Errors)
}

func TestAnalyzeReportsShortHistory(t *testing.T) {
	var out bytes.Buffer
	err := analyze(context.Background(), &out, strings.NewReader(risingCSV(3)), config.Default(), "oats", 7)
	require.NoError(t, err)

	var res models.CommodityAnalysis
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Nil(t, res.Forecast)
	assert.Contains(t, res.Errors["forecast"], "insufficient data")
}

func TestAnalyzeBadCSV(t *testing.T) {
	err := analyze(context.Background(), &bytes.Buffer{}, strings.NewReader("2024-01-01,1\n2024-01-02,abc\n"), config.Default(), "x", 7)
	assert.Error(t, err)
}

func TestRootHasSubcommands(t *testing.T) {
	names := []string{}
	for _, c := range rootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "analyze"}, names)
}
