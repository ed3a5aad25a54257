package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bus-scraper/models"
	"bus-scraper/utils"
)

func TestReporterPrintsTopCandidatesAndBest(t *testing.T) {
	a := NewAnalyzer(utils.NewNopLogger(), DefaultWeights())
	res, err := a.Rank(offerTable(
		sameBus("VRL Sleeper", models.Row{models.ColPrice: "900"}),
		sameBus("VRL Seater", models.Row{models.ColPrice: "1100"}),
		sameBus("VRL Volvo", models.Row{models.ColPrice: "1600"}),
	))
	require.NoError(t, err)

	var buf bytes.Buffer
	NewReporter(&buf, 2).Print("Bangalore → Mumbai", res)
	out := buf.String()

	assert.Contains(t, out, "Bangalore → Mumbai")
	assert.Contains(t, out, "VRL Sleeper")
	assert.Contains(t, out, "VRL Seater")
	assert.NotContains(t, out, "VRL Volvo", "only the top 2 rows are shown")
	assert.Contains(t, out, "https://www.vrlbus.in/book/VRL Sleeper")
}

func TestReporterNoResult(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, 5).Print("empty.csv", nil)
	assert.Contains(t, buf.String(), "No offers to rank")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("x", 50)
	got := truncate(long, 10)
	assert.Equal(t, 10, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
