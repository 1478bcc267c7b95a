package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mica-backend/internal/models"
)

func TestBuildStackedSeries(t *testing.T) {
	stats := []*models.DailyCategoryStat{
		{
			StatDate:      "2026-08-01",
			ProducedBySub: map[string]float64{"10": 300, "11": 100},
		},
		{
			StatDate:      "2026-08-02",
			ProducedBySub: map[string]float64{"10": 50, "11": 150},
		},
	}

	points := BuildStackedSeries(stats)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-08-01", points[0].StatDate)
	assert.InDelta(t, 75, points[0].Percent["10"], 1e-9)
	assert.InDelta(t, 25, points[0].Percent["11"], 1e-9)

	assert.InDelta(t, 25, points[1].Percent["10"], 1e-9)
	assert.InDelta(t, 75, points[1].Percent["11"], 1e-9)
}

func TestBuildStackedSeriesZeroTotal(t *testing.T) {
	stats := []*models.DailyCategoryStat{
		{StatDate: "2026-08-03", ProducedBySub: map[string]float64{}},
	}

	points := BuildStackedSeries(stats)
	require.Len(t, points, 1)
	assert.Empty(t, points[0].Percent)
}

func TestBuildStackedSeriesPercentagesSumTo100(t *testing.T) {
	stats := []*models.DailyCategoryStat{
		{
			StatDate:      "2026-08-04",
			ProducedBySub: map[string]float64{"1": 33.3, "2": 41.7, "3": 12.5},
		},
	}

	points := BuildStackedSeries(stats)
	require.Len(t, points, 1)

	var sum float64
	for _, pct := range points[0].Percent {
		sum += pct
	}
	assert.InDelta(t, 100, sum, 1e-9)
}
