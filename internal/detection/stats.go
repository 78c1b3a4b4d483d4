package detection

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/region-tree-mcp/internal/componenttree"
)

// AreaStatistics describes the distribution of region areas.
type AreaStatistics struct {
	Count  int     `json:"count"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// AreaStats computes area statistics over regions. The standard deviation
// is the unbiased sample estimate and is zero for fewer than two regions.
func AreaStats(regions []*componenttree.Region) AreaStatistics {
	areas := make([]float64, len(regions))
	for i, r := range regions {
		areas[i] = float64(r.Area())
	}
	return areaStats(areas)
}

// SummaryStats computes area statistics over already summarised regions.
func SummaryStats(summaries []RegionSummary) AreaStatistics {
	areas := make([]float64, len(summaries))
	for i, s := range summaries {
		areas[i] = float64(s.Area)
	}
	return areaStats(areas)
}

func areaStats(areas []float64) AreaStatistics {
	if len(areas) == 0 {
		return AreaStatistics{}
	}
	sort.Float64s(areas)

	s := AreaStatistics{
		Count:  len(areas),
		Min:    int(areas[0]),
		Max:    int(areas[len(areas)-1]),
		Mean:   stat.Mean(areas, nil),
		Median: stat.Quantile(0.5, stat.Empirical, areas, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, areas, nil),
	}
	if len(areas) > 1 {
		s.StdDev = stat.StdDev(areas, nil)
	}
	return s
}
