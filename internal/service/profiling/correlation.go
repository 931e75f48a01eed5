package profiling

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/profile"
)

// correlationMatrix computes pairwise Pearson correlation over the
// numeric columns, dropping rows where either value is null. Returns
// nil when fewer than two numeric columns exist.
func correlationMatrix(ds *dataset.Dataset) (map[string]map[string]float64, []string) {
	var numeric []*dataset.Column
	for _, col := range ds.Columns() {
		if col.Kind() == dataset.KindNumeric {
			numeric = append(numeric, col)
		}
	}
	if len(numeric) < 2 {
		return nil, nil
	}

	names := make([]string, len(numeric))
	matrix := make(map[string]map[string]float64, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name()
		matrix[col.Name()] = make(map[string]float64, len(numeric))
		matrix[col.Name()][col.Name()] = 1
	}

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r := pairwiseCorrelation(numeric[i], numeric[j])
			matrix[names[i]][names[j]] = r
			matrix[names[j]][names[i]] = r
		}
	}

	return matrix, names
}

func pairwiseCorrelation(a, b *dataset.Column) float64 {
	xs := make([]float64, 0, a.Len())
	ys := make([]float64, 0, a.Len())
	for i := 0; i < a.Len(); i++ {
		x, okA := a.Float(i)
		y, okB := b.Float(i)
		if okA && okB {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	return stat.Correlation(xs, ys, nil)
}

// highCorrelations extracts pairs with |r| at or above the threshold,
// sorted by descending absolute correlation. Column-index order breaks
// ties because the generation order is preserved by the stable sort.
func highCorrelations(matrix map[string]map[string]float64, names []string, threshold float64) []profile.CorrelationPair {
	var pairs []profile.CorrelationPair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			r := matrix[names[i]][names[j]]
			if !math.IsNaN(r) && math.Abs(r) >= threshold {
				pairs = append(pairs, profile.CorrelationPair{
					Column1:     names[i],
					Column2:     names[j],
					Correlation: r,
				})
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Correlation) > math.Abs(pairs[b].Correlation)
	})

	return pairs
}
