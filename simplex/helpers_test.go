package simplex

import (
	"testing"

	"github.com/stretchr/testify/require"
	"q.log/tableau/model"
)

var referenceLabels = []string{"Z", "x1", "x2", "x3", "x4", "x5", "x6", "RHS"}

// referenceRows is max 15x1 + 14x2 over four <= constraints, with the
// slacks x3..x6 basic.
func referenceRows() [][]float64 {
	return [][]float64{
		{1, -15, -14, 0, 0, 0, 0, 0},
		{0, 20, 10, 1, 0, 0, 0, 150},
		{0, 12, 8, 0, 1, 0, 0, 96},
		{0, 3, 4, 0, 0, 1, 0, 40},
		{0, 0, 1, 0, 0, 0, 1, 9},
	}
}

func reference(t *testing.T) *model.Tableau {
	t.Helper()
	return mustTableau(t, referenceRows(), referenceLabels)
}

func mustTableau(t *testing.T, rows [][]float64, labels []string) *model.Tableau {
	t.Helper()
	tab, err := model.NewTableau(rows, labels)
	require.NoError(t, err)
	return tab
}

func labels(names ...string) []string {
	return append(append([]string{"Z"}, names...), "RHS")
}
