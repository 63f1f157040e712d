package sistosched

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func sumOf[T Number](list []T) T {
	var sum T
	for _, val := range list {
		sum += val
	}
	return sum
}

func avg[T Number](list []T) float64 {
	if len(list) == 0 {
		return 0
	}
	return float64(sumOf(list)) / float64(len(list))
}

func clamp[T Number](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// enumName returns names[v], or kind(v) for a value outside the enum.
func enumName[T ~int](v T, kind string, names ...string) string {
	if v < 0 || int(v) >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, int(v))
	}
	return names[v]
}
