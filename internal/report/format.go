package report

import (
	"fmt"
	"strconv"
	"strings"
)

// formatFloat formats a percent with exactly 2 decimal places, so 13.4
// appears as 13.40
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = formatInt(y)
	}
	return strings.Join(parts, ", ")
}
