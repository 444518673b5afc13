package main

import (
	"fmt"
	"strconv"
	"strings"

	"justfair/pkg/contracts/domain"
)

// parseFields splits a comma separated list of semantic field names
func parseFields(s string) []domain.Field {
	var fields []domain.Field
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, domain.Field(part))
		}
	}
	return fields
}

// parseYears accepts "2019,2021" and ranges such as "2015-2019", mixed
// freely. An empty string means no year filter and returns nil.
func parseYears(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if from, to, ok := strings.Cut(part, "-"); ok {
			a, err := strconv.Atoi(strings.TrimSpace(from))
			if err != nil {
				return nil, fmt.Errorf("invalid year range %q", part)
			}
			b, err := strconv.Atoi(strings.TrimSpace(to))
			if err != nil || b < a {
				return nil, fmt.Errorf("invalid year range %q", part)
			}
			for y := a; y <= b; y++ {
				years = append(years, y)
			}
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}
