package aggregation

import (
	"justfair/pkg/contracts/domain"
)

var testOrder = []string{"Above", "Within", "Below", "Missing"}

// row builds a case row; factors come as name/value pairs
func row(year int, outcome string, factors ...string) domain.CaseRow {
	r := domain.CaseRow{Year: year, Outcome: outcome, Factors: map[domain.Field]string{}}
	for i := 0; i+1 < len(factors); i += 2 {
		r.Factors[domain.Field(factors[i])] = factors[i+1]
	}
	return r
}

// scenarioRows is the four-row dataset used across the package tests
func scenarioRows() []domain.CaseRow {
	return []domain.CaseRow{
		row(2020, "Above"),
		row(2020, "Within"),
		row(2020, "Within"),
		row(2021, "Below"),
	}
}

// factorRows mixes two factors over three years
func factorRows() []domain.CaseRow {
	return []domain.CaseRow{
		row(2019, "Above", "race", "White", "sex", "M"),
		row(2019, "Within", "race", "Black", "sex", "F"),
		row(2019, "Within", "race", "White", "sex", "F"),
		row(2020, "Below", "race", "Black", "sex", "M"),
		row(2020, "Within", "race", "Black", "sex", "M"),
		row(2020, "Above", "race", "White", "sex", "M"),
		row(2021, "Missing", "race", "Asian", "sex", "F"),
		row(2021, "Within", "race", "White", "sex", "F"),
		row(2021, "Below", "race", "Black", "sex", "F"),
	}
}
