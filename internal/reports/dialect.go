package reports

import "fmt"

// The engine runs on MySQL in deployment and SQLite in tests; the two
// disagree on date-part extraction, so the fragments are picked per dialect
// once at construction.
type exprs struct {
	sqlite bool
}

const revenueExpr = "(selling_price * quantity)"

func (x exprs) year(col string) string {
	if x.sqlite {
		return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("YEAR(%s)", col)
}

func (x exprs) month(col string) string {
	if x.sqlite {
		return fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("MONTH(%s)", col)
}

func (x exprs) day(col string) string {
	if x.sqlite {
		return fmt.Sprintf("CAST(strftime('%%d', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("DAY(%s)", col)
}

func (x exprs) hour(col string) string {
	if x.sqlite {
		return fmt.Sprintf("CAST(strftime('%%H', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("HOUR(%s)", col)
}

// weekday is 0-6. MySQL counts from Monday, SQLite from Sunday; reports
// treat the value as a label so the offset is tolerated.
func (x exprs) weekday(col string) string {
	if x.sqlite {
		return fmt.Sprintf("CAST(strftime('%%w', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("WEEKDAY(%s)", col)
}

// monthLabel yields "2026-08" style group keys.
func (x exprs) monthLabel(col string) string {
	if x.sqlite {
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", col)
	}
	return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m')", col)
}

// weekLabel yields "2026-34" style group keys.
func (x exprs) weekLabel(col string) string {
	if x.sqlite {
		return fmt.Sprintf("strftime('%%Y-%%W', %s)", col)
	}
	return fmt.Sprintf("DATE_FORMAT(%s, '%%x-%%v')", col)
}

// date truncates to the calendar day; DATE() parses on both engines.
func (x exprs) date(col string) string {
	return fmt.Sprintf("DATE(%s)", col)
}
