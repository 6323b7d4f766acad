package quant

import "fmt"

// AlignmentError reports a structurally broken price matrix: dates out of
// order or duplicated. It cannot be recovered locally; the caller must
// re-fetch or re-sort the matrix.
type AlignmentError struct {
	Index  int
	Detail string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("price matrix alignment at index %d: %s", e.Index, e.Detail)
}

// DataQualityError reports a symbol with too few valid observations after
// cleaning. The symbol is excluded; siblings proceed.
type DataQualityError struct {
	Symbol   string
	ValidObs int
	Required int
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("symbol %s: %d valid observations, need %d", e.Symbol, e.ValidObs, e.Required)
}

// DegenerateInputError reports a return series with zero variance, which
// leaves the Sharpe ratio undefined. Surfaced per symbol instead of a
// silent NaN or Inf.
type DegenerateInputError struct {
	Symbol string
	Detail string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("symbol %s: degenerate input: %s", e.Symbol, e.Detail)
}
