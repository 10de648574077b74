package model

// VisitFilter narrows the person-visits query. A nil *VisitFilter means no
// filter was supplied; a non nil filter must set at least one field.
type VisitFilter struct {
	FromDate    *int64  // keep visits with VisitedAt > FromDate
	ToDate      *int64  // keep visits with VisitedAt < ToDate
	Country     *string // keep visits to places in this country
	MaxDistance *uint32 // keep visits to places with Distance < MaxDistance
}

// Empty reports whether no field is set.
func (f VisitFilter) Empty() bool {
	return f.FromDate == nil && f.ToDate == nil && f.Country == nil && f.MaxDistance == nil
}

// AverageFilter narrows the place-average query. Same nil semantics as VisitFilter.
type AverageFilter struct {
	FromDate *int64  // keep visits with VisitedAt > FromDate
	ToDate   *int64  // keep visits with VisitedAt < ToDate
	FromAge  *int    // keep visitors with age >= FromAge
	ToAge    *int    // keep visitors with age < ToAge
	Gender   *Gender // keep visitors of this gender, must be male or female
}

// Empty reports whether no field is set.
func (f AverageFilter) Empty() bool {
	return f.FromDate == nil && f.ToDate == nil && f.FromAge == nil && f.ToAge == nil && f.Gender == nil
}
