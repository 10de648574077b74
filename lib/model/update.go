package model

// --------------------------------------------------------------------------
// Partial updates
// --------------------------------------------------------------------------

// Partial updates use pointer fields: nil means "not supplied", any non nil
// value (including zero values) is applied.

// PersonUpdate holds the fields of a person that should be changed.
type PersonUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Gender    *Gender
	BirthDate *int64
}

// Empty reports whether no field is set.
func (u PersonUpdate) Empty() bool {
	return u.Email == nil && u.FirstName == nil && u.LastName == nil && u.Gender == nil && u.BirthDate == nil
}

// Apply writes all present fields onto p.
func (u PersonUpdate) Apply(p *Person) {
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.BirthDate != nil {
		p.BirthDate = *u.BirthDate
	}
}

// DropZero clears every field holding its type's zero value. This reproduces the
// legacy convention where a zero or empty value meant "not supplied". Gender has
// no zero state and is kept.
func (u PersonUpdate) DropZero() PersonUpdate {
	return PersonUpdate{
		Email:     nonZero(u.Email),
		FirstName: nonZero(u.FirstName),
		LastName:  nonZero(u.LastName),
		Gender:    u.Gender,
		BirthDate: nonZero(u.BirthDate),
	}
}

// PlaceUpdate holds the fields of a place that should be changed.
type PlaceUpdate struct {
	Place    *string
	Country  *string
	City     *string
	Distance *uint32
}

// Empty reports whether no field is set.
func (u PlaceUpdate) Empty() bool {
	return u.Place == nil && u.Country == nil && u.City == nil && u.Distance == nil
}

// Apply writes all present fields onto p.
func (u PlaceUpdate) Apply(p *Place) {
	if u.Place != nil {
		p.Place = *u.Place
	}
	if u.Country != nil {
		p.Country = *u.Country
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.Distance != nil {
		p.Distance = *u.Distance
	}
}

// DropZero see PersonUpdate.DropZero
func (u PlaceUpdate) DropZero() PlaceUpdate {
	return PlaceUpdate{
		Place:    nonZero(u.Place),
		Country:  nonZero(u.Country),
		City:     nonZero(u.City),
		Distance: nonZero(u.Distance),
	}
}

// VisitUpdate holds the fields of a visit that should be changed.
// Person and Place changes relocate the visit in the derived indices.
type VisitUpdate struct {
	Place     *uint32
	Person    *uint32
	VisitedAt *int64
	Mark      *uint8
}

// Empty reports whether no field is set.
func (u VisitUpdate) Empty() bool {
	return u.Place == nil && u.Person == nil && u.VisitedAt == nil && u.Mark == nil
}

// Apply writes all present fields onto v.
func (u VisitUpdate) Apply(v *VisitEvent) {
	if u.Place != nil {
		v.Place = *u.Place
	}
	if u.Person != nil {
		v.Person = *u.Person
	}
	if u.VisitedAt != nil {
		v.VisitedAt = *u.VisitedAt
	}
	if u.Mark != nil {
		v.Mark = *u.Mark
	}
}

// DropZero see PersonUpdate.DropZero
func (u VisitUpdate) DropZero() VisitUpdate {
	return VisitUpdate{
		Place:     nonZero(u.Place),
		Person:    nonZero(u.Person),
		VisitedAt: nonZero(u.VisitedAt),
		Mark:      nonZero(u.Mark),
	}
}

func nonZero[T comparable](v *T) *T {
	var zero T
	if v == nil || *v == zero {
		return nil
	}
	return v
}
