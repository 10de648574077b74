package model

import "github.com/cockroachdb/errors"

// --------------------------------------------------------------------------
// Gender
// --------------------------------------------------------------------------

// Gender is the gender of a person. It has exactly two values, GenderMale and
// GenderFemale, with the wire tokens "m" and "f". A gender that was not
// supplied is a nil *Gender in updates and filters, never a Gender value.
type Gender struct {
	female bool
}

var (
	GenderMale   = Gender{}             // wire token "m"
	GenderFemale = Gender{female: true} // wire token "f"
)

// String returns the wire token of the gender.
func (g Gender) String() string {
	if g.female {
		return "f"
	}
	return "m"
}

// ParseGender converts a wire token into a Gender. Only "m" and "f" are accepted.
func ParseGender(s string) (Gender, error) {
	switch s {
	case "m":
		return GenderMale, nil
	case "f":
		return GenderFemale, nil
	default:
		return Gender{}, errors.Newf("invalid gender %q (expected m or f)", s)
	}
}

// --------------------------------------------------------------------------
// Entities
// --------------------------------------------------------------------------

// MaxMark is the highest rating a visit can carry.
const MaxMark uint8 = 100

// Person is a user of the service.
type Person struct {
	ID        uint32
	Email     string
	FirstName string
	LastName  string
	Gender    Gender
	BirthDate int64 // seconds since epoch, may be negative
}

// Place is a location that can be visited.
type Place struct {
	ID       uint32
	Place    string // display name
	Country  string
	City     string
	Distance uint32
}

// VisitEvent records that a person visited a place at a point in time and how they rated it.
type VisitEvent struct {
	ID        uint32
	Place     uint32
	Person    uint32
	VisitedAt int64
	Mark      uint8
}

// VisitInfo is the projection of a visit returned by the person-visits query.
type VisitInfo struct {
	Mark      uint8
	VisitedAt int64
	Place     string
}
