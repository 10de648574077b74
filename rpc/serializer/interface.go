package serializer

import (
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/cockroachdb/errors"
)

// IRPCSerializer is the interface for all wire codecs.
// Every decode error wraps ErrInvalid.
type IRPCSerializer interface {
	// EncodePerson encodes a person as {"id","email","first_name","last_name","gender","birth_date"}
	EncodePerson(p model.Person) ([]byte, error)
	// EncodePlace encodes a place as {"id","place","country","city","distance"}
	EncodePlace(p model.Place) ([]byte, error)
	// EncodeVisit encodes a visit as {"id","location","user","visited_at","mark"}
	EncodeVisit(v model.VisitEvent) ([]byte, error)
	// EncodeVisits encodes a person-visits result as {"visits":[{"mark","visited_at","place"}]}
	EncodeVisits(visits []model.VisitInfo) ([]byte, error)
	// EncodeAverage encodes a place-average result as {"avg":x}
	EncodeAverage(avg float64) ([]byte, error)

	// EncodePersonUpdate encodes the present fields of a partial person.
	EncodePersonUpdate(u model.PersonUpdate) ([]byte, error)
	// EncodePlaceUpdate encodes the present fields of a partial place.
	EncodePlaceUpdate(u model.PlaceUpdate) ([]byte, error)
	// EncodeVisitUpdate encodes the present fields of a partial visit.
	EncodeVisitUpdate(u model.VisitUpdate) ([]byte, error)

	// DecodePerson decodes a full person, every field is required.
	DecodePerson(data []byte) (model.Person, error)
	// DecodePlace decodes a full place, every field is required.
	DecodePlace(data []byte) (model.Place, error)
	// DecodeVisit decodes a full visit, every field is required.
	DecodeVisit(data []byte) (model.VisitEvent, error)

	// DecodePersonUpdate decodes a partial person. Absent fields stay nil, an id is rejected.
	DecodePersonUpdate(data []byte) (model.PersonUpdate, error)
	// DecodePlaceUpdate decodes a partial place. Absent fields stay nil, an id is rejected.
	DecodePlaceUpdate(data []byte) (model.PlaceUpdate, error)
	// DecodeVisitUpdate decodes a partial visit. Absent fields stay nil, an id is rejected.
	DecodeVisitUpdate(data []byte) (model.VisitUpdate, error)

	// DecodeVisits decodes the output of EncodeVisits.
	DecodeVisits(data []byte) ([]model.VisitInfo, error)
	// DecodeAverage decodes the output of EncodeAverage.
	DecodeAverage(data []byte) (float64, error)

	// EachRecord calls fn with the raw JSON of every element of the array stored
	// under key in the object data. It stops at the first error returned by fn.
	EachRecord(data []byte, key string, fn func(record []byte) error) error
}

// ErrInvalid marks a payload that could not be decoded.
var ErrInvalid = errors.New("invalid payload")

// invalid returns an error wrapping ErrInvalid.
func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, format, args...)
}

// New returns the serializer registered under name ("fast" or "std").
func New(name string) (IRPCSerializer, error) {
	switch name {
	case "fast", "":
		return NewFastSerializer(), nil
	case "std":
		return NewStdSerializer(), nil
	default:
		return nil, errors.Newf("unknown serializer %q (expected fast or std)", name)
	}
}

// --------------------------------------------------------------------------
// Field names
// --------------------------------------------------------------------------

const (
	fieldID        = "id"
	fieldEmail     = "email"
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	fieldGender    = "gender"
	fieldBirthDate = "birth_date"

	fieldPlace    = "place"
	fieldCountry  = "country"
	fieldCity     = "city"
	fieldDistance = "distance"

	fieldLocation  = "location"
	fieldUser      = "user"
	fieldVisitedAt = "visited_at"
	fieldMark      = "mark"

	fieldVisits = "visits"
	fieldAvg    = "avg"
)

var (
	personFields = []string{fieldID, fieldEmail, fieldFirstName, fieldLastName, fieldGender, fieldBirthDate}
	placeFields  = []string{fieldID, fieldPlace, fieldCountry, fieldCity, fieldDistance}
	visitFields  = []string{fieldID, fieldLocation, fieldUser, fieldVisitedAt, fieldMark}
)

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

// fieldSet tracks which fields of a record were seen.
type fieldSet map[string]bool

// missing returns the first of fields not in the set.
func (s fieldSet) missing(fields []string) (string, bool) {
	for _, f := range fields {
		if !s[f] {
			return f, true
		}
	}
	return "", false
}

func checkUint32(field string, v int64) (uint32, error) {
	if v < 0 || v > int64(^uint32(0)) {
		return 0, invalid("field %s: %d out of range", field, v)
	}
	return uint32(v), nil
}

func checkMark(v int64) (uint8, error) {
	if v < 0 || v > int64(model.MaxMark) {
		return 0, invalid("field %s: %d out of range 0..%d", fieldMark, v, model.MaxMark)
	}
	return uint8(v), nil
}

func parseGender(s string) (model.Gender, error) {
	g, err := model.ParseGender(s)
	if err != nil {
		return g, invalid("field %s: %v", fieldGender, err)
	}
	return g, nil
}
