package serializer

import (
	"github.com/ValentinKolb/travels/lib/model"
)

// fieldValue gives typed access to the raw value of one JSON object member.
// A JSON null is never a valid value.
type fieldValue interface {
	Int() (int64, error)
	Str() (string, error)
	Float() (float64, error)
}

// memberIter calls fn for every member of the JSON object data.
type memberIter func(data []byte, fn func(name string, v fieldValue) error) error

// --------------------------------------------------------------------------
// Field setters
// --------------------------------------------------------------------------

// The setters report whether name is a field of the record. Unknown fields are ignored.

func setPersonField(p *model.Person, name string, v fieldValue) (bool, error) {
	var err error
	switch name {
	case fieldID:
		p.ID, err = uint32Field(name, v)
	case fieldEmail:
		p.Email, err = stringField(name, v)
	case fieldFirstName:
		p.FirstName, err = stringField(name, v)
	case fieldLastName:
		p.LastName, err = stringField(name, v)
	case fieldGender:
		var s string
		if s, err = stringField(name, v); err == nil {
			p.Gender, err = parseGender(s)
		}
	case fieldBirthDate:
		p.BirthDate, err = intField(name, v)
	default:
		return false, nil
	}
	return true, err
}

func setPlaceField(p *model.Place, name string, v fieldValue) (bool, error) {
	var err error
	switch name {
	case fieldID:
		p.ID, err = uint32Field(name, v)
	case fieldPlace:
		p.Place, err = stringField(name, v)
	case fieldCountry:
		p.Country, err = stringField(name, v)
	case fieldCity:
		p.City, err = stringField(name, v)
	case fieldDistance:
		p.Distance, err = uint32Field(name, v)
	default:
		return false, nil
	}
	return true, err
}

func setVisitField(e *model.VisitEvent, name string, v fieldValue) (bool, error) {
	var err error
	switch name {
	case fieldID:
		e.ID, err = uint32Field(name, v)
	case fieldLocation:
		e.Place, err = uint32Field(name, v)
	case fieldUser:
		e.Person, err = uint32Field(name, v)
	case fieldVisitedAt:
		e.VisitedAt, err = intField(name, v)
	case fieldMark:
		var n int64
		if n, err = intField(name, v); err == nil {
			e.Mark, err = checkMark(n)
		}
	default:
		return false, nil
	}
	return true, err
}

func intField(name string, v fieldValue) (int64, error) {
	n, err := v.Int()
	if err != nil {
		return 0, invalid("field %s: %v", name, err)
	}
	return n, nil
}

func uint32Field(name string, v fieldValue) (uint32, error) {
	n, err := intField(name, v)
	if err != nil {
		return 0, err
	}
	return checkUint32(name, n)
}

func stringField(name string, v fieldValue) (string, error) {
	s, err := v.Str()
	if err != nil {
		return "", invalid("field %s: %v", name, err)
	}
	return s, nil
}

// --------------------------------------------------------------------------
// Full records
// --------------------------------------------------------------------------

func decodeRecord[T any](each memberIter, data []byte, required []string, set func(*T, string, fieldValue) (bool, error)) (T, error) {
	var rec T
	seen := fieldSet{}
	err := each(data, func(name string, v fieldValue) error {
		known, err := set(&rec, name, v)
		if known {
			seen[name] = true
		}
		return err
	})
	if err != nil {
		return rec, err
	}
	if f, ok := seen.missing(required); ok {
		return rec, invalid("missing field %s", f)
	}
	return rec, nil
}

func decodePerson(each memberIter, data []byte) (model.Person, error) {
	return decodeRecord(each, data, personFields, setPersonField)
}

func decodePlace(each memberIter, data []byte) (model.Place, error) {
	return decodeRecord(each, data, placeFields, setPlaceField)
}

func decodeVisit(each memberIter, data []byte) (model.VisitEvent, error) {
	return decodeRecord(each, data, visitFields, setVisitField)
}

// --------------------------------------------------------------------------
// Partial records
// --------------------------------------------------------------------------

// Updates decode into a scratch record and point the update fields at it.

func decodePersonUpdate(each memberIter, data []byte) (model.PersonUpdate, error) {
	var u model.PersonUpdate
	p := new(model.Person)
	err := each(data, func(name string, v fieldValue) error {
		if name == fieldID {
			return invalid("field %s can not be updated", name)
		}
		if known, err := setPersonField(p, name, v); !known || err != nil {
			return err
		}
		switch name {
		case fieldEmail:
			u.Email = &p.Email
		case fieldFirstName:
			u.FirstName = &p.FirstName
		case fieldLastName:
			u.LastName = &p.LastName
		case fieldGender:
			u.Gender = &p.Gender
		case fieldBirthDate:
			u.BirthDate = &p.BirthDate
		}
		return nil
	})
	return u, err
}

func decodePlaceUpdate(each memberIter, data []byte) (model.PlaceUpdate, error) {
	var u model.PlaceUpdate
	p := new(model.Place)
	err := each(data, func(name string, v fieldValue) error {
		if name == fieldID {
			return invalid("field %s can not be updated", name)
		}
		if known, err := setPlaceField(p, name, v); !known || err != nil {
			return err
		}
		switch name {
		case fieldPlace:
			u.Place = &p.Place
		case fieldCountry:
			u.Country = &p.Country
		case fieldCity:
			u.City = &p.City
		case fieldDistance:
			u.Distance = &p.Distance
		}
		return nil
	})
	return u, err
}

func decodeVisitUpdate(each memberIter, data []byte) (model.VisitUpdate, error) {
	var u model.VisitUpdate
	e := new(model.VisitEvent)
	err := each(data, func(name string, v fieldValue) error {
		if name == fieldID {
			return invalid("field %s can not be updated", name)
		}
		if known, err := setVisitField(e, name, v); !known || err != nil {
			return err
		}
		switch name {
		case fieldLocation:
			u.Place = &e.Place
		case fieldUser:
			u.Person = &e.Person
		case fieldVisitedAt:
			u.VisitedAt = &e.VisitedAt
		case fieldMark:
			u.Mark = &e.Mark
		}
		return nil
	})
	return u, err
}

// --------------------------------------------------------------------------
// Query results
// --------------------------------------------------------------------------

func decodeVisitInfo(each memberIter, data []byte) (model.VisitInfo, error) {
	var info model.VisitInfo
	err := each(data, func(name string, v fieldValue) error {
		var err error
		switch name {
		case fieldMark:
			var n int64
			if n, err = intField(name, v); err == nil {
				info.Mark, err = checkMark(n)
			}
		case fieldVisitedAt:
			info.VisitedAt, err = intField(name, v)
		case fieldPlace:
			info.Place, err = stringField(name, v)
		}
		return err
	})
	return info, err
}

func decodeVisits(each memberIter, records func([]byte, string, func([]byte) error) error, data []byte) ([]model.VisitInfo, error) {
	visits := []model.VisitInfo{}
	err := records(data, fieldVisits, func(record []byte) error {
		info, err := decodeVisitInfo(each, record)
		if err != nil {
			return err
		}
		visits = append(visits, info)
		return nil
	})
	return visits, err
}

func decodeAverage(each memberIter, data []byte) (float64, error) {
	var (
		avg  float64
		seen bool
	)
	err := each(data, func(name string, v fieldValue) error {
		if name != fieldAvg {
			return nil
		}
		f, err := v.Float()
		if err != nil {
			return invalid("field %s: %v", name, err)
		}
		avg, seen = f, true
		return nil
	})
	if err == nil && !seen {
		err = invalid("missing field %s", fieldAvg)
	}
	return avg, err
}
