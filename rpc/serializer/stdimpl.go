package serializer

import (
	"bytes"
	"encoding/json"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/cockroachdb/errors"
)

// NewStdSerializer creates a new serializer using encoding/json
func NewStdSerializer() IRPCSerializer {
	return &stdSerializerImpl{}
}

// stdSerializerImpl implements the IRPCSerializer interface using encoding/json.
// Field presence is detected by decoding objects into raw messages first.
type stdSerializerImpl struct {
}

type personWire struct {
	ID        uint32 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	BirthDate int64  `json:"birth_date"`
}

type placeWire struct {
	ID       uint32 `json:"id"`
	Place    string `json:"place"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Distance uint32 `json:"distance"`
}

type visitWire struct {
	ID        uint32 `json:"id"`
	Location  uint32 `json:"location"`
	User      uint32 `json:"user"`
	VisitedAt int64  `json:"visited_at"`
	Mark      uint8  `json:"mark"`
}

type visitInfoWire struct {
	Mark      uint8  `json:"mark"`
	VisitedAt int64  `json:"visited_at"`
	Place     string `json:"place"`
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (s stdSerializerImpl) EncodePerson(p model.Person) ([]byte, error) {
	return json.Marshal(personWire{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender.String(),
		BirthDate: p.BirthDate,
	})
}

func (s stdSerializerImpl) EncodePlace(p model.Place) ([]byte, error) {
	return json.Marshal(placeWire(p))
}

func (s stdSerializerImpl) EncodeVisit(v model.VisitEvent) ([]byte, error) {
	return json.Marshal(visitWire{
		ID:        v.ID,
		Location:  v.Place,
		User:      v.Person,
		VisitedAt: v.VisitedAt,
		Mark:      v.Mark,
	})
}

func (s stdSerializerImpl) EncodeVisits(visits []model.VisitInfo) ([]byte, error) {
	out := struct {
		Visits []visitInfoWire `json:"visits"`
	}{Visits: make([]visitInfoWire, len(visits))}
	for i, v := range visits {
		out.Visits[i] = visitInfoWire(v)
	}
	return json.Marshal(out)
}

func (s stdSerializerImpl) EncodeAverage(avg float64) ([]byte, error) {
	return json.Marshal(struct {
		Avg float64 `json:"avg"`
	}{Avg: avg})
}

func (s stdSerializerImpl) EncodePersonUpdate(u model.PersonUpdate) ([]byte, error) {
	var gender *string
	if u.Gender != nil {
		g := u.Gender.String()
		gender = &g
	}
	return json.Marshal(struct {
		Email     *string `json:"email,omitempty"`
		FirstName *string `json:"first_name,omitempty"`
		LastName  *string `json:"last_name,omitempty"`
		Gender    *string `json:"gender,omitempty"`
		BirthDate *int64  `json:"birth_date,omitempty"`
	}{u.Email, u.FirstName, u.LastName, gender, u.BirthDate})
}

func (s stdSerializerImpl) EncodePlaceUpdate(u model.PlaceUpdate) ([]byte, error) {
	return json.Marshal(struct {
		Place    *string `json:"place,omitempty"`
		Country  *string `json:"country,omitempty"`
		City     *string `json:"city,omitempty"`
		Distance *uint32 `json:"distance,omitempty"`
	}{u.Place, u.Country, u.City, u.Distance})
}

func (s stdSerializerImpl) EncodeVisitUpdate(u model.VisitUpdate) ([]byte, error) {
	return json.Marshal(struct {
		Location  *uint32 `json:"location,omitempty"`
		User      *uint32 `json:"user,omitempty"`
		VisitedAt *int64  `json:"visited_at,omitempty"`
		Mark      *uint8  `json:"mark,omitempty"`
	}{u.Place, u.Person, u.VisitedAt, u.Mark})
}

func (s stdSerializerImpl) DecodePerson(data []byte) (model.Person, error) {
	return decodePerson(stdMembers, data)
}

func (s stdSerializerImpl) DecodePlace(data []byte) (model.Place, error) {
	return decodePlace(stdMembers, data)
}

func (s stdSerializerImpl) DecodeVisit(data []byte) (model.VisitEvent, error) {
	return decodeVisit(stdMembers, data)
}

func (s stdSerializerImpl) DecodePersonUpdate(data []byte) (model.PersonUpdate, error) {
	return decodePersonUpdate(stdMembers, data)
}

func (s stdSerializerImpl) DecodePlaceUpdate(data []byte) (model.PlaceUpdate, error) {
	return decodePlaceUpdate(stdMembers, data)
}

func (s stdSerializerImpl) DecodeVisitUpdate(data []byte) (model.VisitUpdate, error) {
	return decodeVisitUpdate(stdMembers, data)
}

func (s stdSerializerImpl) DecodeVisits(data []byte) ([]model.VisitInfo, error) {
	return decodeVisits(stdMembers, s.EachRecord, data)
}

func (s stdSerializerImpl) DecodeAverage(data []byte) (float64, error) {
	return decodeAverage(stdMembers, data)
}

func (s stdSerializerImpl) EachRecord(data []byte, key string, fn func(record []byte) error) error {
	obj, err := stdObject(data)
	if err != nil {
		return err
	}
	raw, ok := obj[key]
	if !ok {
		return invalid("%s: key not found", key)
	}
	if isNull(raw) {
		return invalid("%s: expected array, got null", key)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return invalid("%s: %v", key, err)
	}
	for _, record := range records {
		if len(record) == 0 || record[0] != '{' {
			return invalid("%s: expected object", key)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// encoding/json access
// --------------------------------------------------------------------------

var jsonNull = []byte("null")

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(raw, jsonNull)
}

func stdObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, invalid("%v", err)
	}
	if obj == nil {
		return nil, invalid("expected object, got null")
	}
	return obj, nil
}

func stdMembers(data []byte, fn func(name string, v fieldValue) error) error {
	obj, err := stdObject(data)
	if err != nil {
		return err
	}
	for name, raw := range obj {
		if err := fn(name, stdValue(raw)); err != nil {
			return err
		}
	}
	return nil
}

type stdValue json.RawMessage

func (v stdValue) decode(target interface{}) error {
	if isNull(json.RawMessage(v)) {
		return errors.New("unexpected null")
	}
	return json.Unmarshal(v, target)
}

func (v stdValue) Int() (n int64, err error) {
	err = v.decode(&n)
	return n, err
}

func (v stdValue) Str() (s string, err error) {
	err = v.decode(&s)
	return s, err
}

func (v stdValue) Float() (f float64, err error) {
	err = v.decode(&f)
	return f, err
}
