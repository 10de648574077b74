package serializer

import (
	"strconv"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
	"github.com/mailru/easyjson/jwriter"
)

// NewFastSerializer creates a new serializer that decodes with jsonparser and
// encodes with a hand written easyjson writer, without reflection.
func NewFastSerializer() IRPCSerializer {
	return &fastSerializerImpl{}
}

// fastSerializerImpl implements the IRPCSerializer interface using jsonparser and jwriter
type fastSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (f fastSerializerImpl) EncodePerson(p model.Person) ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"id":`)
	w.Uint32(p.ID)
	w.RawString(`,"email":`)
	w.String(p.Email)
	w.RawString(`,"first_name":`)
	w.String(p.FirstName)
	w.RawString(`,"last_name":`)
	w.String(p.LastName)
	w.RawString(`,"gender":`)
	w.String(p.Gender.String())
	w.RawString(`,"birth_date":`)
	w.Int64(p.BirthDate)
	w.RawByte('}')
	return w.BuildBytes()
}

func (f fastSerializerImpl) EncodePlace(p model.Place) ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"id":`)
	w.Uint32(p.ID)
	w.RawString(`,"place":`)
	w.String(p.Place)
	w.RawString(`,"country":`)
	w.String(p.Country)
	w.RawString(`,"city":`)
	w.String(p.City)
	w.RawString(`,"distance":`)
	w.Uint32(p.Distance)
	w.RawByte('}')
	return w.BuildBytes()
}

func (f fastSerializerImpl) EncodeVisit(v model.VisitEvent) ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"id":`)
	w.Uint32(v.ID)
	w.RawString(`,"location":`)
	w.Uint32(v.Place)
	w.RawString(`,"user":`)
	w.Uint32(v.Person)
	w.RawString(`,"visited_at":`)
	w.Int64(v.VisitedAt)
	w.RawString(`,"mark":`)
	w.Uint8(v.Mark)
	w.RawByte('}')
	return w.BuildBytes()
}

func (f fastSerializerImpl) EncodeVisits(visits []model.VisitInfo) ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"visits":[`)
	for i, v := range visits {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawString(`{"mark":`)
		w.Uint8(v.Mark)
		w.RawString(`,"visited_at":`)
		w.Int64(v.VisitedAt)
		w.RawString(`,"place":`)
		w.String(v.Place)
		w.RawByte('}')
	}
	w.RawString(`]}`)
	return w.BuildBytes()
}

func (f fastSerializerImpl) EncodeAverage(avg float64) ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"avg":`)
	w.RawString(strconv.FormatFloat(avg, 'f', -1, 64))
	w.RawByte('}')
	return w.BuildBytes()
}

func (f fastSerializerImpl) EncodePersonUpdate(u model.PersonUpdate) ([]byte, error) {
	o := objectWriter{}
	if u.Email != nil {
		o.field(fieldEmail).String(*u.Email)
	}
	if u.FirstName != nil {
		o.field(fieldFirstName).String(*u.FirstName)
	}
	if u.LastName != nil {
		o.field(fieldLastName).String(*u.LastName)
	}
	if u.Gender != nil {
		o.field(fieldGender).String(u.Gender.String())
	}
	if u.BirthDate != nil {
		o.field(fieldBirthDate).Int64(*u.BirthDate)
	}
	return o.build()
}

func (f fastSerializerImpl) EncodePlaceUpdate(u model.PlaceUpdate) ([]byte, error) {
	o := objectWriter{}
	if u.Place != nil {
		o.field(fieldPlace).String(*u.Place)
	}
	if u.Country != nil {
		o.field(fieldCountry).String(*u.Country)
	}
	if u.City != nil {
		o.field(fieldCity).String(*u.City)
	}
	if u.Distance != nil {
		o.field(fieldDistance).Uint32(*u.Distance)
	}
	return o.build()
}

func (f fastSerializerImpl) EncodeVisitUpdate(u model.VisitUpdate) ([]byte, error) {
	o := objectWriter{}
	if u.Place != nil {
		o.field(fieldLocation).Uint32(*u.Place)
	}
	if u.Person != nil {
		o.field(fieldUser).Uint32(*u.Person)
	}
	if u.VisitedAt != nil {
		o.field(fieldVisitedAt).Int64(*u.VisitedAt)
	}
	if u.Mark != nil {
		o.field(fieldMark).Uint8(*u.Mark)
	}
	return o.build()
}

func (f fastSerializerImpl) DecodePerson(data []byte) (model.Person, error) {
	return decodePerson(fastMembers, data)
}

func (f fastSerializerImpl) DecodePlace(data []byte) (model.Place, error) {
	return decodePlace(fastMembers, data)
}

func (f fastSerializerImpl) DecodeVisit(data []byte) (model.VisitEvent, error) {
	return decodeVisit(fastMembers, data)
}

func (f fastSerializerImpl) DecodePersonUpdate(data []byte) (model.PersonUpdate, error) {
	return decodePersonUpdate(fastMembers, data)
}

func (f fastSerializerImpl) DecodePlaceUpdate(data []byte) (model.PlaceUpdate, error) {
	return decodePlaceUpdate(fastMembers, data)
}

func (f fastSerializerImpl) DecodeVisitUpdate(data []byte) (model.VisitUpdate, error) {
	return decodeVisitUpdate(fastMembers, data)
}

func (f fastSerializerImpl) DecodeVisits(data []byte) ([]model.VisitInfo, error) {
	return decodeVisits(fastMembers, f.EachRecord, data)
}

func (f fastSerializerImpl) DecodeAverage(data []byte) (float64, error) {
	return decodeAverage(fastMembers, data)
}

func (f fastSerializerImpl) EachRecord(data []byte, key string, fn func(record []byte) error) error {
	var cbErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		switch {
		case cbErr != nil:
		case err != nil:
			cbErr = invalid("%s: %v", key, err)
		case dataType != jsonparser.Object:
			cbErr = invalid("%s: expected object, got %s", key, dataType)
		default:
			cbErr = fn(value)
		}
	}, key)
	if cbErr != nil {
		return cbErr
	}
	if err != nil {
		return invalid("%s: %v", key, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// jwriter helper
// --------------------------------------------------------------------------

// objectWriter writes a JSON object whose members are only known at runtime.
type objectWriter struct {
	w     jwriter.Writer
	count int
}

// field writes the separator and the name of the next member and returns the
// writer for its value.
func (o *objectWriter) field(name string) *jwriter.Writer {
	if o.count == 0 {
		o.w.RawByte('{')
	} else {
		o.w.RawByte(',')
	}
	o.count++
	o.w.String(name)
	o.w.RawByte(':')
	return &o.w
}

func (o *objectWriter) build() ([]byte, error) {
	if o.count == 0 {
		o.w.RawByte('{')
	}
	o.w.RawByte('}')
	return o.w.BuildBytes()
}

// --------------------------------------------------------------------------
// jsonparser access
// --------------------------------------------------------------------------

func fastMembers(data []byte, fn func(name string, v fieldValue) error) error {
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		return fn(string(key), fastValue{raw: value, dataType: dataType})
	})
	if err != nil && !errors.Is(err, ErrInvalid) {
		return invalid("%v", err)
	}
	return err
}

type fastValue struct {
	raw      []byte
	dataType jsonparser.ValueType
}

func (v fastValue) expect(t jsonparser.ValueType) error {
	if v.dataType != t {
		return errors.Newf("expected %s, got %s", t, v.dataType)
	}
	return nil
}

func (v fastValue) Int() (int64, error) {
	if err := v.expect(jsonparser.Number); err != nil {
		return 0, err
	}
	return jsonparser.ParseInt(v.raw)
}

func (v fastValue) Str() (string, error) {
	if err := v.expect(jsonparser.String); err != nil {
		return "", err
	}
	return jsonparser.ParseString(v.raw)
}

func (v fastValue) Float() (float64, error) {
	if err := v.expect(jsonparser.Number); err != nil {
		return 0, err
	}
	return jsonparser.ParseFloat(v.raw)
}
