package serializer

import (
	"testing"

	"github.com/ValentinKolb/travels/lib/model"
)

var (
	benchPerson = model.Person{ID: 1, Email: "wibylcudestiwuk@icloud.com", FirstName: "Пётр", LastName: "Фетатосян", Gender: model.GenderMale, BirthDate: -1720915200}
	benchVisits = func() []model.VisitInfo {
		visits := make([]model.VisitInfo, 50)
		for i := range visits {
			visits[i] = model.VisitInfo{Mark: uint8(i % 6), VisitedAt: int64(1e9 + i), Place: "Набережная"}
		}
		return visits
	}()
)

// BenchmarkEncode benchmarks encoding for all implementations
func BenchmarkEncode(b *testing.B) {
	for name, factory := range testSerializers {
		s := factory()
		b.Run(name+"_Person", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := s.EncodePerson(benchPerson); err != nil {
					b.Fatalf("Failed to encode: %v", err)
				}
			}
		})
		b.Run(name+"_Visits", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := s.EncodeVisits(benchVisits); err != nil {
					b.Fatalf("Failed to encode: %v", err)
				}
			}
		})
	}
}

// BenchmarkDecode benchmarks decoding for all implementations
func BenchmarkDecode(b *testing.B) {
	for name, factory := range testSerializers {
		s := factory()
		person, _ := s.EncodePerson(benchPerson)
		update := []byte(`{"first_name":"Анна","birth_date":0}`)

		b.Run(name+"_Person", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := s.DecodePerson(person); err != nil {
					b.Fatalf("Failed to decode: %v", err)
				}
			}
		})
		b.Run(name+"_PersonUpdate", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := s.DecodePersonUpdate(update); err != nil {
					b.Fatalf("Failed to decode: %v", err)
				}
			}
		})
	}
}
