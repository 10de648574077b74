package loader

import (
	"fmt"
	"io/fs"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("loader")

// Decoder decodes batch files into records.
type Decoder interface {
	// EachRecord calls fn with the raw JSON of every element of the array stored under key.
	EachRecord(data []byte, key string, fn func(record []byte) error) error
	DecodePerson(data []byte) (model.Person, error)
	DecodePlace(data []byte) (model.Place, error)
	DecodeVisit(data []byte) (model.VisitEvent, error)
}

// Kind is an entity kind as named in batch files.
type Kind string

const (
	KindPeople Kind = "users"
	KindPlaces Kind = "locations"
	KindVisits Kind = "visits"
)

// Kinds lists the entity kinds in ingestion order. Visits come last because
// they reference people and places.
var Kinds = []Kind{KindPeople, KindPlaces, KindVisits}

// BatchName returns the file name of batch n (starting at 1) of kind.
func BatchName(kind Kind, n int) string {
	return fmt.Sprintf("%s_%d.json", kind, n)
}

// Counts is the number of records loaded per kind.
type Counts struct {
	People int `json:"people"`
	Places int `json:"places"`
	Visits int `json:"visits"`
	Files  int `json:"files"`
}

// Load reads all batch files from fsys and inserts their records into st.
// For each kind, batches are read as <kind>_1.json, <kind>_2.json, ... until
// the first missing index. Any decode or insert failure aborts the load with
// an error naming the file.
func Load(fsys fs.FS, st store.IStore, dec Decoder) (Counts, error) {
	var counts Counts

	for _, kind := range Kinds {
		for n := 1; ; n++ {
			name := BatchName(kind, n)
			data, err := fs.ReadFile(fsys, name)
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			if err != nil {
				return counts, errors.Wrapf(err, "read %s", name)
			}

			loaded, err := loadBatch(kind, data, st, dec)
			if err != nil {
				return counts, errors.Wrapf(err, "load %s", name)
			}
			Logger.Debugf("loaded %d records from %s", loaded, name)

			counts.Files++
			switch kind {
			case KindPeople:
				counts.People += loaded
			case KindPlaces:
				counts.Places += loaded
			case KindVisits:
				counts.Visits += loaded
			}
		}
	}

	Logger.Infof("loaded %d people, %d places and %d visits from %d files", counts.People, counts.Places, counts.Visits, counts.Files)
	return counts, nil
}

func loadBatch(kind Kind, data []byte, st store.IStore, dec Decoder) (int, error) {
	loaded := 0
	err := dec.EachRecord(data, string(kind), func(record []byte) error {
		if err := insert(kind, record, st, dec); err != nil {
			return errors.Wrapf(err, "record %d", loaded)
		}
		loaded++
		return nil
	})
	return loaded, err
}

func insert(kind Kind, record []byte, st store.IStore, dec Decoder) error {
	switch kind {
	case KindPeople:
		p, err := dec.DecodePerson(record)
		if err != nil {
			return err
		}
		return st.CreatePerson(p)
	case KindPlaces:
		p, err := dec.DecodePlace(record)
		if err != nil {
			return err
		}
		return st.CreatePlace(p)
	case KindVisits:
		v, err := dec.DecodeVisit(record)
		if err != nil {
			return err
		}
		return st.CreateVisit(v)
	default:
		return errors.Newf("unknown kind %q", kind)
	}
}

// LoadPath opens the data source at path (directory or .zip archive) and loads it into st.
func LoadPath(path string, st store.IStore, dec Decoder) (Counts, error) {
	src, err := Open(path)
	if err != nil {
		return Counts{}, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			Logger.Warningf("failed to close data source %s: %v", path, err)
		}
	}()

	Logger.Infof("loading data from %s", path)
	return Load(src, st, dec)
}
