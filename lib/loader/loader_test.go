package loader_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ValentinKolb/travels/lib/loader"
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/lib/store/lstore"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceTime int64 = 1503695452

var batches = map[string]string{
	"users_1.json": `{"users":[
		{"id":1,"email":"a@example.com","first_name":"Ann","last_name":"Ash","gender":"f","birth_date":-712108800},
		{"id":2,"email":"b@example.com","first_name":"Bob","last_name":"Birch","gender":"m","birth_date":946684800}]}`,
	"users_2.json":     `{"users":[{"id":3,"email":"c@example.com","first_name":"Cid","last_name":"Cedar","gender":"m","birth_date":0}]}`,
	"locations_1.json": `{"locations":[{"id":5,"place":"Bar","country":"Chile","city":"Arica","distance":10}]}`,
	"visits_1.json": `{"visits":[
		{"id":1,"location":5,"user":1,"visited_at":1000,"mark":4},
		{"id":2,"location":5,"user":3,"visited_at":2000,"mark":2}]}`,
	// not reached, users_3.json is missing
	"users_4.json": `{"users":[{"id":4,"email":"d@example.com","first_name":"Dan","last_name":"Dune","gender":"m","birth_date":0}]}`,
}

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func newStore() store.IStore {
	return lstore.NewLocalStore(lstore.Options{ReferenceTime: referenceTime})
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"fast", "std"} {
		t.Run(name, func(t *testing.T) {
			dec, err := serializer.New(name)
			require.NoError(t, err)
			st := newStore()

			counts, err := loader.Load(mapFS(batches), st, dec)
			require.NoError(t, err)
			assert.Equal(t, loader.Counts{People: 3, Places: 1, Visits: 2, Files: 4}, counts)

			_, found := st.GetPerson(4)
			assert.False(t, found, "batches after a gap are not loaded")

			visits, err := st.PersonVisits(3, nil)
			require.NoError(t, err)
			assert.Equal(t, []model.VisitInfo{{Mark: 2, VisitedAt: 2000, Place: "Bar"}}, visits)

			avg, err := st.PlaceAverage(5, nil)
			require.NoError(t, err)
			assert.Equal(t, 3.0, avg)
			require.NoError(t, st.Verify())
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	counts, err := loader.Load(fstest.MapFS{}, newStore(), serializer.NewFastSerializer())
	require.NoError(t, err)
	assert.Equal(t, loader.Counts{}, counts)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		wantFile string
	}{
		{
			name:     "broken json",
			files:    map[string]string{"users_1.json": `{"users":[{"id":1,`},
			wantFile: "users_1.json",
		},
		{
			name:     "wrong key",
			files:    map[string]string{"locations_1.json": `{"users":[]}`},
			wantFile: "locations_1.json",
		},
		{
			name: "missing field",
			files: map[string]string{
				"locations_1.json": `{"locations":[{"id":5,"place":"Bar","country":"Chile","city":"Arica"}]}`,
			},
			wantFile: "locations_1.json",
		},
		{
			name: "duplicate id",
			files: map[string]string{
				"locations_1.json": `{"locations":[{"id":5,"place":"Bar","country":"Chile","city":"Arica","distance":1}]}`,
				"locations_2.json": `{"locations":[{"id":5,"place":"Bar","country":"Chile","city":"Arica","distance":1}]}`,
			},
			wantFile: "locations_2.json",
		},
		{
			name:     "dangling visit",
			files:    map[string]string{"visits_1.json": `{"visits":[{"id":1,"location":5,"user":1,"visited_at":1000,"mark":4}]}`},
			wantFile: "visits_1.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(mapFS(tt.files), newStore(), serializer.NewFastSerializer())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantFile)
		})
	}
}

func TestLoadPath(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		for name, content := range batches {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
		}

		counts, err := loader.LoadPath(dir, newStore(), serializer.NewFastSerializer())
		require.NoError(t, err)
		assert.Equal(t, 6, counts.People+counts.Places+counts.Visits)
	})

	t.Run("zip archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.zip")
		f, err := os.Create(path)
		require.NoError(t, err)
		zw := zip.NewWriter(f)
		for name, content := range batches {
			w, err := zw.Create(name)
			require.NoError(t, err)
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
		}
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())

		counts, err := loader.LoadPath(path, newStore(), serializer.NewFastSerializer())
		require.NoError(t, err)
		assert.Equal(t, loader.Counts{People: 3, Places: 1, Visits: 2, Files: 4}, counts)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := loader.LoadPath(filepath.Join(t.TempDir(), "missing.zip"), newStore(), serializer.NewFastSerializer())
		assert.Error(t, err)
	})

	t.Run("regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
		_, err := loader.LoadPath(path, newStore(), serializer.NewFastSerializer())
		assert.Error(t, err)
	})
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    loader.Options
		wantErr bool
	}{
		{"reference only", "1503695452\n", loader.Options{ReferenceTime: referenceTime}, false},
		{"test mode", "1503695452\n0\n", loader.Options{ReferenceTime: referenceTime, Mode: loader.ModeTest}, false},
		{"rating mode", "1503695452\n1", loader.Options{ReferenceTime: referenceTime, Mode: loader.ModeRating}, false},
		{"surrounding space", "  1503695452 \r\n 1 \n", loader.Options{ReferenceTime: referenceTime, Mode: loader.ModeRating}, false},
		{"extra lines ignored", "1\n0\nwhatever\n", loader.Options{ReferenceTime: 1}, false},
		{"negative reference", "-100\n", loader.Options{ReferenceTime: -100}, false},
		{"empty", "", loader.Options{}, true},
		{"blank first line", "\n1\n", loader.Options{}, true},
		{"bad reference", "yesterday\n", loader.Options{}, true},
		{"bad mode", "1503695452\nfast\n", loader.Options{}, true},
		{"unknown mode", "1503695452\n2\n", loader.Options{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loader.ParseOptions(strings.NewReader(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsFile(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "options.txt"), loader.DefaultOptionsPath(dir))
	assert.Equal(t, filepath.Join(dir, "options.txt"), loader.DefaultOptionsPath(filepath.Join(dir, "data.zip")))

	_, err := loader.ReadOptionsFile(loader.DefaultOptionsPath(dir))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(loader.DefaultOptionsPath(dir), []byte("1503695452\n1\n"), 0o644))
	opts, err := loader.ReadOptionsFile(loader.DefaultOptionsPath(dir))
	require.NoError(t, err)
	assert.Equal(t, loader.ModeRating, opts.Mode)
	assert.Equal(t, "rating", opts.Mode.String())
}

func TestBatchName(t *testing.T) {
	assert.Equal(t, "users_1.json", loader.BatchName(loader.KindPeople, 1))
	assert.Equal(t, "visits_12.json", loader.BatchName(loader.KindVisits, 12))
}
