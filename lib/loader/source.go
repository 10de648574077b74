package loader

import (
	"archive/zip"
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Data source
// --------------------------------------------------------------------------

// Source is an opened data source: either a plain directory or a zip archive.
type Source struct {
	fs.FS
	closer io.Closer
	path   string
}

// Open opens path as a data source. Paths ending in .zip are read as archives,
// everything else must be a directory.
func Open(path string) (*Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		r, err := zip.OpenReader(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open archive %s", path)
		}
		return &Source{FS: r, closer: r, path: path}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open data directory %s", path)
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is neither a directory nor a .zip archive", path)
	}
	return &Source{FS: os.DirFS(path), path: path}, nil
}

// Path returns the path the source was opened from.
func (s *Source) Path() string {
	return s.path
}

// Close releases the archive if the source is one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// --------------------------------------------------------------------------
// Options file
// --------------------------------------------------------------------------

// Mode is the operating mode announced by the options file.
type Mode int

const (
	ModeTest   Mode = 0 // test run, indices are audited after loading
	ModeRating Mode = 1 // rating run, startup time matters
)

func (m Mode) String() string {
	switch m {
	case ModeTest:
		return "test"
	case ModeRating:
		return "rating"
	default:
		return "unknown"
	}
}

// Options are the process wide settings supplied next to the data.
type Options struct {
	ReferenceTime int64 // epoch seconds all ages are computed against
	Mode          Mode
}

// OptionsFileName is the default name of the options file.
const OptionsFileName = "options.txt"

// DefaultOptionsPath returns the options file that belongs to a data path:
// options.txt in the directory itself or, for an archive, next to it.
func DefaultOptionsPath(dataPath string) string {
	if strings.EqualFold(filepath.Ext(dataPath), ".zip") {
		return filepath.Join(filepath.Dir(dataPath), OptionsFileName)
	}
	return filepath.Join(dataPath, OptionsFileName)
}

// ReadOptionsFile reads the options file at path.
func ReadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, errors.Wrap(err, "open options file")
	}
	defer f.Close()

	opts, err := ParseOptions(f)
	if err != nil {
		return Options{}, errors.Wrapf(err, "parse %s", path)
	}
	return opts, nil
}

// ParseOptions parses an options file. Line 1 is the reference instant in
// epoch seconds, the optional line 2 the mode (0 test, 1 rating).
func ParseOptions(r io.Reader) (Options, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() && len(lines) < 2 {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return Options{}, err
	}
	if len(lines) == 0 || lines[0] == "" {
		return Options{}, errors.New("missing reference time")
	}

	var opts Options
	ref, err := strconv.ParseInt(lines[0], 10, 64)
	if err != nil {
		return Options{}, errors.Wrap(err, "reference time")
	}
	opts.ReferenceTime = ref

	if len(lines) > 1 && lines[1] != "" {
		mode, err := strconv.Atoi(lines[1])
		if err != nil {
			return Options{}, errors.Wrap(err, "mode")
		}
		if Mode(mode) != ModeTest && Mode(mode) != ModeRating {
			return Options{}, errors.Newf("unknown mode %d", mode)
		}
		opts.Mode = Mode(mode)
	}
	return opts, nil
}
