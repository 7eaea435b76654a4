// Package loader materializes datasets from the files of a directory.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TomTonic/hashbench"
	"github.com/tidwall/gjson"
)

// DefaultHeaderPrefix marks CSV files whose first record is a header.
const DefaultHeaderPrefix = "csv_data"

var (
	ErrUnsupportedFile = errors.New("unsupported file extension")
	ErrNotJSONArray    = errors.New("JSON document is not an array")
)

// Loader reads .txt, .csv and .json files into datasets named after the file.
type Loader struct {
	// HeaderPrefix selects the CSV files whose first record is skipped.
	HeaderPrefix string
	Logger       *log.Logger
}

func New(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{HeaderPrefix: DefaultHeaderPrefix, Logger: logger}
}

// LoadDir loads every supported regular file of dir in name order. A file
// that fails to load is logged and left out; only failing to list dir is an
// error.
func (l *Loader) LoadDir(dir string) ([]*hashbench.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*hashbench.Dataset
	for _, e := range entries {
		if !e.Type().IsRegular() || !Supported(e.Name()) {
			continue
		}
		ds, err := l.LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			l.Logger.Printf("error loading %s: %v", e.Name(), err)
			continue
		}
		l.Logger.Printf("loaded %s (%d elements)", ds.Name(), ds.Len())
		out = append(out, ds)
	}
	return out, nil
}

// Supported reports whether name has an extension LoadFile understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".csv", ".json":
		return true
	}
	return false
}

// LoadFile loads a single file. The dataset is named after the file's base
// name.
func (l *Loader) LoadFile(path string) (*hashbench.Dataset, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var elems []hashbench.Element
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		elems, err = readLines(f)
	case ".csv":
		elems, err = readCSV(f, l.HeaderPrefix != "" && strings.HasPrefix(name, l.HeaderPrefix))
	case ".json":
		elems, err = readJSON(f)
	default:
		err = ErrUnsupportedFile
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return hashbench.NewDataset(name, elems)
}

// readLines returns one scalar per line with surrounding whitespace trimmed.
// A trailing newline does not produce an extra element.
func readLines(r io.Reader) ([]hashbench.Element, error) {
	br := bufio.NewReader(r)
	var out []hashbench.Element
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			out = append(out, hashbench.Scalar(strings.TrimSpace(line)))
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func readCSV(r io.Reader, skipHeader bool) ([]hashbench.Element, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var out []hashbench.Element
	for first := true; ; first = false {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if first && skipHeader {
			continue
		}
		out = append(out, hashbench.Row(rec...))
	}
}

// readJSON accepts a top-level array. Objects become rows holding their
// values in document order; anything else becomes a scalar.
func readJSON(r io.Reader) ([]hashbench.Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, ErrNotJSONArray
	}
	var out []hashbench.Element
	doc.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			var fields []string
			item.ForEach(func(_, v gjson.Result) bool {
				fields = append(fields, v.String())
				return true
			})
			out = append(out, hashbench.Row(fields...))
			return true
		}
		out = append(out, hashbench.Scalar(item.String()))
		return true
	})
	return out, nil
}
