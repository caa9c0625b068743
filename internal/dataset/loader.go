package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/cleared-dev/fraudlens/internal/colname"
)

// Format describes one delimited file flavor.
type Format struct {
	Name       string
	Delimiter  rune
	Extensions []string // lowercase, with leading dot
}

// Registry holds named formats.
type Registry struct {
	formats map[string]Format
}

// FileInfo describes a dataset file found by Scan.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds a format. Panics on duplicate name.
func (r *Registry) Register(f Format) {
	key := strings.ToLower(f.Name)
	if _, ok := r.formats[key]; ok {
		panic("duplicate dataset format: " + key)
	}
	r.formats[key] = f
}

// Get returns the format registered under name.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// ForPath returns the format whose extensions match path.
func (r *Registry) ForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range r.formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, true
			}
		}
	}
	return Format{}, false
}

// DefaultRegistry returns a registry with the built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Format{Name: "csv", Delimiter: ',', Extensions: []string{".csv"}})
	r.Register(Format{Name: "tsv", Delimiter: '\t', Extensions: []string{".tsv", ".tab"}})
	r.Register(Format{Name: "psv", Delimiter: '|', Extensions: []string{".psv"}})
	return r
}

// Resolve picks the format for path: the named one if given, else by extension.
func (r *Registry) Resolve(path, name string) (Format, error) {
	if name != "" {
		f, ok := r.Get(name)
		if !ok {
			return Format{}, fmt.Errorf("unknown dataset format %q", name)
		}
		return f, nil
	}
	f, ok := r.ForPath(path)
	if !ok {
		return Format{}, fmt.Errorf("cannot infer dataset format from %q; set dataset.format", filepath.Base(path))
	}
	return f, nil
}

// Load reads the dataset at path.
func Load(path string, f Format) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer file.Close()

	t, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Read parses a delimited table with a header row. Every cell is kept as the
// text read, including values like "NA"; typing is left to the preprocessor.
// Header names must be unique once trimmed.
func Read(r io.Reader, f Format) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(f.Delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, df.Err)
	}

	records := df.Records()
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformed)
	}

	header := make([]string, len(records[0]))
	seen := make(map[string]bool, len(header))
	for i, h := range records[0] {
		header[i] = colname.Normalize(h)
		if seen[header[i]] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformed, header[i])
		}
		seen[header[i]] = true
	}
	return New(header, records[1:])
}

// Scan returns dataset files directly inside dir, sorted by name.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading dataset dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, ok := r.ForPath(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: f.Name,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
