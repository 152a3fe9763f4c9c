package store

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/san-kum/crabcrust/internal/braille"
)

var (
	ErrNotFound    = errors.New("store: clip not found")
	ErrInvalidName = errors.New("store: invalid clip name")
)

// Store caches converted clips on disk, one directory per clip holding
// metadata.json and frames.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// DefaultDir is the frame cache under the user's XDG cache directory.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "crabcrust", "frames")
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type ClipMetadata struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	SourceSize int64     `json:"source_size"`
	SourceMod  time.Time `json:"source_mod"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Threshold  int       `json:"threshold"`
	Frames     int       `json:"frames"`
	DurationMS int64     `json:"duration_ms"`
	Created    time.Time `json:"created"`
}

// Duration is the total play time of the clip.
func (m ClipMetadata) Duration() time.Duration {
	return time.Duration(m.DurationMS) * time.Millisecond
}

func (s *Store) clipDir(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.baseDir, name), nil
}

// Save writes frames under meta.Name, replacing any previous clip of
// that name. Frame count, size and total duration are taken from frames.
func (s *Store) Save(meta ClipMetadata, frames []braille.Frame) error {
	dir, err := s.clipDir(meta.Name)
	if err != nil {
		return err
	}
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("store: frame %d: %w", i, err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	meta.Frames = len(frames)
	meta.DurationMS = 0
	for _, f := range frames {
		meta.DurationMS += f.Duration.Milliseconds()
	}
	if len(frames) > 0 {
		meta.Width, meta.Height = frames[0].Width, frames[0].Height
	}
	if meta.Created.IsZero() {
		meta.Created = time.Now()
	}

	if err := writeFrames(filepath.Join(dir, "frames.csv"), frames); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeFrames(path string, frames []braille.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"index", "width", "height", "duration_ms", "patterns"}); err != nil {
		return err
	}
	for i, f := range frames {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(f.Width),
			strconv.Itoa(f.Height),
			strconv.FormatInt(f.Duration.Milliseconds(), 10),
			hex.EncodeToString(f.Patterns),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable clip. Directories without
// valid metadata are skipped.
func (s *Store) List() ([]ClipMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ClipMetadata{}, nil
		}
		return nil, err
	}

	clips := make([]ClipMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		clips = append(clips, *meta)
	}
	return clips, nil
}

func (s *Store) Load(name string) (*ClipMetadata, error) {
	dir, err := s.clipDir(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	var meta ClipMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("store: %s metadata: %w", name, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(name string) ([]braille.Frame, error) {
	dir, err := s.clipDir(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: %s frames: %w", name, err)
	}
	if len(records) < 2 {
		return []braille.Frame{}, nil
	}

	frames := make([]braille.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		f, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("store: %s frame %d: %w", name, i, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(record []string) (braille.Frame, error) {
	w, err := strconv.Atoi(record[1])
	if err != nil {
		return braille.Frame{}, err
	}
	h, err := strconv.Atoi(record[2])
	if err != nil {
		return braille.Frame{}, err
	}
	ms, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return braille.Frame{}, err
	}
	patterns, err := hex.DecodeString(record[4])
	if err != nil {
		return braille.Frame{}, err
	}
	f := braille.Frame{Patterns: patterns, Width: w, Height: h, Duration: time.Duration(ms) * time.Millisecond}
	return f, f.Validate()
}

func (s *Store) Delete(name string) error {
	dir, err := s.clipDir(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return os.RemoveAll(dir)
}

// Fresh reports whether a cached clip was built from source as it is on
// disk now, with the same conversion settings.
func (s *Store) Fresh(name, source string, width, height, threshold int) bool {
	meta, err := s.Load(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(source)
	if err != nil {
		return false
	}
	return meta.Source == source &&
		meta.SourceSize == info.Size() &&
		meta.SourceMod.Equal(info.ModTime()) &&
		meta.Width == width && meta.Height == height && meta.Threshold == threshold
}
