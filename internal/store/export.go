package store

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/crabcrust/internal/braille"
)

type ExportFrame struct {
	DurationMS int64  `json:"duration_ms"`
	Patterns   string `json:"patterns"`
}

type ExportData struct {
	Name   string        `json:"name"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Frames []ExportFrame `json:"frames"`
}

func newExport(name string, frames []braille.Frame) ExportData {
	data := ExportData{Name: name, Frames: make([]ExportFrame, len(frames))}
	if len(frames) > 0 {
		data.Width, data.Height = frames[0].Width, frames[0].Height
	}
	for i, f := range frames {
		data.Frames[i] = ExportFrame{
			DurationMS: f.Duration.Milliseconds(),
			Patterns:   hex.EncodeToString(f.Patterns),
		}
	}
	return data
}

// ExportJSON writes frames as indented JSON to path.
func ExportJSON(path, name string, frames []braille.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, name, frames)
}

func WriteJSON(w io.Writer, name string, frames []braille.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExport(name, frames))
}
