package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestEncoder bundles a clip's stills into one JSON document holding
// the playback rate and every frame's content, so the stills can be removed.
type ManifestEncoder struct {
	// Prefix is prepended to the output name, e.g. "intro_".
	Prefix string
}

type manifestFrame struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Data   string `json:"data"`
}

type manifest struct {
	FPS       int             `json:"fps"`
	First     int             `json:"first"`
	End       int             `json:"end"`
	Pattern   string          `json:"pattern"`
	CreatedAt time.Time       `json:"created_at"`
	Frames    []manifestFrame `json:"frames"`
}

func (m ManifestEncoder) Output(c Clip) string {
	name, err := FrameName(c.First)
	if err != nil {
		name = "img"
	}
	return filepath.Join(c.Dir, m.Prefix+name+".clip.json")
}

func (m ManifestEncoder) Encode(c Clip) error {
	if c.End < c.First {
		return fmt.Errorf("clip ends at %d before it starts at %d", c.End, c.First)
	}
	doc := manifest{
		FPS:       c.FPS,
		First:     c.First,
		End:       c.End,
		Pattern:   "img%06d" + c.Ext,
		CreatedAt: time.Now(),
		Frames:    make([]manifestFrame, 0, c.End-c.First),
	}
	for n := c.First; n < c.End; n++ {
		p, err := c.Path(n)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		doc.Frames = append(doc.Frames, manifestFrame{Number: n, Name: filepath.Base(p), Data: string(data)})
	}

	f, err := os.Create(m.Output(c))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadManifest loads a clip written by ManifestEncoder and returns its
// fps and frame contents in order.
func ReadManifest(path string) (int, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	var doc manifest
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, nil, err
	}
	frames := make([]string, len(doc.Frames))
	for i, f := range doc.Frames {
		frames[i] = f.Data
	}
	return doc.FPS, frames, nil
}
