package capture

import (
	"io"

	"github.com/san-kum/peeps/internal/export"
	"github.com/san-kum/peeps/internal/scene"
)

// SVGStill renders a scene through a fixed view.
type SVGStill struct {
	Scene *scene.Scene
	View  export.View
}

func (s SVGStill) Ext() string { return ".svg" }

func (s SVGStill) WriteStill(w io.Writer) error {
	_, err := io.WriteString(w, export.SceneToSVG(s.Scene.Objects(), s.View))
	return err
}

// StillFunc adapts a render function to [StillWriter].
type StillFunc struct {
	Extension string
	Render    func() string
}

func (s StillFunc) Ext() string { return s.Extension }

func (s StillFunc) WriteStill(w io.Writer) error {
	_, err := io.WriteString(w, s.Render())
	return err
}
