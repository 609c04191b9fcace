package capture

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/san-kum/peeps/internal/peeps"
)

// FrameName returns the zero-padded base name of frame n.
func FrameName(n int) (string, error) {
	if n < 0 {
		return "", peeps.Errorf("capture.FrameName", peeps.ErrInvalidParameter, "negative frame number %d", n)
	}
	return fmt.Sprintf("img%06d", n), nil
}

// StillWriter renders the current state as one still image.
type StillWriter interface {
	// Ext is the file extension, including the dot.
	Ext() string
	WriteStill(w io.Writer) error
}

// Clip is a contiguous range of captured stills.
type Clip struct {
	Dir   string
	Ext   string
	First int
	// End is one past the last frame.
	End int
	FPS int
}

// Path returns the still path of frame n within the clip's directory.
func (c Clip) Path(n int) (string, error) {
	name, err := FrameName(n)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.Dir, name+c.Ext), nil
}

// Encoder assembles a clip's stills into one artifact.
type Encoder interface {
	// Output is the artifact path for clip; an existing output means the
	// clip is already encoded.
	Output(c Clip) string
	Encode(c Clip) error
}

// Session tracks the frame counter of one output directory.
type Session struct {
	Dir  string
	Name string
	Num  int
	FPS  int

	Still   StillWriter
	Encoder Encoder
	Logger  *slog.Logger

	startFrame int
	sceneEnds  []int
}

// NewSession prepares dir/name for output, creating it if needed.
func NewSession(dir, name string, fps int, still StillWriter, enc Encoder) (*Session, error) {
	if name == "" {
		name = "temp"
	}
	if fps <= 0 {
		return nil, peeps.Errorf("capture.NewSession", peeps.ErrInvalidParameter, "fps must be positive, got %d", fps)
	}
	s := &Session{
		Dir:        dir,
		Name:       name,
		FPS:        fps,
		Still:      still,
		Encoder:    enc,
		Logger:     slog.Default(),
		startFrame: -1,
	}
	if err := os.MkdirAll(s.Path(), 0o755); err != nil {
		return nil, err
	}
	return s, nil
}

// Path is the directory stills are written to.
func (s *Session) Path() string {
	return filepath.Join(s.Dir, s.Name)
}

// Recording reports whether a clip is in progress.
func (s *Session) Recording() bool { return s.startFrame >= 0 }

func (s *Session) clip(first int) Clip {
	ext := ""
	if s.Still != nil {
		ext = s.Still.Ext()
	}
	return Clip{Dir: s.Path(), Ext: ext, First: first, End: s.Num, FPS: s.FPS}
}

// Start begins a clip at the current frame.
func (s *Session) Start() error {
	if s.Recording() {
		return peeps.Errorf("capture.Start", peeps.ErrSession, "cannot start a clip in the middle of another at frame %d", s.startFrame)
	}
	s.startFrame = s.Num
	s.logger().Debug("clip start", "session", s.Name, "frame", s.Num)
	return nil
}

// Stop ends the clip, encodes it unless its output already exists, removes
// the encoded stills and finally captures one trailing still.
func (s *Session) Stop() error {
	if !s.Recording() {
		return peeps.Errorf("capture.Stop", peeps.ErrSession, "no clip to stop")
	}
	c := s.clip(s.startFrame)
	s.startFrame = -1

	if s.Encoder != nil && !exists(s.Encoder.Output(c)) {
		if err := s.Encoder.Encode(c); err != nil {
			return peeps.Wrap("capture.Stop", peeps.ErrEncode, err)
		}
		if err := removeStills(c); err != nil {
			return err
		}
		s.logger().Debug("clip encoded", "session", s.Name, "first", c.First, "end", c.End, "output", s.Encoder.Output(c))
	}

	return s.Frame()
}

// skipping reports whether the current frame does not need rendering:
// either its still exists or the running clip was already encoded.
func (s *Session) skipping() (bool, error) {
	if s.Recording() && s.Encoder != nil && exists(s.Encoder.Output(s.clip(s.startFrame))) {
		return true, nil
	}
	p, err := s.clip(s.Num).Path(s.Num)
	if err != nil {
		return false, err
	}
	return exists(p), nil
}

// Pending reports whether Frame would write a still for the current frame.
func (s *Session) Pending() (bool, error) {
	skip, err := s.skipping()
	return !skip, err
}

// Frame writes the current still unless it is skipped, then advances the
// frame counter either way.
func (s *Session) Frame() error {
	skip, err := s.skipping()
	if err != nil {
		return err
	}
	if skip || s.Still == nil {
		s.Num++
		return nil
	}

	p, err := s.clip(s.Num).Path(s.Num)
	if err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := s.Still.WriteStill(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.Num++
	return nil
}

// Skip advances the frame counter by n without capturing.
func (s *Session) Skip(n int) {
	s.Num += n
}

// Preview writes a throwaway still at the first free frame number at or
// above 900000, leaving the counter untouched.
func (s *Session) Preview() (string, error) {
	old := s.Num
	defer func() { s.Num = old }()

	for s.Num = 900000; ; s.Num++ {
		pending, err := s.Pending()
		if err != nil {
			return "", err
		}
		if pending {
			break
		}
	}
	p, err := s.clip(s.Num).Path(s.Num)
	if err != nil {
		return "", err
	}
	return p, s.Frame()
}

// EndScene records the current frame number as a scene boundary.
func (s *Session) EndScene() {
	s.sceneEnds = append(s.sceneEnds, s.Num)
}

// SceneEnds returns the recorded scene boundaries.
func (s *Session) SceneEnds() []int {
	out := make([]int, len(s.sceneEnds))
	copy(out, s.sceneEnds)
	return out
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func removeStills(c Clip) error {
	for n := c.First; n < c.End; n++ {
		p, err := c.Path(n)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
