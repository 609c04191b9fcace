package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/peeps/internal/capture"
	"github.com/san-kum/peeps/internal/config"
	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/export"
	"github.com/san-kum/peeps/internal/rate"
	"github.com/san-kum/peeps/internal/storage"
	"github.com/san-kum/peeps/internal/viz"
)

var (
	dataDir  string
	logLevel string

	easeTime float64

	configFile string
	preset     string
	duration   float64
	frameRate  int
	steps      int
	curve      string
	allowZ     bool

	outDir  string
	outName string
	svgFile string
	stills  bool
	noSave  bool
	plot    bool
	grow    float64
	offline bool
	theme   string
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "peeps",
		Short: "animation kernels: easing, tick tracks, n-body simulation and field lines",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".peeps", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	easeCmd := &cobra.Command{
		Use:   "ease [curve]",
		Short: "plot a rate curve",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotEase,
	}
	easeCmd.Flags().Float64Var(&easeTime, "time", 1.0, "duration")
	easeCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	simulateCmd := &cobra.Command{
		Use:   "simulate [electro|gravity]",
		Short: "run an n-body simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	scenarioFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&svgFile, "svg", "", "write the trajectories to this SVG file")
	simulateCmd.Flags().BoolVar(&stills, "stills", false, "capture one SVG still per frame")
	simulateCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	simulateCmd.Flags().BoolVar(&plot, "plot", false, "plot energies after the run")

	fieldCmd := &cobra.Command{
		Use:   "fieldlines",
		Short: "trace electric field lines and write SVG",
		Args:  cobra.NoArgs,
		RunE:  runFieldLines,
	}
	scenarioFlags(fieldCmd)
	fieldCmd.Flags().StringVar(&svgFile, "svg", "", "output SVG file (default <out>/<name>.svg)")
	fieldCmd.Flags().Float64Var(&grow, "grow", 0, "animate growth, extending lines by this length per frame")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play a demo scene through the tick protocol and capture SVG stills",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	playCmd.Flags().StringVar(&outDir, "out", "./out", "output directory")
	playCmd.Flags().StringVar(&outName, "name", "demo", "session name")
	playCmd.Flags().StringVar(&curve, "curve", config.DefaultCurve, "rate curve")
	playCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	playCmd.Flags().BoolVar(&offline, "offline", false, "apply tracks without capturing")

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a stored run, or a fresh preset, in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "simulate this preset instead of loading a run")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energies of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "export run trajectories to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := config.Kinds()
			if len(args) > 0 {
				kinds = args[:1]
			}
			for _, k := range kinds {
				presets := config.ListPresets(k)
				if len(presets) == 0 {
					fmt.Printf("no presets for kind: %s\n", k)
					continue
				}
				fmt.Printf("presets for %s:\n", k)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	curvesCmd := &cobra.Command{
		Use:   "curves",
		Short: "list named rate curves",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range rate.Names() {
				c, _ := rate.Lookup(name)
				fmt.Printf("  %-12s %s\n", name, dimStyle.Render(c.String()))
			}
			fmt.Printf("  %-12s %s\n", "spring", dimStyle.Render("damped spring"))
		},
	}

	rootCmd.AddCommand(easeCmd, curvesCmd, simulateCmd, fieldCmd, playCmd, liveCmd, listCmd, plotCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "sub-steps per frame")
	cmd.Flags().BoolVar(&allowZ, "allow-z", false, "allow motion out of the plane")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	cmd.Flags().StringVar(&outName, "name", "", "output name")
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadScenario resolves preset, then config file, then flags, each
// overriding the last.
func loadScenario(cmd *cobra.Command, kind string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Kind = kind

	if preset != "" {
		p := config.GetPreset(kind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if kind != "" && c.Kind != kind && !(kind == config.KindFieldLines && c.Kind == config.KindElectro) {
			return nil, fmt.Errorf("config %s is a %s scenario, not %s", configFile, c.Kind, kind)
		}
		cfg = c
		if kind != "" {
			cfg.Kind = kind
		}
	}

	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = frameRate
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("allow-z") {
		cfg.AllowZ = allowZ
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = outDir
	}
	if cmd.Flags().Changed("name") {
		cfg.Output.Name = outName
	} else if preset != "" && cfg.Output.Name == "temp" {
		cfg.Output.Name = preset
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func plotEase(cmd *cobra.Command, args []string) error {
	name := config.DefaultCurve
	if len(args) > 0 {
		name = args[0]
	}
	e, err := config.ParseEasing(name, frameRate)
	if err != nil {
		return err
	}
	ts, err := rate.ForTime(0, easeTime, e, frameRate)
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(ts,
		asciigraph.Height(12),
		asciigraph.Width(min(len(ts), 80)),
		asciigraph.Caption(fmt.Sprintf("%s over %d frames", name, len(ts)-1)),
	))
	return nil
}

// simulate runs cfg, optionally capturing an SVG still of the partial
// trajectories every frame.
func simulate(ctx context.Context, cfg *config.Config, withStills bool) (*dynamics.Result, *capture.Session, error) {
	in, err := cfg.Interaction()
	if err != nil {
		return nil, nil, err
	}
	sim := dynamics.New(in, cfg.Simulation())

	var session *capture.Session
	if withStills {
		pts := make([]mgl64.Vec3, len(cfg.Bodies))
		for i, b := range cfg.Bodies {
			pts[i] = b.Position
		}
		view := export.Fit(pts, cfg.Output.Width, cfg.Output.Height)

		var seen []dynamics.Frame
		sim.AddObserver(dynamics.ObserverFunc(func(tick int, f dynamics.Frame) error {
			seen = append(seen, f)
			return nil
		}))
		still := capture.StillFunc{Extension: ".svg", Render: func() string {
			return export.TrajectoryToSVG(seen, at(cfg.Bodies, seen), view)
		}}
		session, err = capture.NewSession(cfg.Output.Dir, cfg.Output.Name, cfg.FPS, still, capture.ManifestEncoder{})
		if err != nil {
			return nil, nil, err
		}
		sim.Capture = session
	}

	res, err := sim.Run(ctx, cfg.Bodies)
	return res, session, err
}

// at places bodies at the last recorded positions.
func at(bodies []dynamics.Body, frames []dynamics.Frame) []dynamics.Body {
	out := append([]dynamics.Body(nil), bodies...)
	if len(frames) == 0 {
		return out
	}
	last := frames[len(frames)-1]
	for i := range out {
		out[i].Position = last.Positions[i]
		out[i].Velocity = last.Velocities[i]
	}
	return out
}

func runSimulation(cmd *cobra.Command, args []string) error {
	kind := config.KindElectro
	if len(args) > 0 {
		kind = args[0]
	} else if configFile != "" {
		kind = ""
	}
	cfg, err := loadScenario(cmd, kind)
	if err != nil {
		return err
	}
	if cfg.Kind == config.KindFieldLines {
		return fmt.Errorf("use the fieldlines command for %s scenarios", cfg.Kind)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, session, err := simulate(ctx, cfg, stills)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %d bodies, %d frames", res.Interaction, len(res.Bodies), len(res.Frames))))
	fmt.Printf("force scale:  %.4g\n", res.ForceScale)
	fmt.Printf("accel scale:  %.4g\n", res.AccelScale)
	fmt.Printf("energy drift: %.4g\n", res.EnergyDrift)
	if session != nil {
		fmt.Printf("stills: %s\n", session.Path())
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Simulation(), cfg.Bodies, res)
		if err != nil {
			return err
		}
		fmt.Printf("run saved: %s\n", runID)
	}

	if svgFile != "" {
		if err := writeTrajectory(svgFile, res.Frames, res.Bodies, cfg.Output.Width, cfg.Output.Height); err != nil {
			return err
		}
		fmt.Printf("svg written: %s\n", svgFile)
	}

	if plot {
		plotEnergies(res.Frames)
	}
	return nil
}

func writeTrajectory(path string, frames []dynamics.Frame, final []dynamics.Body, w, h int) error {
	view := export.Fit(export.FramePoints(frames), w, h)
	return writeFile(path, export.TrajectoryToSVG(frames, final, view))
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func plotEnergies(frames []dynamics.Frame) {
	if len(frames) < 2 {
		fmt.Println("not enough frames to plot")
		return
	}
	kinetic := make([]float64, len(frames))
	potential := make([]float64, len(frames))
	total := make([]float64, len(frames))
	for i, f := range frames {
		kinetic[i], potential[i] = f.Kinetic, f.Potential
		total[i] = f.Kinetic + f.Potential
	}
	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", kinetic},
		{"potential energy", potential},
		{"total energy", total},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
}

func runFieldLines(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, config.KindFieldLines)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("grow") {
		cfg.FieldLines.Grow = grow
	}
	opts := cfg.FieldLineOptions()
	box := opts.Box
	view := export.Fit([]mgl64.Vec3{{box.Min[0], box.Min[1], 0}, {box.Max[0], box.Max[1], 0}},
		cfg.Output.Width, cfg.Output.Height)

	ctx, cancel := signalContext()
	defer cancel()

	var set *dynamics.FieldLineSet
	if cfg.FieldLines.Grow > 0 {
		var current *dynamics.FieldLineSet
		still := capture.StillFunc{Extension: ".svg", Render: func() string {
			return export.FieldLinesToSVG(current, cfg.Bodies, view, "#ffffff")
		}}
		session, err := capture.NewSession(cfg.Output.Dir, cfg.Output.Name, cfg.FPS, still, capture.ManifestEncoder{})
		if err != nil {
			return err
		}
		if err := session.Start(); err != nil {
			return err
		}
		set, err = dynamics.GrowFieldLines(ctx, cfg.Bodies, opts, cfg.FieldLines.Grow, func(s *dynamics.FieldLineSet) error {
			current = s
			return session.Frame()
		})
		if err != nil {
			return err
		}
		if err := session.Stop(); err != nil {
			return err
		}
		fmt.Printf("frames: %d in %s\n", session.Num, session.Path())
	} else {
		set, err = dynamics.TraceFieldLines(ctx, cfg.Bodies, opts)
		if err != nil {
			return err
		}
	}

	stops := map[dynamics.Stop]int{}
	for _, l := range set.Lines {
		stops[l.Stop]++
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("%d field lines, max length %.3g", len(set.Lines), set.MaxLength)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, s := range []dynamics.Stop{dynamics.StopLength, dynamics.StopBox, dynamics.StopCharge, dynamics.StopTurn, dynamics.StopSink} {
		fmt.Fprintf(w, "  %s\t%d\n", s, stops[s])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	path := svgFile
	if path == "" {
		path = filepath.Join(cfg.Output.Dir, cfg.Output.Name+".svg")
	}
	if err := writeFile(path, export.FieldLinesToSVG(set, cfg.Bodies, view, "#ffffff")); err != nil {
		return err
	}
	fmt.Printf("svg written: %s\n", path)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tBODIES\tFRAMES\tDURATION\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2fs\t%.3g\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Frames,
			run.Config.Duration,
			run.Metrics["energy_drift"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamics.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("samples: %d\n\n", len(frames))
	plotEnergies(frames)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, meta, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if err := writeTrajectory(args[1], frames, at(meta.Bodies, frames), config.DefaultWidth, config.DefaultHeight); err != nil {
		return err
	}
	fmt.Printf("svg written: %s\n", args[1])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	viz.SetTheme(theme)

	if len(args) > 0 {
		meta, frames, err := loadRun(args[0])
		if err != nil {
			return err
		}
		return viz.Run(viz.Replay{Name: meta.ID, FPS: meta.Config.FPS, Bodies: meta.Bodies, Frames: frames})
	}

	kind, name := "", preset
	if name == "" {
		var choices []viz.Choice
		for _, k := range []string{config.KindElectro, config.KindGravity} {
			for _, p := range config.ListPresets(k) {
				c := config.GetPreset(k, p)
				choices = append(choices, viz.Choice{Group: k, Name: p, Info: fmt.Sprintf("%d bodies, %.0fs", len(c.Bodies), c.Duration)})
			}
		}
		choice, err := viz.Pick("choose a preset", choices)
		if err != nil || choice == nil {
			return err
		}
		kind, name = choice.Group, choice.Name
	} else {
		for _, k := range []string{config.KindElectro, config.KindGravity} {
			if config.GetPreset(k, name) != nil {
				kind = k
				break
			}
		}
		if kind == "" {
			return fmt.Errorf("unknown preset: %s", name)
		}
	}

	cfg := config.GetPreset(kind, name)
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	res, _, err := simulate(ctx, cfg, false)
	if err != nil {
		return err
	}
	return viz.Run(viz.Replay{Name: name, FPS: cfg.FPS, Bodies: cfg.Bodies, Frames: res.Frames})
}
