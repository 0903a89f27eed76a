package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarsim/internal/analysis"
	"github.com/san-kum/solarsim/internal/api"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/experiment"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/optim"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"github.com/san-kum/solarsim/internal/storage"
	"github.com/san-kum/solarsim/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	configFile    string
	preset        string
	dt            float64
	steps         int
	sampleEvery   int
	forceLaw      string
	scheme        string
	theta         float64
	trailCap      int
	fps           int
	stepsPerFrame int
	tickHz        float64
	// serve
	addr    string
	origins []string
	// plot
	plotBody string
	// sweep
	sweepDts    []float64
	sweepLaws   []string
	sweepMetric string
	// export-svg
	svgOut              string
	svgWidth, svgHeight int

	logger kitlog.Logger = kitlog.NewNopLogger()
)

// main registers the commands and exits with status 1 if the chosen command
// fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "solarsim",
		Short:         "2D gravitational solar system simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(viper.GetString("log-level"))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().String("data", ".solarsim", "data directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	viper.SetEnvPrefix("SOLARSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "save every n-th step")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", config.DefaultStepsPerFrame, "engine steps per frame")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "step a system in the background and serve body snapshots over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addSystemFlags(serveCmd)
	serveCmd.Flags().Float64Var(&tickHz, "tick-hz", config.DefaultTickHz, "engine ticks per second")
	serveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", config.DefaultStepsPerFrame, "engine steps per tick")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringSliceVar(&origins, "origins", nil, "allowed CORS origins (default any)")
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's distance from the origin",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "Earth", "body to plot")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw run trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tLAW\tDT")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%.0fs\n", name, len(cfg.Bodies), cfg.ForceLaw, cfg.Dt)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			reg := experiment.NewRegistry()
			fmt.Printf("\nforce laws: %s\n", strings.Join(reg.ListForceLaws(), ", "))
			fmt.Printf("schemes: %s\n", strings.Join(reg.ListSchemes(), ", "))
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [scheme] [scheme] ...",
		Short: "compare integration schemes on the same system",
		RunE:  compareSchemes,
	}
	addSystemFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over timesteps and force laws",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	addSystemFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", []float64{physics.Day / 4, physics.Day / 2, physics.Day, 2 * physics.Day}, "timesteps to try")
	sweepCmd.Flags().StringSliceVar(&sweepLaws, "laws", nil, "force laws to try (default the system's)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "solar", "preset system")
	cmd.Flags().Float64Var(&dt, "dt", physics.Day, "timestep in seconds")
	cmd.Flags().IntVar(&steps, "steps", 365, "number of steps")
	cmd.Flags().StringVar(&forceLaw, "law", physics.LawAttractorOnly, "force law")
	cmd.Flags().StringVar(&scheme, "scheme", integrators.SchemeSemiImplicitEuler, "integration scheme")
	cmd.Flags().Float64Var(&theta, "theta", physics.DefaultTheta, "barnes-hut opening angle")
	cmd.Flags().IntVar(&trailCap, "trail", 1700, "trail capacity per body")
}

func newLogger(name string) (kitlog.Logger, error) {
	var opt level.Option
	switch strings.ToLower(name) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level: %s", name)
	}
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	l = kitlog.With(l, "ts", kitlog.DefaultTimestampUTC)
	return level.NewFilter(l, opt), nil
}

// loadConfig resolves the system to simulate: the preset, then the config
// file, then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("law") {
		cfg.ForceLaw = forceLaw
	}
	if flags.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("trail") {
		cfg.TrailCap = trailCap
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("fps") {
		cfg.Display.FPS = fps
	}
	if flags.Changed("steps-per-frame") {
		cfg.Display.StepsPerFrame = stepsPerFrame
	}
	if flags.Changed("tick-hz") {
		cfg.Display.TickHz = tickHz
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bodyNames(cfg *config.Config) ([]string, []string) {
	names := make([]string, len(cfg.Bodies))
	colors := make([]string, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		names[i], colors[i] = b.Name, b.Color
	}
	return names, colors
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(viper.GetString("data"))
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	exp.Simulator().AddObserver(progress{logger: logger, every: max(1, cfg.Steps/10)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation (%d bodies, %s, %s)...\n", cfg.Name, len(cfg.Bodies), cfg.ForceLaw, cfg.Scheme)
	level.Debug(logger).Log("msg", "run", "system", cfg.Name, "dt", cfg.Dt, "steps", cfg.Steps)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	names, colors := bodyNames(cfg)
	meta := storage.RunMetadata{
		System:   cfg.Name,
		Epoch:    cfg.Epoch,
		Dt:       cfg.Dt,
		Steps:    cfg.Steps,
		ForceLaw: cfg.ForceLaw,
		Scheme:   cfg.Scheme,
		Bodies:   names,
		Colors:   colors,
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "run saved", "run", runID, "frames", len(result.Frames))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("simulated until: %s\n", sim.Date(cfg.Epoch, exp.Simulator().Time()).Format("2006-01-02"))
	fmt.Println("\nmetrics:")
	keys := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		fmt.Printf("  %s: %.6e\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := experiment.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}
	return viz.Run(s, cfg)
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := experiment.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}

	engine := api.NewEngine(s, cfg, logger)
	srv := &http.Server{
		Addr:    viper.GetString("addr"),
		Handler: api.NewRouter(engine, logger, origins),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return engine.Run(ctx)
	})
	g.Go(func() error {
		level.Info(logger).Log("msg", "listening", "addr", srv.Addr, "system", cfg.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(viper.GetString("data"))
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tSTEPS\tDT\tLAW\tSCHEME\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fs\t%s\t%s\t%.2e\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Dt,
			run.ForceLaw,
			run.Scheme,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

// distancesAU converts a body track into distances from the origin in AU.
// progress logs every n-th step of a run.
type progress struct {
	logger kitlog.Logger
	every  int
}

func (p progress) OnStep(f sim.Frame) {
	if f.Step%p.every == 0 {
		level.Debug(p.logger).Log("msg", "progress", "step", f.Step, "days", f.Time/physics.Day)
	}
}

// radialPeriod estimates the period of the distance to the origin from
// evenly spaced samples. A trailing sample off the grid is dropped.
func radialPeriod(times []float64, track []r2.Vec) (float64, error) {
	n := len(times)
	if n < 2 {
		return 0, analysis.ErrTooShort
	}
	spacing := times[1] - times[0]
	if n > 2 && math.Abs(times[n-1]-times[n-2]-spacing) > 1e-9*spacing {
		n--
	}
	return analysis.DominantPeriod(distancesAU(track[:n]), spacing)
}

func distancesAU(track []r2.Vec) []float64 {
	out := make([]float64, len(track))
	for i, p := range track {
		out[i] = r2.Norm(p) / physics.AU
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(viper.GetString("data"))
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	times, track := analysis.Track(frames, plotBody)
	if len(track) == 0 {
		return fmt.Errorf("no data for body %q (bodies: %v)", plotBody, meta.Bodies)
	}
	data := distancesAU(track)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d\n", len(data))
	if period, err := analysis.AngularPeriod(times, track); err == nil {
		fmt.Printf("orbital period: %.2f days\n", period/physics.Day)
	}
	if period, err := radialPeriod(times, track); err == nil {
		fmt.Printf("radial period: %.2f days\n", period/physics.Day)
	}
	fmt.Println()

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s distance from origin (AU)", plotBody)),
	)
	fmt.Println(graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(viper.GetString("data"))
	return st.ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(viper.GetString("data"))
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	tracks := make([]export.Trajectory, len(meta.Bodies))
	for i, name := range meta.Bodies {
		_, points := analysis.Track(frames, name)
		tracks[i] = export.Trajectory{Name: name, Points: points}
		if i < len(meta.Colors) {
			tracks[i].Color = meta.Colors[i]
		}
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(export.TrajectoriesToSVG(tracks, svgWidth, svgHeight)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

// compareSchemes runs the same system once per scheme, concurrently, and
// prints energy drift and the worst radial deviation of each.
func compareSchemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	schemes := args
	if len(schemes) == 0 {
		schemes = []string{integrators.SchemeSemiImplicitEuler, integrators.SchemeEuler}
	}

	registry := experiment.NewRegistry()
	ens := sim.NewEnsemble()
	for _, name := range schemes {
		c := *cfg
		c.Scheme = name
		s, err := registry.Build(&c)
		if err != nil {
			return err
		}
		for _, m := range registry.DefaultMetrics(s.Law(), &c) {
			s.AddMetric(m)
		}
		ens.Add(name, s)
	}

	start := time.Now()
	results, err := ens.Run(context.Background(), experiment.SimConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("comparing schemes for %s (dt=%.0fs, steps=%d, %s)\n\n", cfg.Name, cfg.Dt, cfg.Steps, cfg.ForceLaw)
	fmt.Printf("%-20s  %-12s  %-12s  %-12s\n", "scheme", "energy_drift", "max_radial", "final_drift")
	fmt.Println(strings.Repeat("-", 62))

	for _, name := range schemes {
		res := results[name]
		worst := 0.0
		for metric, v := range res.Metrics {
			if strings.HasPrefix(metric, "radial_deviation_") && v > worst {
				worst = v
			}
		}
		fmt.Printf("%-20s  %12.2e  %12.2e  %12.2e\n", name, res.Metrics["energy_drift"], worst, res.EnergyDrift)
	}
	fmt.Printf("\ntotal %v\n", time.Since(start))

	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(sweepLaws, sweepDts)
	trials, err := g.Search(ctx, cfg, experiment.NewRegistry(), sweepMetric)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %.0f days, minimising %s\n\n", cfg.Name, cfg.Dt*float64(cfg.Steps)/physics.Day, sweepMetric)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAW\tDT\tSTEPS\tVALUE")
	for _, t := range trials {
		if t.Err != nil {
			fmt.Fprintf(w, "%s\t%.0fs\t%d\terror: %v\n", t.ForceLaw, t.Dt, t.Steps, t.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.0fs\t%d\t%.3e\n", t.ForceLaw, t.Dt, t.Steps, t.Value)
	}
	return w.Flush()
}
