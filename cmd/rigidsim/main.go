package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigidsim/internal/analysis"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/constraint"
	"github.com/san-kum/rigidsim/internal/gui"
	"github.com/san-kum/rigidsim/internal/record"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/tui"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	track      string
	axis       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rigidsim",
		Short: "rigid body scene simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene and record trajectories",
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().StringVar(&track, "track", "", "entity to plot (default: first dynamic)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scene with a live terminal view",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, joints, cfg, err := buildScene()
			if err != nil {
				return err
			}
			return tui.Run(sc, joints, trackedEntity(sc), cfg.Dt, cfg.Duration)
		},
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	liveCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	liveCmd.Flags().StringVar(&track, "track", "", "entity to plot")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a scene with the 3D debug viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, joints, cfg, err := buildScene()
			if err != nil {
				return err
			}
			gui.NewApp(sc, joints, cfg.Dt).Run()
			return nil
		},
	}
	guiCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	guiCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&track, "track", "", "entity to plot (default: first)")
	plotCmd.Flags().IntVar(&axis, "axis", 1, "coordinate axis: 0=x 1=y 2=z")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's states to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := record.New(dataDir)
			result, err := st.LoadStates(args[0])
			if err != nil {
				return err
			}
			return record.WriteCSV(os.Stdout, result)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := record.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			result, err := st.LoadStates(args[0])
			if err != nil {
				return err
			}
			return record.ExportJSON(os.Stdout, meta, result)
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "dominant oscillation frequency of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&track, "track", "", "entity to analyze (default: first)")
	analyzeCmd.Flags().IntVar(&axis, "axis", 1, "coordinate axis: 0=x 1=y 2=z")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, analyzeCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildScene loads the scene file (or the default scene) and applies
// flag overrides.
func buildScene() (*scene.Scene, []*constraint.Point, *config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = loaded
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if cfg.Dt <= 0 {
		cfg.Dt = config.DefaultDt
	}
	if cfg.Duration <= 0 {
		cfg.Duration = config.DefaultDuration
	}

	sc, joints, err := cfg.Build()
	if err != nil {
		return nil, nil, nil, err
	}
	return sc, joints, cfg, nil
}

// trackedEntity resolves the --track flag, defaulting to the first
// entity that carries a rigid body.
func trackedEntity(sc *scene.Scene) string {
	if track != "" {
		return track
	}
	for _, e := range sc.Entities() {
		if e.Component("rigidbody") != nil {
			return e.Name()
		}
	}
	if len(sc.Entities()) > 0 {
		return sc.Entities()[0].Name()
	}
	return ""
}

func runScene(cmd *cobra.Command, args []string) error {
	sc, joints, cfg, err := buildScene()
	if err != nil {
		return err
	}

	sc.Start()

	result := record.NewResult()
	steps := int(cfg.Duration / cfg.Dt)
	t := 0.0
	for i := 0; i < steps; i++ {
		for _, j := range joints {
			j.ApplyTension()
		}
		sc.Tick(cfg.Dt)
		t += cfg.Dt

		result.Sample(t)
		for _, e := range sc.Entities() {
			result.Record(e.Name(), e.Transform().Position())
		}
	}

	st := record.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Name, cfg.Dt, cfg.Duration, result)
	if err != nil {
		return err
	}

	name := trackedEntity(sc)
	series := result.Axis(name, 1)
	if len(series) > 1 {
		fmt.Println(asciigraph.Plot(series, asciigraph.Height(14), asciigraph.Width(70), asciigraph.Caption(name+" height")))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", runID)
	fmt.Fprintf(w, "steps\t%d\n", steps)
	fmt.Fprintf(w, "dt\t%g\n", cfg.Dt)
	for _, e := range sc.Entities() {
		p := e.Transform().Position()
		fmt.Fprintf(w, "%s\t(%.3f, %.3f, %.3f)\n", e.Name(), p.X(), p.Y(), p.Z())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	metas, err := st.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tSTEPS\tDT\tWHEN")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%s\n", m.ID, m.Scene, m.Steps, m.Dt, m.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	result, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	name := track
	if name == "" {
		names := result.Entities()
		if len(names) == 0 {
			return fmt.Errorf("run %s has no trajectories", args[0])
		}
		name = names[0]
	}
	series := result.Axis(name, clampAxis(axis))
	if len(series) < 2 {
		return fmt.Errorf("entity %s has too few samples", name)
	}

	fmt.Println(asciigraph.Plot(series, asciigraph.Height(14), asciigraph.Width(70), asciigraph.Caption(name)))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	name := track
	if name == "" {
		names := result.Entities()
		if len(names) == 0 {
			return fmt.Errorf("run %s has no trajectories", args[0])
		}
		name = names[0]
	}

	series := result.Axis(name, clampAxis(axis))
	freq, power := analysis.DominantFrequency(series, meta.Dt)
	fmt.Printf("%s: dominant frequency %.3f Hz (power %.3f)\n", name, freq, power)
	return nil
}

func clampAxis(a int) int {
	if a < 0 || a > 2 {
		return 1
	}
	return a
}
