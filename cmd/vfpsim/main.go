package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vfpsim/internal/compute"
	"github.com/san-kum/vfpsim/internal/config"
	"github.com/san-kum/vfpsim/internal/engine"
	"github.com/san-kum/vfpsim/internal/field"
	"github.com/san-kum/vfpsim/internal/grid"
	"github.com/san-kum/vfpsim/internal/impedance"
	"github.com/san-kum/vfpsim/internal/maps"
	"github.com/san-kum/vfpsim/internal/storage"
)

var (
	dataDir    string
	configFile string
	plotWhat   string
	device     string

	styleHeader = lipgloss.NewStyle().Bold(true)
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleDim    = lipgloss.NewStyle().Faint(true)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vfpsim",
		Short: "longitudinal phase-space dynamics by Vlasov-Fokker-Planck integration",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vfpsim", "data directory")

	cfg := config.DefaultConfig()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, cfg)
		},
	}
	f := runCmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&device, "device", "auto", "compute backend (auto, cpu or opencl)")
	f.IntVar(&cfg.GridSize, "grid-size", cfg.GridSize, "mesh points per axis")
	f.Float64Var(&cfg.PhaseSpaceSize, "phase-space-size", cfg.PhaseSpaceSize, "grid width in sigma units")
	f.Float64Var(&cfg.ShiftX, "shift-x", 0, "mesh shift along q in cells")
	f.Float64Var(&cfg.ShiftY, "shift-y", 0, "mesh shift along p in cells")
	f.IntVar(&cfg.Steps, "steps", cfg.Steps, "steps per synchrotron period")
	f.Float64Var(&cfg.Rotations, "rotations", cfg.Rotations, "number of synchrotron periods")
	f.IntVar(&cfg.OutStep, "outstep", cfg.OutStep, "snapshot interval in steps")
	f.IntVar(&cfg.Padding, "padding", cfg.Padding, "frequency-domain padding factor")
	f.IntVar(&cfg.Renormalize, "renormalize", 0, "renormalize charge every n steps")
	f.IntVar(&cfg.InterpolationOrder, "interpolation", cfg.InterpolationOrder, "interpolation order (1, 3 or 5)")
	f.BoolVar(&cfg.Clamp, "clamp", false, "clamp interpolated values to the stencil range")
	f.StringVar(&cfg.RotationType, "rotation-type", cfg.RotationType, "onthefly, precomputed or split")
	f.IntVar(&cfg.Derivation, "derivation", cfg.Derivation, "Fokker-Planck stencil width (3 or 5)")
	f.IntVar(&cfg.HaissinskiIter, "haissinski", 0, "Haissinski seed iterations")
	f.Float64Var(&cfg.StartZoom, "start-zoom", cfg.StartZoom, "zoom of the Gaussian seed")

	f.Float64Var(&cfg.BeamEnergy, "energy", cfg.BeamEnergy, "beam energy [eV]")
	f.Float64Var(&cfg.SyncFreq, "sync-freq", cfg.SyncFreq, "synchrotron frequency [Hz], negative selects alpha0")
	f.Float64Var(&cfg.Alpha0, "alpha0", cfg.Alpha0, "momentum compaction")
	f.Float64Var(&cfg.Alpha1, "alpha1", 0, "second-order momentum compaction")
	f.Float64Var(&cfg.Alpha2, "alpha2", 0, "third-order momentum compaction")
	f.Float64Var(&cfg.HarmonicNumber, "harmonic", cfg.HarmonicNumber, "harmonic number")
	f.Float64Var(&cfg.RFVoltage, "rf-voltage", cfg.RFVoltage, "RF voltage [V]")
	f.Float64Var(&cfg.RevolutionFrequency, "f-rev", cfg.RevolutionFrequency, "revolution frequency [Hz]")
	f.Float64Var(&cfg.BendingRadius, "bend-radius", 0, "bending radius [m], 0 derives it from f-rev")
	f.Float64Var(&cfg.BunchCurrent, "current", cfg.BunchCurrent, "bunch current [A]")
	f.Float64Var(&cfg.DampingTime, "damping-time", cfg.DampingTime, "damping time [s], 0 disables")
	f.Float64Var(&cfg.EnergySpread, "energy-spread", cfg.EnergySpread, "relative energy spread")

	f.Float64Var(&cfg.VacuumGap, "gap", cfg.VacuumGap, "vacuum chamber gap [m], 0 disables the wake")
	f.Float64Var(&cfg.WallConductivity, "wall-conductivity", 0, "chamber wall conductivity [S/m]")
	f.Float64Var(&cfg.WallSusceptibility, "wall-susceptibility", 0, "chamber wall susceptibility")
	f.Float64Var(&cfg.CollimatorRadius, "collimator-radius", 0, "collimator radius [m]")
	f.Float64Var(&cfg.CutoffFrequency, "cutoff-frequency", 0, "CSR detector cutoff [Hz]")
	f.StringVar(&cfg.ImpedanceFile, "impedance-file", "", "tabulated impedance, overrides analytic models")
	f.StringVar(&cfg.WakeFile, "wake-file", "", "tabulated wake function, selects the wake-function kick")

	f.BoolVar(&cfg.SavePhaseSpace, "save-phase-space", false, "store every phase-space frame, not only the last")
	f.StringVar(&cfg.InputFile, "input", "", "start distribution (.png, .txt or run directory)")
	f.IntVar(&cfg.StartDistStep, "start-dist-step", -1, "step number of the stored frame when reading a run directory (negative: latest)")
	f.StringVar(&cfg.OutputFile, "output", "", "run directory, .png file or /dev/null")
	f.StringVar(&cfg.TrackingFile, "tracking", "", "tracer particle start positions")
	f.BoolVar(&cfg.Force, "force", false, "continue despite unstable rotation offset")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "print derived parameters and progress")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored results in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotWhat, "what", "xproj", "xproj, yproj, wake or csr")

	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "list compute backends",
		Run: func(cmd *cobra.Command, args []string) {
			for _, b := range compute.List() {
				status := styleOK.Render("available")
				if !b.Available() {
					status = styleDim.Render("unavailable")
				}
				fmt.Printf("%s\t%s\n", b.Name(), status)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, devicesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// selectBackend resolves the --device flag. An unavailable
// accelerator falls back to the CPU with a warning.
func selectBackend(name string) (compute.Backend, error) {
	switch name {
	case "auto", "":
		return compute.GetBackend(), nil
	case "cpu":
		return compute.NewCPUBackend(), nil
	case "opencl":
		cl := compute.NewCLBackend()
		if !cl.Available() {
			fmt.Fprintln(os.Stderr, styleWarn.Render(
				engine.ErrBackendUnavailable.Error()+"; falling back to cpu"))
			return compute.NewCPUBackend(), nil
		}
		return cl, nil
	default:
		return nil, fmt.Errorf("%w: unknown device %q", config.ErrParse, name)
	}
}

// mergeConfig applies a config file underneath any flags the user set
// explicitly.
func mergeConfig(cmd *cobra.Command, cfg *config.Config) error {
	if configFile == "" {
		return nil
	}
	loaded, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	merged := *loaded
	// flags win over file values
	flagFields := map[string]func(){
		"grid-size":        func() { merged.GridSize = cfg.GridSize },
		"phase-space-size": func() { merged.PhaseSpaceSize = cfg.PhaseSpaceSize },
		"shift-x":          func() { merged.ShiftX = cfg.ShiftX },
		"shift-y":          func() { merged.ShiftY = cfg.ShiftY },
		"steps":            func() { merged.Steps = cfg.Steps },
		"rotations":        func() { merged.Rotations = cfg.Rotations },
		"outstep":          func() { merged.OutStep = cfg.OutStep },
		"padding":          func() { merged.Padding = cfg.Padding },
		"renormalize":      func() { merged.Renormalize = cfg.Renormalize },
		"interpolation":    func() { merged.InterpolationOrder = cfg.InterpolationOrder },
		"clamp":            func() { merged.Clamp = cfg.Clamp },
		"rotation-type":    func() { merged.RotationType = cfg.RotationType },
		"derivation":       func() { merged.Derivation = cfg.Derivation },
		"haissinski":       func() { merged.HaissinskiIter = cfg.HaissinskiIter },
		"start-zoom":       func() { merged.StartZoom = cfg.StartZoom },
		"energy":           func() { merged.BeamEnergy = cfg.BeamEnergy },
		"sync-freq":        func() { merged.SyncFreq = cfg.SyncFreq },
		"alpha0":           func() { merged.Alpha0 = cfg.Alpha0 },
		"alpha1":           func() { merged.Alpha1 = cfg.Alpha1 },
		"alpha2":           func() { merged.Alpha2 = cfg.Alpha2 },
		"harmonic":         func() { merged.HarmonicNumber = cfg.HarmonicNumber },
		"rf-voltage":       func() { merged.RFVoltage = cfg.RFVoltage },
		"f-rev":            func() { merged.RevolutionFrequency = cfg.RevolutionFrequency },
		"bend-radius":      func() { merged.BendingRadius = cfg.BendingRadius },
		"current":          func() { merged.BunchCurrent = cfg.BunchCurrent },
		"damping-time":     func() { merged.DampingTime = cfg.DampingTime },
		"energy-spread":    func() { merged.EnergySpread = cfg.EnergySpread },
		"gap":              func() { merged.VacuumGap = cfg.VacuumGap },
		"wall-conductivity": func() {
			merged.WallConductivity = cfg.WallConductivity
		},
		"wall-susceptibility": func() {
			merged.WallSusceptibility = cfg.WallSusceptibility
		},
		"collimator-radius": func() { merged.CollimatorRadius = cfg.CollimatorRadius },
		"cutoff-frequency":  func() { merged.CutoffFrequency = cfg.CutoffFrequency },
		"impedance-file":    func() { merged.ImpedanceFile = cfg.ImpedanceFile },
		"wake-file":         func() { merged.WakeFile = cfg.WakeFile },
		"save-phase-space":  func() { merged.SavePhaseSpace = cfg.SavePhaseSpace },
		"input":             func() { merged.InputFile = cfg.InputFile },
		"start-dist-step":   func() { merged.StartDistStep = cfg.StartDistStep },
		"output":            func() { merged.OutputFile = cfg.OutputFile },
		"tracking":          func() { merged.TrackingFile = cfg.TrackingFile },
		"force":             func() { merged.Force = cfg.Force },
		"verbose":           func() { merged.Verbose = cfg.Verbose },
	}
	for name, apply := range flagFields {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	*cfg = merged
	return nil
}

func runSimulation(cmd *cobra.Command, cfg *config.Config) error {
	if err := mergeConfig(cmd, cfg); err != nil {
		return err
	}
	prm, err := cfg.Derive()
	if err != nil {
		return err
	}
	backend, err := selectBackend(device)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printDerived(cfg, prm, backend)
	}

	sim, writer, err := assemble(cfg, prm, backend)
	if err != nil {
		return err
	}
	if writer != nil {
		defer writer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	runErr := sim.Run(ctx, prm.TotalSteps)
	elapsed := time.Since(start)

	for _, e := range sim.EmitErrors() {
		fmt.Fprintln(os.Stderr, styleWarn.Render("snapshot: "+e.Error()))
	}
	if runErr != nil {
		return runErr
	}

	if writer != nil {
		if err := writer.WriteFinalFrame(prm.TotalSteps, sim.Mesh.Data()); err != nil {
			fmt.Fprintln(os.Stderr, styleWarn.Render("final frame: "+err.Error()))
		}
	}
	if strings.HasSuffix(cfg.OutputFile, ".png") {
		if err := storage.WritePNG(cfg.OutputFile, sim.Mesh); err != nil {
			return err
		}
	}

	fmt.Printf("completed %d steps (%.1f synchrotron periods) in %v\n",
		prm.TotalSteps, cfg.Rotations, elapsed)
	return nil
}

// assemble wires meshes, impedance, field, maps and output into a
// ready simulator.
func assemble(cfg *config.Config, prm *config.Params, backend compute.Backend) (*engine.Simulator, *storage.RunWriter, error) {
	n := cfg.GridSize

	mesh1, err := grid.NewPhaseSpace(n, prm.QMin, prm.QMax, prm.PMin, prm.PMax,
		prm.Charge, cfg.BunchCurrent, prm.BunchLength, prm.EnergySpread)
	if err != nil {
		return nil, nil, err
	}
	if err := seedMesh(mesh1, cfg); err != nil {
		return nil, nil, err
	}
	mesh1.UpdateXProjection()
	mesh1.Normalize()
	mesh2 := mesh1.Clone()
	mesh3 := mesh1.Clone()

	imp, err := buildImpedance(cfg, prm)
	if err != nil {
		return nil, nil, err
	}

	var (
		ef       *field.ElectricField
		wakeKick engine.WakeKicker
	)
	if cfg.WakeFile != "" {
		ef, err = field.New(mesh1, imp, prm.RevolutionPart)
		if err != nil {
			return nil, nil, err
		}
		wakeKick, err = maps.NewWakeFunctionMap(mesh1, mesh2, cfg.WakeFile,
			cfg.BeamEnergy, cfg.EnergySpread, prm.CurrentScal, prm.Dt,
			cfg.InterpolationOrder, cfg.Clamp, backend)
		if err != nil {
			return nil, nil, err
		}
	} else {
		ef, err = field.NewWithWake(mesh1, imp, prm.RevolutionPart,
			prm.CurrentScal, cfg.BeamEnergy, cfg.EnergySpread, prm.Dt)
		if err != nil {
			return nil, nil, err
		}
		if cfg.VacuumGap != 0 {
			wakeKick, err = maps.NewWakePotentialMap(mesh1, mesh2, ef,
				cfg.InterpolationOrder, cfg.Clamp, backend)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	var wake maps.Map
	if wakeKick != nil {
		wake = wakeKick
	} else {
		wake, err = maps.NewIdentity(mesh1, mesh2, backend)
		if err != nil {
			return nil, nil, err
		}
	}

	var rot1, rot2 maps.Map
	switch cfg.RotationType {
	case config.RotationSplit:
		rot1, err = maps.NewRFKickMap(mesh2, mesh1, prm.Angle,
			cfg.InterpolationOrder, cfg.Clamp, backend)
		if err != nil {
			return nil, nil, err
		}
		coeffs := [3]float64{prm.Angle, 0, 0}
		if prm.Alpha0 != 0 {
			coeffs[1] = prm.Alpha1 / prm.Alpha0 * prm.Angle
			coeffs[2] = prm.Alpha2 / prm.Alpha0 * prm.Angle
		}
		rot2, err = maps.NewDriftMap(mesh1, mesh3, coeffs,
			cfg.InterpolationOrder, cfg.Clamp, backend)
		if err != nil {
			return nil, nil, err
		}
	default:
		precompute := cfg.RotationType == config.RotationPrecomputed
		rot1, err = maps.NewRotationMap(mesh2, mesh3, prm.Angle,
			cfg.InterpolationOrder, cfg.Clamp, precompute, backend)
		if err != nil {
			return nil, nil, err
		}
	}

	var fp maps.Map
	if prm.EpsilonFP > 0 {
		fp, err = maps.NewFokkerPlanckMap(mesh3, mesh1, maps.FPFull,
			prm.EpsilonFP, maps.DerivationType(cfg.Derivation), backend)
	} else {
		fp, err = maps.NewIdentity(mesh3, mesh1, backend)
	}
	if err != nil {
		return nil, nil, err
	}

	var tracers []grid.Position
	if cfg.TrackingFile != "" && cfg.TrackingFile != "/dev/null" {
		tracers, err = storage.LoadTracers(cfg.TrackingFile)
		if err != nil {
			return nil, nil, err
		}
	}

	if cfg.HaissinskiIter > 0 && wakeKick != nil {
		delta, err := engine.SeedHaissinski(mesh1, wakeKick, cfg.HaissinskiIter)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Verbose {
			fmt.Printf("Haissinski seed: %d iterations, residual %.2e\n",
				cfg.HaissinskiIter, delta)
		}
	}

	sim := &engine.Simulator{
		Mesh:           mesh1,
		Field:          ef,
		Wake:           wake,
		WakeKick:       wakeKick,
		Rotation1:      rot1,
		Rotation2:      rot2,
		FP:             fp,
		Tracers:        tracers,
		StepsPerPeriod: cfg.Steps,
		OutStep:        cfg.OutStep,
		Renormalize:    cfg.Renormalize,
		CutoffFreq:     cfg.CutoffFrequency,
	}

	var writer *storage.RunWriter
	switch {
	case cfg.OutputFile == "/dev/null":
	case strings.HasSuffix(cfg.OutputFile, ".png"):
	default:
		dir := cfg.OutputFile
		if dir == "" {
			dir = filepath.Join(dataDir, fmt.Sprintf("run_%d", time.Now().Unix()))
		}
		writer, err = storage.NewRunWriter(dir, cfg, prm, len(tracers), cfg.SavePhaseSpace)
		if err != nil {
			return nil, nil, err
		}
		sim.AddObserver(writer)
		fmt.Printf("writing results to %s\n", dir)
	}
	if cfg.Verbose {
		sim.AddObserver(&statusObserver{})
	}

	return sim, writer, nil
}

func seedMesh(mesh *grid.PhaseSpace, cfg *config.Config) error {
	in := cfg.InputFile
	switch {
	case in == "":
		mesh.SeedGaussian(cfg.StartZoom)
		return nil
	case strings.HasSuffix(in, ".png"):
		data, err := storage.LoadPNG(in, cfg.GridSize)
		if err != nil {
			return err
		}
		return mesh.SetData(data)
	case strings.HasSuffix(in, ".txt"):
		return storage.LoadText(in, mesh)
	default:
		data, err := storage.LoadRunFrame(in, cfg.StartDistStep, cfg.GridSize)
		if err != nil {
			return err
		}
		return mesh.SetData(data)
	}
}

func buildImpedance(cfg *config.Config, prm *config.Params) (*impedance.Impedance, error) {
	nf := cfg.GridSize * cfg.Padding
	if nf < cfg.GridSize {
		nf = cfg.GridSize
	}

	if cfg.ImpedanceFile != "" {
		imp, err := impedance.FromFile(cfg.ImpedanceFile, nf, prm.FMax)
		if err != nil {
			return nil, err
		}
		return imp, nil
	}

	if cfg.VacuumGap > 0 {
		imp, err := impedance.ParallelPlatesCSR(nf, prm.F0, prm.FMax, cfg.VacuumGap)
		if err != nil {
			return nil, err
		}
		if cfg.WallConductivity > 0 && cfg.WallSusceptibility >= -1 {
			rw, err := impedance.ResistiveWall(nf, prm.F0, prm.FMax,
				cfg.WallConductivity, cfg.WallSusceptibility, cfg.VacuumGap/2)
			if err != nil {
				return nil, err
			}
			if err := imp.Add(rw); err != nil {
				return nil, err
			}
		}
		if cfg.CollimatorRadius > 0 {
			col, err := impedance.CollimatorImpedance(nf, prm.FMax,
				cfg.VacuumGap/2, cfg.CollimatorRadius)
			if err != nil {
				return nil, err
			}
			if err := imp.Add(col); err != nil {
				return nil, err
			}
		}
		return imp, nil
	}

	if cfg.WallConductivity > 0 {
		fmt.Fprintln(os.Stderr, styleWarn.Render("resistive wall impedance is ignored in free space"))
	}
	return impedance.FreeSpaceCSR(nf, prm.F0, prm.FMax)
}

func printDerived(cfg *config.Config, prm *config.Params, backend compute.Backend) {
	fmt.Println(styleHeader.Render("derived parameters"))
	fmt.Printf("  backend:                 %s\n", backend.Name())
	fmt.Printf("  synchrotron frequency:   %.6g Hz\n", prm.FSUnscaled)
	fmt.Printf("  momentum compaction:     %.6g\n", prm.Alpha0)
	fmt.Printf("  natural bunch length:    %.6g m\n", prm.BunchLength)
	fmt.Printf("  steps per revolution:    %.1f\n", 1/prm.RevolutionPart)
	fmt.Printf("  rotation offset:         %.3f (should be < 1)\n", prm.RotationOffset)
	if cfg.VacuumGap != 0 {
		fmt.Printf("  shielding (g=gap):       %.4f\n", prm.Shield)
		fmt.Printf("  shielding (h=gap/2):     %.4f\n", prm.ShieldHalf)
		cmp := "<"
		if prm.CurrentScal > prm.ThresholdI {
			cmp = ">"
		}
		fmt.Printf("  CSR strength:            %.4f (current %s threshold %.3e A)\n",
			prm.CSRStrength, cmp, prm.ThresholdI)
	}
	if prm.EpsilonFP > 0 {
		fmt.Printf("  damping per step:        %.3e\n", prm.EpsilonFP)
	}
}

type statusObserver struct{}

func (statusObserver) OnSnapshot(s *engine.Snapshot) error {
	fmt.Printf("  t=%8.3f T_s  integral=%.6f  sigma_p=%.4f  csr=%.3e\n",
		s.Time, s.Integral, s.SigmaP, s.CSRPower)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.ListRuns(dataDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found in", dataDir)
		return nil
	}
	fmt.Println(styleHeader.Render("id\tgrid\tsteps\tf_s [Hz]\tCSR strength\ttime"))
	for _, r := range runs {
		fmt.Printf("%s\t%d\t%d\t%.4g\t%.3f\t%s\n",
			r.ID, r.GridSize, r.TotalSteps, r.SyncFreq, r.CSRStrength,
			styleDim.Render(r.Timestamp.Format(time.RFC3339)))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	dir := filepath.Join(dataDir, args[0])
	if _, err := os.Stat(dir); err != nil {
		// allow absolute run directories too
		dir = args[0]
	}

	var series []float64
	var caption string
	switch plotWhat {
	case "xproj":
		_, v, err := storage.LoadSeries(filepath.Join(dir, "projections", "x.csv"))
		if err != nil {
			return err
		}
		series, caption = v, "charge profile"
	case "yproj":
		_, v, err := storage.LoadSeries(filepath.Join(dir, "projections", "y.csv"))
		if err != nil {
			return err
		}
		series, caption = v, "energy profile"
	case "wake":
		_, v, err := storage.LoadSeries(filepath.Join(dir, "wake", "wake.csv"))
		if err != nil {
			return err
		}
		series, caption = v, "wake potential"
	case "csr":
		v, err := storage.LoadColumn(filepath.Join(dir, "field", "csr_power.csv"), 2)
		if err != nil {
			return err
		}
		series, caption = v, "CSR power history"
	default:
		return errors.New("unknown plot target: " + plotWhat)
	}
	if len(series) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(20),
		asciigraph.Caption(caption)))
	return nil
}
