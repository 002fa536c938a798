package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/geom"
	"github.com/matzehuels/circlepack/pkg/pack"
	"github.com/matzehuels/circlepack/pkg/render"
	"github.com/matzehuels/circlepack/pkg/scene"
	"github.com/matzehuels/circlepack/pkg/store"
)

// packOpts holds the command-line flags for the pack command.
// Unset flags fall back to the config file, then to the built-in defaults.
type packOpts struct {
	count      int     // number of circles to place
	minRadius  float64 // smallest sampled radius
	maxRadius  float64 // largest sampled radius
	algorithm  string  // algorithm variant: simple, fast, double, random
	iterations int     // iteration budget
	damping    float64 // initial contraction factor
	decay      float64 // per-iteration damping multiplier
	tolerance  float64 // extra allowed overlap before a pair counts as colliding
	seed       uint64  // random seed
	output     string  // optional output file (.svg, .png, or .json)
	noStore    bool    // skip committing the scene to the store
	force      bool    // ignore the scene index and always re-pack
}

// newPackCmd creates the pack command. It runs a full relaxation to
// convergence (or budget exhaustion), commits the resulting scene to the
// configured store, and optionally writes a rendered output file.
//
// When a Redis scene index is configured, identical parameters resolve to
// the already-committed scene instead of re-running the simulation. Use
// --force to bypass the index.
func newPackCmd() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Run a packing simulation and commit the scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			applyPackConfig(cmd, &opts, cfg)
			return runPack(cmd, &opts, cfg)
		},
	}

	def := DefaultConfig().Pack
	cmd.Flags().IntVarP(&opts.count, "count", "n", def.Count, "number of circles")
	cmd.Flags().Float64Var(&opts.minRadius, "min-radius", def.MinRadius, "minimum circle radius")
	cmd.Flags().Float64Var(&opts.maxRadius, "max-radius", def.MaxRadius, "maximum circle radius")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", def.Algorithm, "algorithm: simple, fast, double, random")
	cmd.Flags().IntVar(&opts.iterations, "iterations", def.Iterations, "iteration budget")
	cmd.Flags().Float64Var(&opts.damping, "damping", def.Damping, "initial contraction damping")
	cmd.Flags().Float64Var(&opts.decay, "decay", def.Decay, "per-iteration damping decay")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", def.Tolerance, "allowed overlap tolerance")
	cmd.Flags().Uint64Var(&opts.seed, "seed", pack.DefaultSeed, "random seed")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg, .png, or .json)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "do not commit the scene to the store")
	cmd.Flags().BoolVar(&opts.force, "force", false, "ignore the scene index and re-pack")

	return cmd
}

// applyPackConfig fills in config-file values for flags the user did not
// set. Flag defaults come from DefaultConfig, so only explicitly configured
// values differ.
func applyPackConfig(cmd *cobra.Command, opts *packOpts, cfg Config) {
	if !cmd.Flags().Changed("count") && cfg.Pack.Count > 0 {
		opts.count = cfg.Pack.Count
	}
	if !cmd.Flags().Changed("min-radius") && cfg.Pack.MinRadius > 0 {
		opts.minRadius = cfg.Pack.MinRadius
	}
	if !cmd.Flags().Changed("max-radius") && cfg.Pack.MaxRadius > 0 {
		opts.maxRadius = cfg.Pack.MaxRadius
	}
	if !cmd.Flags().Changed("algorithm") && cfg.Pack.Algorithm != "" {
		opts.algorithm = cfg.Pack.Algorithm
	}
	if !cmd.Flags().Changed("iterations") && cfg.Pack.Iterations > 0 {
		opts.iterations = cfg.Pack.Iterations
	}
	if !cmd.Flags().Changed("damping") && cfg.Pack.Damping > 0 {
		opts.damping = cfg.Pack.Damping
	}
	if !cmd.Flags().Changed("decay") && cfg.Pack.Decay > 0 {
		opts.decay = cfg.Pack.Decay
	}
	if !cmd.Flags().Changed("tolerance") && cfg.Pack.Tolerance > 0 {
		opts.tolerance = cfg.Pack.Tolerance
	}
}

// params assembles the scene parameters recorded with a committed scene.
func (o *packOpts) params() scene.Params {
	return scene.Params{
		Count:      o.count,
		MinRadius:  o.minRadius,
		MaxRadius:  o.maxRadius,
		Algorithm:  o.algorithm,
		Damping:    o.damping,
		Decay:      o.decay,
		Tolerance:  o.tolerance,
		Iterations: o.iterations,
		Seed:       o.seed,
	}
}

// runPack executes the pack command.
func runPack(cmd *cobra.Command, opts *packOpts, cfg Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	algorithm, err := pack.ParseAlgorithm(opts.algorithm)
	if err != nil {
		return err
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close(ctx)

	index, err := openIndex(cmd, cfg)
	if err != nil {
		logger.Warn("scene index unavailable", "error", err)
		index = nil
	}
	if index != nil {
		defer index.Close()
	}

	params := opts.params()

	// Identical parameters produce identical scenes, so a previously
	// committed run can be reused outright.
	if index != nil && !opts.force && !opts.noStore {
		if sc, ok := lookupScene(ctx, index, st, params); ok {
			printSuccess("Reused committed scene %s", StyleNumber.Render(sc.ID))
			printStats(len(sc.Circles), sc.Iterations, sc.Converged)
			return writeOutput(opts.output, sc)
		}
	}

	prog := newProgress(logger)
	packer, err := pack.New(geom.Pt(0, 0), pack.Options{
		Count:     opts.count,
		MinRadius: opts.minRadius,
		MaxRadius: opts.maxRadius,
		Seed:      opts.seed,
	})
	if err != nil {
		return err
	}

	runner := pack.NewRunner(logger)
	result, err := runner.Run(ctx, packer, pack.RunOptions{
		Algorithm:  algorithm,
		Iterations: opts.iterations,
		Damping:    opts.damping,
		Decay:      opts.decay,
		Tolerance:  opts.tolerance,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d circles", opts.count))

	sc := scene.FromPacker(packer, params, result)

	if !opts.noStore {
		// Backends mark transient failures as Retryable, so the commit
		// gets a few attempts before the run's work is thrown away.
		err := store.RetryWithBackoff(ctx, func() error {
			return st.Put(ctx, sc)
		})
		if err != nil {
			return fmt.Errorf("committing scene: %w", err)
		}
		if index != nil {
			err := store.RetryWithBackoff(ctx, func() error {
				return index.Bind(ctx, params, sc.ID)
			})
			if err != nil {
				logger.Warn("binding scene index", "error", err)
			}
		}
		printSuccess("Committed scene %s", StyleNumber.Render(sc.ID))
	}
	if !result.Converged {
		printWarning("did not converge within %d iterations", result.Iterations)
	}
	printStats(len(sc.Circles), sc.Iterations, sc.Converged)

	return writeOutput(opts.output, sc)
}

// lookupScene resolves params through the index and fetches the scene. A
// stale index entry (scene deleted from the store) is treated as a miss.
func lookupScene(ctx context.Context, index *store.Index, st store.Store, params scene.Params) (scene.Scene, bool) {
	id, err := index.Lookup(ctx, params)
	if err != nil {
		return scene.Scene{}, false
	}
	sc, err := st.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			loggerFromContext(ctx).Warn("fetching indexed scene", "id", id, "error", err)
		}
		return scene.Scene{}, false
	}
	return sc, true
}

// writeOutput renders the scene into the format implied by the output
// file's extension. An empty path writes nothing.
func writeOutput(path string, sc scene.Scene) error {
	if path == "" {
		return nil
	}

	var data []byte
	switch ext := filepath.Ext(path); ext {
	case ".svg":
		data = render.SVG(sc)
	case ".png":
		var err error
		data, err = render.PNG(sc)
		if err != nil {
			return fmt.Errorf("rendering png: %w", err)
		}
	case ".json":
		var err error
		data, err = scene.Marshal(sc)
		if err != nil {
			return fmt.Errorf("encoding scene: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q (use .svg, .png, or .json)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	printFile(path)
	return nil
}
