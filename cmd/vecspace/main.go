// SPDX-License-Identifier: MIT

// Command vecspace runs vector and operator arithmetic from the shell.
//
// Usage:
//
//	vecspace [--config f] [--threshold n] [--log-level l] <command>
//
// Commands:
//
//	dot a b                 inner product
//	add a b | sub a b       dense/sparse arithmetic
//	sum v...                fold of every operand
//	vandermonde --betas b x Vandermonde operator applied to x
//	threshold               active parallelism policy
//	encode --out f v        binary persistence
//	decode f
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/vecspace/codec"
	"github.com/katalvlaran/vecspace/config"
	"github.com/katalvlaran/vecspace/parallel"
	"github.com/katalvlaran/vecspace/tensor"
	"github.com/katalvlaran/vecspace/vector"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are the persistent overrides applied on top of config.Load.
type globalFlags struct {
	configPath string
	threshold  int
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "vecspace",
		Short:         "Dense/sparse vector and linear operator arithmetic",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file")
	root.PersistentFlags().IntVar(&g.threshold, "threshold", 0, "parallelism threshold (overrides config)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "debug | info | warn | error (overrides config)")

	root.AddCommand(
		newDotCmd(),
		newBinaryCmd("add", "Add two vectors", vector.Add),
		newBinaryCmd("sub", "Subtract the second vector from the first", vector.Sub),
		newSumCmd(),
		newVandermondeCmd(),
		newThresholdCmd(),
		newEncodeCmd(g),
		newDecodeCmd(),
	)

	return root
}

// setup loads configuration, applies flag overrides and installs the result.
func (g *globalFlags) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Parallel.Threshold = g.threshold
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	logger, err := cfg.Apply(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.Debug("configuration applied",
		"threshold", cfg.Parallel.Threshold,
		"compression", cfg.Codec.Compression,
	)
	g.cfg = cfg

	return nil
}

func newDotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot <a> <b>",
		Short: "Inner product of two vectors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := parsePair(args)
			if err != nil {
				return err
			}
			dot, err := vector.Dot(a, b)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%g\n", dot)
			return err
		},
	}
}

func newBinaryCmd(use, short string, op func(a, b vector.Vector) (vector.Vector, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <a> <b>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := parsePair(args)
			if err != nil {
				return err
			}
			out, err := op(a, b)
			if err != nil {
				return err
			}
			return printVector(cmd.OutOrStdout(), out)
		},
	}
}

func newSumCmd() *cobra.Command {
	var par bool
	cmd := &cobra.Command{
		Use:   "sum <v>...",
		Short: "Sum every operand",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vs := make([]vector.Vector, len(args))
			for i, arg := range args {
				v, err := parseVector(arg)
				if err != nil {
					return err
				}
				vs[i] = v
			}
			fold := vector.Sum
			if par {
				fold = vector.ParallelSum
			}
			out, _, err := fold(vs)
			if err != nil {
				return err
			}
			return printVector(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&par, "parallel", false, "fold partitions concurrently")

	return cmd
}

func newVandermondeCmd() *cobra.Command {
	var betas string
	cmd := &cobra.Command{
		Use:   "vandermonde --betas <b0,b1,...> <x>",
		Short: "Evaluate the polynomial with coefficients x at every beta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := parseDense(betas)
			if err != nil {
				return fmt.Errorf("--betas: %w", err)
			}
			x, err := parseDense(args[0])
			if err != nil {
				return err
			}
			y, err := tensor.Vandermonde(bs.Values()).Apply(x)
			if err != nil {
				return err
			}
			return printVector(cmd.OutOrStdout(), y)
		},
	}
	cmd.Flags().StringVar(&betas, "betas", "", "evaluation points")
	_ = cmd.MarkFlagRequired("betas")

	return cmd
}

func newThresholdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "threshold",
		Short: "Print the active parallelism policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := parallel.Current()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "threshold=%d sqrt_threshold=%d\n", p.Threshold, p.SqrtThreshold)
			return err
		},
	}
}

func newEncodeCmd(g *globalFlags) *cobra.Command {
	var out, comp string
	cmd := &cobra.Command{
		Use:   "encode --out <file> <v>",
		Short: "Write a vector in the binary codec format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVector(args[0])
			if err != nil {
				return err
			}
			c := g.cfg.Compression()
			if comp != "" {
				if c, err = codec.ParseCompression(comp); err != nil {
					return err
				}
			}
			b, err := codec.Encode(v, c)
			if err != nil {
				return err
			}
			if err = os.WriteFile(out, b, 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes (%s, %s)\n", out, len(b), v.Kind(), c)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file")
	cmd.Flags().StringVar(&comp, "compression", "", "none | lz4 | zstd (overrides config)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "Print a vector written by encode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			v, err := codec.Read(f)
			if err != nil {
				return err
			}
			return printVector(cmd.OutOrStdout(), v)
		},
	}
}

func parsePair(args []string) (vector.Vector, vector.Vector, error) {
	a, err := parseVector(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := parseVector(args[1])
	if err != nil {
		return nil, nil, err
	}

	return a, b, nil
}

func printVector(w io.Writer, v vector.Vector) error {
	_, err := fmt.Fprintln(w, v)
	return err
}
