package main

import (
	"errors"

	"github.com/TomTonic/hashbench/internal/power"
	"github.com/spf13/cobra"
)

func newPowerCmd() *cobra.Command {
	var (
		buckets int
		factor  float64
		weights string
		req     power.Request
	)
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Power and dataset size of the chi-square uniformity test",
		Long: `Compute how likely the chi-square uniformity test is to flag a skewed hash
function at a given dataset size, or the size needed to reach a target power.

The skew is either a hot bucket (--buckets with --factor: one bucket gets
factor times its fair share) or explicit bucket weights (--weights).

Example: how many elements reveal one of 6 buckets getting 18% instead of 1/6?
  hashbench power --buckets 6 --factor 1.08 --target 0.80 --sims 10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch {
			case weights != "":
				req.Alt, err = power.ParseWeights(weights)
			case buckets > 0:
				req.Alt, err = power.HotBucket(buckets, factor)
			default:
				err = errors.New("please provide --buckets or --weights")
			}
			if err != nil {
				return err
			}
			res, err := power.Analyze(req)
			if err != nil {
				return err
			}
			res.Print(cmd.OutOrStdout())
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&buckets, "buckets", 0, "number of buckets of the hot-bucket alternative")
	f.Float64Var(&factor, "factor", 2, "share of the hot bucket as a multiple of 1/buckets")
	f.StringVar(&weights, "weights", "", "comma-separated bucket weights (instead of --buckets)")
	f.Float64Var(&req.Alpha, "alpha", 0.05, "significance level alpha")
	f.Uint64Var(&req.N, "n", 1000, "dataset size")
	f.Float64Var(&req.Target, "target", 0, "target power; if set, solve for the dataset size")
	f.Float64Var(&req.Tol, "tol", power.DefaultTol, "Poisson tail weight of the noncentral CDF")
	f.IntVar(&req.Trials, "sims", 0, "simulated datasets cross-checking the analytic power (0 = off)")
	f.Uint64Var(&req.Seed, "seed", 1, "simulation seed")
	return cmd
}
