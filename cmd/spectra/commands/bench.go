package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spectra"
	"github.com/hupe1980/spectra/vector"
)

var flagOps int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark raw store inserts and queries",
	Long: `Benchmark raw store inserts and queries.

Each operation inserts a generated gaussian vector and queries its three
nearest neighbors. Averages come from the store's metrics collector.

Example:
  spectra bench --ops 100`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagOps, "ops", 10, "Number of insert/query operations")
}

func runBench(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	config, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}

	metrics := &spectra.BasicMetricsCollector{}

	store, err := spectra.New(func(o *spectra.Options) {
		config.Store.apply(o)
		o.Logger = logger
		o.Metrics = metrics
	})
	if err != nil {
		return err
	}

	seed := config.Pipeline.Seed
	if seed == 0 {
		seed = 1
	}

	generator := vector.NewGenerator(store.Dimension(), seed)

	fmt.Println(titleStyle.Render(fmt.Sprintf("spectra bench (%d ops)", flagOps)))

	for i := 0; i < flagOps; i++ {
		vec, err := generator.Generate(vector.KindGaussian)
		if err != nil {
			return err
		}

		v := vector.ToFloat32(vec)

		if err := store.Insert(cmd.Context(), v, spectra.Metadata{"test": "benchmark"}); err != nil {
			return err
		}

		if _, err := store.Query(cmd.Context(), v, 3); err != nil {
			return err
		}
	}

	stats := metrics.GetStats()
	storeStats := store.Stats()

	fmt.Println(labelStyle.Render("results"))
	fmt.Printf("  avg insert %s  avg query %s\n",
		time.Duration(stats.InsertAvgNanos),
		time.Duration(stats.QueryAvgNanos),
	)
	fmt.Printf("  inserts %d  queries %d  evictions %d\n", stats.InsertCount, stats.QueryCount, stats.EvictCount)
	fmt.Printf("  backend %s  size %d/%d\n", storeStats.Backend, storeStats.Size, storeStats.MaxSize)

	return nil
}
