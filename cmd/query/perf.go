package query

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/travels/cmd/util"
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Load generator for travels servers",
		Long:    "Runs parallel lookups, queries and updates against the ids 1..ids of a loaded travels server and reports the throughput of each test.",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads = 10
	perfIDSpread   = 100
	perfSkip       = make([]string, 0)
)

// perfTest is one benchmark of the load generator
type perfTest struct {
	name string
	op   func(id uint32) error
}

var perfTests = []perfTest{
	{"get-user", func(id uint32) error {
		_, err := rpcClient.GetPerson(id)
		return err
	}},
	{"get-visit", func(id uint32) error {
		_, err := rpcClient.GetVisit(id)
		return err
	}},
	{"user-visits", func(id uint32) error {
		_, err := rpcClient.PersonVisits(id, nil)
		return err
	}},
	{"user-visits-filtered", func(id uint32) error {
		distance := uint32(50)
		_, err := rpcClient.PersonVisits(id, &model.VisitFilter{MaxDistance: &distance})
		return err
	}},
	{"location-avg", func(id uint32) error {
		_, err := rpcClient.PlaceAverage(id, nil)
		return err
	}},
	{"location-avg-filtered", func(id uint32) error {
		gender := model.GenderFemale
		_, err := rpcClient.PlaceAverage(id, &model.AverageFilter{Gender: &gender})
		return err
	}},
	{"update-visit", func(id uint32) error {
		// rewrite the current mark, the data is left unchanged
		visit, err := rpcClient.GetVisit(id)
		if err != nil {
			return err
		}
		return rpcClient.UpdateVisit(id, model.VisitUpdate{Mark: &visit.Mark})
	}},
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Tests to skip (comma separated - e.g. get-user,update-visit)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ids"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("Ids 1..ids are requested in turn, they should exist on the server"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfIDSpread = viper.GetInt("ids")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfIDSpread < 1 {
		return errors.Newf("ids must be at least 1, got %d", perfIDSpread)
	}
	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Load generator for travels servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Ids: 1..%d\n", perfIDSpread)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	for _, test := range perfTests {
		result := testing.Benchmark(func(b *testing.B) {
			if slices.Contains(perfSkip, test.name) {
				return
			}

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					id := uint32(counter%perfIDSpread) + 1
					if err := test.op(id); err != nil && !store.IsNotFound(err) {
						log.Printf("(%s) - error for id %d: %v\n", test.name, id, err)
					}
					counter++
				}
			})
		})

		results[test.name] = result
		printResult(test.name, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return errors.Wrap(err, "failed to export results to CSV")
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-24sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-24s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "Serializer",
		"Threads", "Ids",
	}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	// Write test results in the order they ran
	for _, test := range perfTests {
		result, ok := results[test.name]
		if !ok {
			continue
		}

		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test.name,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			viper.GetString("serializer"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfIDSpread),
		}

		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write row for test %s", test.name)
		}
	}

	return nil
}
