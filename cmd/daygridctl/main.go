// daygridctl is a command line client for a daygrid backend. It drives the
// same offline-first store the app embeds, so every write lands in the local
// cache and pending queue first and reaches the backend on `daygridctl sync`.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	daygrid "github.com/daygrid/daygrid-go"
)

var (
	apiFlag     string
	dataDirFlag string
	sqliteFlag  bool
	batchFlag   bool

	rootCmd = &cobra.Command{
		Use:   "daygridctl",
		Short: "CLI client for the daygrid habit tracker backend",
	}
)

// newStore builds a Store from the persistent flags, falling back to
// DAYGRID_* environment configuration when --api is not set.
func newStore() (*daygrid.Store, error) {
	var opts []daygrid.Option
	if dataDirFlag != "" {
		opts = append(opts, daygrid.WithDataDir(dataDirFlag))
	}
	if sqliteFlag {
		opts = append(opts, daygrid.WithSQLiteBackend())
	}
	if batchFlag {
		opts = append(opts, daygrid.WithBatchSync(true))
	}
	if apiFlag == "" {
		return daygrid.NewFromEnv(opts...)
	}
	return daygrid.New(apiFlag, opts...)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, string(data))
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "", "Backend base URL (defaults to DAYGRID_BASE_URL)")
	rootCmd.PersistentFlags().StringVarP(&dataDirFlag, "data-dir", "d", "", "Directory for the durable store")
	rootCmd.PersistentFlags().BoolVar(&sqliteFlag, "sqlite", false, "Use the SQLite durable backend instead of a JSON file")
	rootCmd.PersistentFlags().BoolVar(&batchFlag, "batch", false, "Sync with one combined round trip instead of sequential replay")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
