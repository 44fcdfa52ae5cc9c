// gravrun is a terminal side-scrolling runner with double jumps, dashes and
// gravity inversion.
//
// Usage:
//
//	gravrun play             - Play in the current terminal
//	gravrun serve            - Start SSH server for remote play
//	gravrun scores           - Show the best recorded runs
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.gravrun/runs.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gravrun",
	Short: "Gravity Runner - dodge, dash and flip gravity in your terminal",
	Long: `Gravity Runner is an endless terminal runner. Obstacles scroll in from
the right; survive as long as you can with double jumps, dashes and
gravity inversion.

Available commands:
  play     - Play in the current terminal
  serve    - Start SSH server for remote play
  scores   - View the best recorded runs

Examples:
  gravrun play
  gravrun play --difficulty hard
  gravrun serve --ssh :2222
  gravrun scores`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gravrun/runs.db", "Path to runs database")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
