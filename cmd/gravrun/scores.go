package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/velocitylab/gravity-runner/internal/platform/tui"
	"github.com/velocitylab/gravity-runner/internal/storage"
)

var (
	flagScoresLimit int
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best recorded runs",
	Long: `Display the top runs ordered by distance.

Examples:
  gravrun scores
  gravrun scores --limit 25
  gravrun scores --interactive`,
	Run: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Browse runs in a scrollable table")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if _, err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error showing scoreboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.TopRuns(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Best Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'gravrun play' to set the first record!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %-5s  %-8s  %s\n", "Rank", "Distance", "Score", "Lvl", "Time", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-5s  %-8s  %s\n", "----", "--------", "-----", "---", "----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-10s  %-8d  %-5d  %-8s  %s\n",
			i+1,
			fmt.Sprintf("%dm", int(r.Distance)),
			r.Score,
			r.Difficulty,
			r.Duration.String(),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	best, err := store.BestDistance()
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %dm\n", int(best))
	}
}
