package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/velocitylab/gravity-runner/internal/config"
	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/platform/tui"
	"github.com/velocitylab/gravity-runner/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the current terminal",
	Long: `Start a run in the current terminal.

Controls:
  A/D or arrows - Move left/right
  Space/W/Up    - Jump (press again in the air for a double jump)
  X             - Dash
  G/S/Down      - Flip gravity
  P             - Pause
  R             - Restart (after game over)
  Q/Ctrl+C      - Quit

Difficulty presets:
  easy   - Slower scroll, wider gaps
  normal - Default tuning
  hard   - Faster scroll, tighter gaps, longer dash cooldown
  fixed  - Default tuning with level progression disabled

Examples:
  gravrun play
  gravrun play --difficulty easy
  gravrun play --config ./my-runner.yaml
  gravrun play --seed 42`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom gameplay config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty))
	}

	width, height := 80, 24 // Defaults when not a terminal
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  core.Max(1, height-1),
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without persistence
		store = nil
	}

	logger := log.New(os.Stderr)

	model, err := tui.NewGameHost(cfg, rt, store, logger)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error starting session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
