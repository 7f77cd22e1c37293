package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the stage catalog",
	Long: `Shows every stage with its speed, length, layout and reward. Speeds
include the difficulty scaling.`,
	Args: cobra.NoArgs,
	Run:  runStages,
}

func runStages(_ *cobra.Command, _ []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)

	stages := s.cat.Stages()
	if len(stages) == 0 {
		fmt.Println("No stages available.")
		return
	}

	maxNameLen := 4 // "Name" header
	for _, st := range stages {
		if len(st.Name) > maxNameLen {
			maxNameLen = len(st.Name)
		}
	}

	fmt.Printf("Stages (%s difficulty)\n", presetName(s))
	fmt.Println()
	fmt.Printf("  %-2s  %-*s  %5s  %6s  %5s  %9s  %5s  %s\n",
		"ID", maxNameLen, "Name", "Speed", "Length", "Coins", "Obstacles", "Walls", "Reward")
	fmt.Printf("  %-2s  %-*s  %5s  %6s  %5s  %9s  %5s  %s\n",
		"--", maxNameLen, "----", "-----", "------", "-----", "---------", "-----", "------")

	for _, st := range stages {
		reward := st.Reward.Tokens.String() + " tokens"
		if st.Reward.Badge != "" {
			reward += " + " + st.Reward.Badge
		}
		fmt.Printf("  %-2d  %-*s  %5.2f  %6.0f  %5d  %9d  %5d  %s\n",
			st.ID, maxNameLen, st.Name, st.Speed*s.cfg.Difficulty.SpeedScale, st.Length,
			len(st.CoinLayout()), len(st.Obstacles), len(st.Walls), reward)
	}

	fmt.Println()
	fmt.Println("Run 'runner play <id>' to play an unlocked stage.")
}

func presetName(s settings) string {
	if s.cfg.Difficulty.Preset == "" {
		return "normal"
	}
	return string(s.cfg.Difficulty.Preset)
}
