package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	log         zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "denali",
	Short: "Run Denali scenario files against the mock VM",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"log every executed step")

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.NewConsoleWriter()).Level(level)
}
