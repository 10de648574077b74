package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/travels/cmd/inspect"
	"github.com/ValentinKolb/travels/cmd/query"
	"github.com/ValentinKolb/travels/cmd/serve"
	"github.com/ValentinKolb/travels/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "travels",
		Short: "indexed store for people, places and visits",
		Long: fmt.Sprintf(`travels (v%s)

An in-memory store for people, places and the visits connecting them,
answering filtered visit lists and average ratings over HTTP.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of travels",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("travels v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(query.QueryCommands)
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "fast", util.WrapString("serializer to use (fast, std)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
