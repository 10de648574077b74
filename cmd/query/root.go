package query

import (
	"github.com/ValentinKolb/travels/cmd/util"
	"github.com/ValentinKolb/travels/rpc/client"
	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rpcClient     *client.RPCClient
	rpcSerializer serializer.IRPCSerializer

	// QueryCommands represents the query command group
	QueryCommands = &cobra.Command{
		Use:                "query",
		Short:              "Query a running travels server",
		PersistentPreRunE:  setupClient,
		PersistentPostRunE: closeClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common RPC flags to the query command
	util.SetupRPCClientFlags(QueryCommands)

	QueryCommands.PersistentFlags().String("log-level", "warn", util.WrapString("LogLevel of the client (debug, info, warn, error)"))

	// Add subcommands
	QueryCommands.AddCommand(userCmd)
	QueryCommands.AddCommand(locationCmd)
	QueryCommands.AddCommand(visitCmd)
	QueryCommands.AddCommand(visitsCmd)
	QueryCommands.AddCommand(avgCmd)
	QueryCommands.AddCommand(markCmd)
	QueryCommands.AddCommand(perfTestCmd)
}

// setupClient initializes the RPC client
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggersWithLevel(viper.GetString("log-level")); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()

	// Get serializer and transport
	var err error
	rpcSerializer, err = util.GetSerializer()
	if err != nil {
		return err
	}

	// Create the client
	rpcClient, err = client.NewRPCClient(
		*config,
		util.GetTransport(),
		rpcSerializer,
	)

	return err
}

func closeClient(_ *cobra.Command, _ []string) error {
	if rpcClient == nil {
		return nil
	}
	return rpcClient.Close()
}
