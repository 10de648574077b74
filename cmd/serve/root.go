package serve

import (
	cmdUtil "github.com/ValentinKolb/travels/cmd/util"
	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/ValentinKolb/travels/rpc/server"
	"github.com/ValentinKolb/travels/rpc/transport/http"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Load the data and start the travels server",
		Long:    `Load the data source, audit the indices and start the travels server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is TRAVELS_<flag> (e.g. TRAVELS_DATA_PATH=/data/data.zip)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:80", cmdUtil.WrapString("The address on which the API will listen"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("Read and write timeout of a request in seconds (0 disables the timeout)"))

	key = "data-path"
	ServeCmd.PersistentFlags().String(key, "/tmp/data/data.zip", cmdUtil.WrapString("The data directory or .zip archive holding the users_N.json, locations_N.json and visits_N.json batches"))

	key = "options-file"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The options file holding the reference time and the mode (default: options.txt next to the data)"))

	key = "reference-time"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("Overrides the reference time (epoch seconds) of the options file"))

	key = "zero-as-absent"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Treat zero and empty values in partial updates as not supplied (legacy behaviour, a field can not be set to zero or empty)"))

	key = "verify-indexes"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Audit the indices after loading the data (always skipped in rating mode)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Serializer = viper.GetString("serializer")
	serveCmdConfig.DataPath = viper.GetString("data-path")
	serveCmdConfig.OptionsFile = viper.GetString("options-file")
	serveCmdConfig.ReferenceTime = viper.GetInt64("reference-time")
	serveCmdConfig.ZeroAsAbsent = viper.GetBool("zero-as-absent")
	serveCmdConfig.VerifyIndexes = viper.GetBool("verify-indexes")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return serveCmdConfig.Validate()
}

// run starts the travels server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	s, err := serializer.New(serveCmdConfig.Serializer)
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		http.NewHttpServerTransport(),
		s,
	)

	return serv.Serve()
}
