package inspect

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ValentinKolb/travels/cmd/util"
	"github.com/ValentinKolb/travels/lib/loader"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/ValentinKolb/travels/rpc/server"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inspectCmdConfig = &common.ServerConfig{}
	InspectCmd       = &cobra.Command{
		Use:     "inspect",
		Short:   "Load a data source offline, audit the indices and print statistics",
		Long:    `Load a data source the same way the server does, without serving it. The indices are audited and the record counts and index statistics are printed as JSON. A non zero exit code means the data could not be loaded or the audit failed.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

// report is printed by the inspect command
type report struct {
	Source   string        `json:"source"`
	Options  string        `json:"options_file"`
	Mode     string        `json:"mode"`
	Loaded   loader.Counts `json:"loaded"`
	LoadTime string        `json:"load_time"`
	Audit    string        `json:"audit"`
	Store    store.Info    `json:"store"`
}

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	key := "data-path"
	InspectCmd.Flags().String(key, "/tmp/data/data.zip", util.WrapString("The data directory or .zip archive to inspect"))

	key = "options-file"
	InspectCmd.Flags().String(key, "", util.WrapString("The options file holding the reference time and the mode (default: options.txt next to the data)"))

	key = "reference-time"
	InspectCmd.Flags().Int64(key, 0, util.WrapString("Overrides the reference time (epoch seconds) of the options file"))

	key = "log-level"
	InspectCmd.Flags().String(key, "warn", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	inspectCmdConfig.DataPath = viper.GetString("data-path")
	inspectCmdConfig.OptionsFile = viper.GetString("options-file")
	inspectCmdConfig.ReferenceTime = viper.GetInt64("reference-time")
	inspectCmdConfig.LogLevel = viper.GetString("log-level")

	if inspectCmdConfig.DataPath == "" {
		return errors.New("data path must not be empty")
	}
	return common.InitLoggersWithLevel(inspectCmdConfig.LogLevel)
}

func run(_ *cobra.Command, _ []string) error {
	s, err := serializer.New(viper.GetString("serializer"))
	if err != nil {
		return err
	}

	start := time.Now()
	st, opts, counts, err := server.Bootstrap(*inspectCmdConfig, s)
	if err != nil {
		return err
	}

	r := report{
		Source:   inspectCmdConfig.DataPath,
		Options:  inspectCmdConfig.OptionsPath(),
		Mode:     opts.Mode.String(),
		Loaded:   counts,
		LoadTime: time.Since(start).String(),
		Audit:    "passed",
	}

	auditErr := st.Verify()
	if auditErr != nil {
		r.Audit = auditErr.Error()
	}
	r.Store = st.Info()

	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return auditErr
}
