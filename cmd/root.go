package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cfgFile stores an optional explicit path to a config file
// (if not provided we try ./pathresolver.config.json by default).
var cfgFile string

// setEdits holds --set flags; they take precedence over "set" from config.
var setEdits []string

var rootCmd = &cobra.Command{
	Use:   "pathresolver",
	Short: "Map debug target URLs and paths to workspace files",
	// PersistentPreRunE executes before any subcommand; we use it to load config/env.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(".")
			viper.SetConfigName("pathresolver.config")
		}

		// PATHRESOLVER_WORKSPACE, PATHRESOLVER_LOG_LEVEL, ...
		viper.SetEnvPrefix("PATHRESOLVER")
		viper.SetEnvKeyReplacer(envKeys)
		viper.AutomaticEnv()

		// Read config file if present; it's ok if none is found.
		if err := viper.ReadInConfig(); err == nil {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute is called from main.go and starts the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default: ./pathresolver.config.{json,yaml,toml})")
	f.String("workspace", ".", "workspace folder; ${workspaceFolder} in launch configurations")
	f.String("launch", "", "launch.json or single configuration file (default: <workspace>/.vscode/launch.json)")
	f.String("name", "", "configuration name inside launch.json (default: first)")
	f.String("client-id", "", "front-end client id, e.g. vscode or visualstudio")
	f.String("initialize", "", "file holding the client's DAP initialize request")
	f.StringArrayVar(&setEdits, "set", nil, "edit the launch configuration before use, key=value (repeatable)")
	f.String("log-level", "info", "trace|debug|info|warn|error")
	f.String("log-format", "text", "text|json")
	f.String("log-file", "", "write logs to a rotating file instead of stderr")

	// Bind these flags to viper keys so config/env/flags merge cleanly.
	_ = viper.BindPFlag("workspace", f.Lookup("workspace"))
	_ = viper.BindPFlag("launch", f.Lookup("launch"))
	_ = viper.BindPFlag("name", f.Lookup("name"))
	_ = viper.BindPFlag("clientId", f.Lookup("client-id"))
	_ = viper.BindPFlag("initialize", f.Lookup("initialize"))
	_ = viper.BindPFlag("log.level", f.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", f.Lookup("log-format"))
	_ = viper.BindPFlag("log.file", f.Lookup("log-file"))
}
