package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/spf13/cobra"
)

var (
	configFiles []string
	level       string
	// version is set at link time with -ldflags "-X github.com/cmmoran/ctorinject/cmd.version=...".
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ctorinject",
	Short: "dependency injection refactorings for C#",
	Long:  "Offer and apply constructor-injection refactorings to C# class declarations",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "warn", "log level (debug, info, warn, error, debug+1, trace, etc)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
	rootCmd.PersistentFlags().StringSlice("catalog", []string{}, "type catalog file(s) describing types declared outside the scanned sources")
	rootCmd.PersistentFlags().String("guards", "auto", "null guards in synthesized constructors (auto, always, never)")

	_ = viper.BindPFlag("catalogs", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("guards", rootCmd.PersistentFlags().Lookup("guards"))
	viper.SetDefault("policies.fields", true)
	viper.SetDefault("policies.properties", true)
	viper.SetDefault("policies.introduce_field", true)
	viper.SetDefault("scan.concurrency", 0)
}

func parseLevel(s string) slog.Level {
	var ll slog.Level
	if err := (&ll).UnmarshalText([]byte(s)); err != nil {
		if strings.EqualFold(s, "trace") {
			return slog.Level(-8)
		}
		panic("invalid log level: " + s)
	}
	return ll
}

func newLogger(ll slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       ll,
		ReplaceAttr: nil,
	}))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	ll := parseLevel(level)
	l := newLogger(ll)
	slog.SetDefault(l)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/ctorinject")
		viper.SetConfigType("yaml")
		viper.SetConfigName("ctorinject")
	}

	viper.SetEnvPrefix("CTORINJECT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Info("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Info("merged config file")
				}
			}
		}
	}
	viper.Set("version", version)

	// A level from config applies only when the flag was left at its default.
	llstr := viper.GetString("common.log.level")
	if llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		slog.SetDefault(newLogger(parseLevel(llstr)))
	}
}
