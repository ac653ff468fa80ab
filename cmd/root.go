package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/team-builder/internal/team"
)

const (
	app       = "team-builder"
	envPrefix = "TEAM_BUILDER"
)

type Config struct {
	Source      *SourceConfig `mapstructure:"source"`
	MaxPerSkill int           `mapstructure:"max-per-skill"`
	ExcludeFile string        `mapstructure:"exclude-file"`
	Exclude     *struct {
		Candidates []string
	}
	Team   team.Quotas `mapstructure:"team"`
	Output string      `mapstructure:"output"`
	Server *struct {
		Addr string
	}
}

type SourceConfig struct {
	Driver   string `mapstructure:"driver"`
	Users    string `mapstructure:"users"`
	Projects string `mapstructure:"projects"`
	DSNFile  string `mapstructure:"dsn-file"`
	DSN      string `mapstructure:"dsn"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "team-builder staffs project roles by matching candidate skills against skill quotas",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetDefault("source.driver", "csv")
	viper.SetDefault("source.users", "users.csv")
	viper.SetDefault("source.projects", "projects.csv")
	viper.SetDefault("source.dsn-file", "")
	viper.SetDefault("source.dsn", "")
	viper.SetDefault("max-per-skill", 10)
	viper.SetDefault("exclude-file", "")
	viper.SetDefault("output", "final_team.csv")
	viper.SetDefault("server.addr", ":8080")

	if err := viper.BindEnv("source.dsn-file", envPrefix+"_DSN_FILE"); err != nil {
		log.Fatalf("binding %s_DSN_FILE environment variable: %v", envPrefix, err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is team-builder.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command needs no config.
	if versionCmd.CalledAs() != "" {
		return
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults and env are enough without a file, but a broken file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
