package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	dbPath    string
	redisURL  string
	logLevel  string
	assetsDir string
	threshold float64
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "case-map",
	Short: "Terminal browser for Section 106 consultation cases",
	Long: `Case-Map is a terminal browser for Section 106 consultation cases. It loads
normalized case exports into a local SQLite store and lets you explore them
on a map of U.S. states or as a paginated card grid.

Features:
- Free-text filtering backed by a ranked full-text index
- Map markers aggregated per state, clustered by proximity
- Card grid with a detail overlay and share links
- Folder ingest of JSON, JSONL and YAML exports, with watch mode
- Optional Redis Streams publishing of shares and queries`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.case-map.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/case-map.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "", "Redis connection URL (empty disables the bus)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets", "./images", "Icon directory or http(s) base URL")
	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", 0, "Minimum search score of a filter match")

	// Bind flags to viper
	viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("assets.source", rootCmd.PersistentFlags().Lookup("assets"))
	viper.BindPFlag("filter.score_threshold", rootCmd.PersistentFlags().Lookup("threshold"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".case-map" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".case-map")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("database.path", "./data/case-map.db")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("map.access_token", "")
	viper.SetDefault("map.attribution", "© OpenStreetMap contributors")
	viper.SetDefault("filter.score_threshold", 0.0)
	viper.SetDefault("cases.statuses", []string{"Open", "Reopened"})
	viper.SetDefault("assets.source", "./images")
	viper.SetDefault("layout.compact_height", 40)
	viper.SetDefault("layout.narrow_width", 80)
	viper.SetDefault("ui.theme", "dark")
}

// GetConfig returns the current configuration values
func GetConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("redis.url"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
		Map: MapConfig{
			AccessToken: viper.GetString("map.access_token"),
			Attribution: viper.GetString("map.attribution"),
		},
		Filter: FilterConfig{
			ScoreThreshold: viper.GetFloat64("filter.score_threshold"),
		},
		Cases: CasesConfig{
			Statuses: viper.GetStringSlice("cases.statuses"),
		},
		Assets: AssetsConfig{
			Source: viper.GetString("assets.source"),
		},
		Layout: LayoutConfig{
			CompactHeight: viper.GetInt("layout.compact_height"),
			NarrowWidth:   viper.GetInt("layout.narrow_width"),
		},
		UI: UIConfig{
			Theme: viper.GetString("ui.theme"),
		},
	}
}

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Map      MapConfig      `mapstructure:"map"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Cases    CasesConfig    `mapstructure:"cases"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	UI       UIConfig       `mapstructure:"ui"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MapConfig holds the tile provider credential. The terminal map draws no
// tiles, so the token is passed through untouched and only the
// attribution is shown.
type MapConfig struct {
	AccessToken string `mapstructure:"access_token"`
	Attribution string `mapstructure:"attribution"`
}

type FilterConfig struct {
	ScoreThreshold float64 `mapstructure:"score_threshold"`
}

type CasesConfig struct {
	Statuses []string `mapstructure:"statuses"`
}

type AssetsConfig struct {
	Source string `mapstructure:"source"`
}

type LayoutConfig struct {
	CompactHeight int `mapstructure:"compact_height"`
	NarrowWidth   int `mapstructure:"narrow_width"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}
