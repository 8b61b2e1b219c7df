package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "INVENTORY"

var configDir string

var rootCmd = &cobra.Command{
	Use:   "inventory-management",
	Short: "Inventory Management",
	Long:  `Role-based inventory and user management with an audit trail.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")

	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.allowed_origins", "")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 30*time.Second)
	v.SetDefault("http_server.write_timeout", 30*time.Second)
	v.SetDefault("http_server.idle_timeout", 120*time.Second)
	v.SetDefault("http_server.max_upload_bytes", 10<<20)

	for _, store := range []string{"users", "inventory", "logs"} {
		prefix := "stores." + store + "."
		v.SetDefault(prefix+"driver", "sqlite")
		v.SetDefault(prefix+"source", fmt.Sprintf("file:%s.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", store))
		v.SetDefault(prefix+"max_open_conns", 10)
		v.SetDefault(prefix+"max_idle_conns", 5)
		v.SetDefault(prefix+"conn_max_lifetime", 30*time.Minute)
		v.SetDefault(prefix+"conn_max_idle_time", 5*time.Minute)
	}

	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.session_secret", "")
	v.SetDefault("security.session_ttl", 31*24*time.Hour)
	v.SetDefault("security.session_cookie_name", "inventory_session")
	v.SetDefault("security.cookie_secure", false)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
}

// loadConfig layers defaults, an optional config.yml in path, a .env file and
// INVENTORY_* environment variables, in increasing precedence.
func loadConfig(path string) (*internal.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Configure(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importUsersCmd)
}
