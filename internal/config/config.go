package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/starhold/battlesim/pkg/core"
)

// FileName is the config file looked up in the config directory.
const FileName = "battlesim.cfg.json"

// BattleConfig holds the engine tunables and run parameters.
type BattleConfig struct {
	LongTurnCap  int              `json:"longTurnCap" mapstructure:"longTurnCap"`
	ShortTurnCap int              `json:"shortTurnCap" mapstructure:"shortTurnCap"`
	JamConstant  float64          `json:"jamConstant" mapstructure:"jamConstant"`
	VolleyWindow float64          `json:"volleyWindow" mapstructure:"volleyWindow"`
	Seed         uint64           `json:"seed" mapstructure:"seed"` // 0 picks a time-based seed
	HomeFaction  string           `json:"homeFaction" mapstructure:"homeFaction"`
	Preferences  core.Preferences `json:"preferences" mapstructure:"preferences"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings.
type SQLiteConfig struct {
	// Path is the database file. Empty keeps the database in memory.
	Path string `json:"path" mapstructure:"path"`
	// DumpPath is where an in-memory database is written with VACUUM INTO.
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// InfluxConfig holds InfluxDB connection settings.
type InfluxConfig struct {
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// URL is the server address of the InfluxDB instance.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	Influx InfluxConfig `json:"influx" mapstructure:"influx"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level          string `json:"logLevel" mapstructure:"logLevel"`
	Dir            string `json:"logsDir" mapstructure:"logsDir"`
	Format         string `json:"logFormat" mapstructure:"logFormat"`
	GraylogEnabled bool   `json:"graylogEnabled" mapstructure:"graylogEnabled"`
	GraylogAddress string `json:"graylogAddress" mapstructure:"graylogAddress"`
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("logFormat", "text")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	def := core.DefaultPreferences()
	viper.SetDefault("battle.longTurnCap", 100)
	viper.SetDefault("battle.shortTurnCap", 10)
	viper.SetDefault("battle.jamConstant", 10.0)
	viper.SetDefault("battle.volleyWindow", 5.0)
	viper.SetDefault("battle.seed", 0)
	viper.SetDefault("battle.homeFaction", "")
	viper.SetDefault("battle.preferences.base", def.Base)
	viper.SetDefault("battle.preferences.large", def.Large)
	viper.SetDefault("battle.preferences.small", def.Small)
	viper.SetDefault("battle.preferences.station", def.Station)
	viper.SetDefault("battle.preferences.nonStation", def.NonStation)
	viper.SetDefault("battle.preferences.military", def.Military)
	viper.SetDefault("battle.preferences.civil", def.Civil)
	viper.SetDefault("battle.preferences.dangerous", def.Dangerous)
	viper.SetDefault("battle.preferences.harmless", def.Harmless)
	viper.SetDefault("battle.preferences.stranded", def.Stranded)
	viper.SetDefault("battle.preferences.mobile", def.Mobile)
	viper.SetDefault("battle.preferences.uncontrollableCivil", def.UncontrollableCivil)
	viper.SetDefault("battle.preferences.uncontrollableSmallMilitary", def.UncontrollableSmallMilitary)
	viper.SetDefault("battle.preferences.uncontrollableLargeMilitary", def.UncontrollableLargeMilitary)
	viper.SetDefault("battle.preferences.harpooned", def.Harpooned)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./battles")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "./battlesim.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "battlesim")

	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "battlesim")
	viper.SetDefault("influx.bucket", "battles")
	viper.SetDefault("influx.backupPath", "./influx_backup.lp.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "battlesim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetBattleConfig returns the engine tunables.
func GetBattleConfig() BattleConfig {
	return BattleConfig{
		LongTurnCap:  viper.GetInt("battle.longTurnCap"),
		ShortTurnCap: viper.GetInt("battle.shortTurnCap"),
		JamConstant:  viper.GetFloat64("battle.jamConstant"),
		VolleyWindow: viper.GetFloat64("battle.volleyWindow"),
		Seed:         viper.GetUint64("battle.seed"),
		HomeFaction:  viper.GetString("battle.homeFaction"),
		Preferences: core.Preferences{
			Base:                        viper.GetFloat64("battle.preferences.base"),
			Large:                       viper.GetFloat64("battle.preferences.large"),
			Small:                       viper.GetFloat64("battle.preferences.small"),
			Station:                     viper.GetFloat64("battle.preferences.station"),
			NonStation:                  viper.GetFloat64("battle.preferences.nonStation"),
			Military:                    viper.GetFloat64("battle.preferences.military"),
			Civil:                       viper.GetFloat64("battle.preferences.civil"),
			Dangerous:                   viper.GetFloat64("battle.preferences.dangerous"),
			Harmless:                    viper.GetFloat64("battle.preferences.harmless"),
			Stranded:                    viper.GetFloat64("battle.preferences.stranded"),
			Mobile:                      viper.GetFloat64("battle.preferences.mobile"),
			UncontrollableCivil:         viper.GetFloat64("battle.preferences.uncontrollableCivil"),
			UncontrollableSmallMilitary: viper.GetFloat64("battle.preferences.uncontrollableSmallMilitary"),
			UncontrollableLargeMilitary: viper.GetFloat64("battle.preferences.uncontrollableLargeMilitary"),
			Harpooned:                   viper.GetFloat64("battle.preferences.harpooned"),
		},
	}
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Influx: InfluxConfig{
			Host:       viper.GetString("influx.host"),
			Port:       viper.GetString("influx.port"),
			Protocol:   viper.GetString("influx.protocol"),
			Token:      viper.GetString("influx.token"),
			Org:        viper.GetString("influx.org"),
			Bucket:     viper.GetString("influx.bucket"),
			BackupPath: viper.GetString("influx.backupPath"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetLoggingConfig returns the log output settings.
func GetLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:          viper.GetString("logLevel"),
		Dir:            viper.GetString("logsDir"),
		Format:         viper.GetString("logFormat"),
		GraylogEnabled: viper.GetBool("graylog.enabled"),
		GraylogAddress: viper.GetString("graylog.address"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
