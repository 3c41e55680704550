package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all nmeahub configuration.
type Config struct {
	Source      SourceConfig      `yaml:"source" json:"source"`
	Identifiers IdentifiersConfig `yaml:"identifiers" json:"identifiers"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	MQTT        MQTTConfig        `yaml:"mqtt" json:"mqtt"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`

	path string // file path for save/load
}

// SourceConfig selects where raw sentences come from.
type SourceConfig struct {
	Type     string `yaml:"type" json:"type"`          // "serial", "replay", or "demo"
	PortPath string `yaml:"port_path" json:"portPath"` // e.g. /dev/ttyGPS
	BaudRate int    `yaml:"baud_rate" json:"baudRate"` // serial only
	File     string `yaml:"file" json:"file"`          // replay only
	Encoding string `yaml:"encoding" json:"encoding"`  // input text encoding, default utf-8
	Verbose  bool   `yaml:"verbose" json:"verbose"`    // log dropped sentences
}

// IdentifiersConfig holds the initial enabled-identifier lists per sentence
// kind. Empty lists mean "all known identifiers".
type IdentifiersConfig struct {
	Fix []string `yaml:"fix" json:"fix"`
	Nav []string `yaml:"nav" json:"nav"`
}

// ServerConfig configures the live feed HTTP/WebSocket server.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listenAddr"`
}

// MQTTConfig configures the optional MQTT republish bridge.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Broker   string `yaml:"broker" json:"broker"`
	ClientID string `yaml:"client_id" json:"clientId"`
	TopicFix string `yaml:"topic_fix" json:"topicFix"`
	TopicNav string `yaml:"topic_nav" json:"topicNav"`
}

// LoggingConfig configures the CSV record logger.
type LoggingConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Path     string `yaml:"path" json:"path"`
	Interval int    `yaml:"interval_ms" json:"intervalMs"` // ms between log entries
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Type:     "demo",
			PortPath: "/dev/ttyGPS",
			BaudRate: 9600,
			Encoding: "utf-8",
		},
		Server: ServerConfig{
			ListenAddr: ":8090",
		},
		MQTT: MQTTConfig{
			Enabled:  false,
			Broker:   "tcp://localhost:1883",
			ClientID: "nmeahub",
			TopicFix: "nmeahub/fix",
			TopicNav: "nmeahub/nav",
		},
		Logging: LoggingConfig{
			Enabled:  false,
			Path:     "/var/log/nmeahub",
			Interval: 100,
		},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Falls back to defaults if the file is missing or malformed.
func Load(path string) *Config {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] no config at %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("[config] error parsing %s: %v, using defaults", path, err)
		cfg = Default()
		cfg.path = path
	} else {
		log.Printf("[config] loaded from %s", path)
	}

	cfg.applyEnvOverrides()
	return cfg
}

// applyEnvOverrides reads environment variables and overrides config values.
// Supported: SOURCE_TYPE, SOURCE_PORT, SOURCE_BAUD, SOURCE_FILE,
// SOURCE_ENCODING, LISTEN_ADDR, MQTT_ENABLED, MQTT_BROKER, MQTT_CLIENT_ID,
// LOG_ENABLED, LOG_PATH, LOG_INTERVAL_MS
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SOURCE_TYPE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("SOURCE_PORT"); v != "" {
		c.Source.PortPath = v
	}
	if v := os.Getenv("SOURCE_BAUD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Source.BaudRate = n
		}
	}
	if v := os.Getenv("SOURCE_FILE"); v != "" {
		c.Source.File = v
	}
	if v := os.Getenv("SOURCE_ENCODING"); v != "" {
		c.Source.Encoding = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("MQTT_ENABLED"); v != "" {
		c.MQTT.Enabled = isTruthy(v)
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		c.MQTT.Broker = v
	}
	if v := os.Getenv("MQTT_CLIENT_ID"); v != "" {
		c.MQTT.ClientID = v
	}
	if v := os.Getenv("LOG_ENABLED"); v != "" {
		c.Logging.Enabled = isTruthy(v)
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		c.Logging.Path = v
	}
	if v := os.Getenv("LOG_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Logging.Interval = n
		}
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Save writes the config back to its YAML file.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = "/etc/nmeahub/config.yaml"
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}
