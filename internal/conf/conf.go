// Configuration loading: a defaults object, optionally overridden by
// a TOML file on disk.

package conf

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds the listener address.
type ServerConfig struct {
	Host string `toml:"host"`
	Port uint   `toml:"port"`
}

// GameConfig holds tuning knobs for session behavior that are not
// part of the chess rules themselves.
type GameConfig struct {
	ForfeitWindowSeconds uint `toml:"forfeit_window_seconds"`
	MaxChatMessageLength uint `toml:"max_chat_message_length"`
}

// DatabaseConfig selects the user-store backend.
type DatabaseConfig struct {
	File string `toml:"file"`
}

// LogConfig toggles the debug logger.
type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Game     GameConfig     `toml:"game"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`

	file string
}

// ForfeitWindow returns the configured disconnection grace period as
// a time.Duration.
func (c Config) ForfeitWindow() time.Duration {
	return time.Duration(c.Game.ForfeitWindowSeconds) * time.Second
}

// Default returns the built-in configuration, used when no file is
// given and as the base that a loaded file's fields override.
func Default() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Game: GameConfig{
			ForfeitWindowSeconds: 60,
			MaxChatMessageLength: 500,
		},
		Database: DatabaseConfig{File: "chessd.sqlite3"},
		Log:      LogConfig{Debug: false},
	}
}

// Load reads a TOML configuration file at path, overriding Default's
// fields with whatever the file specifies.
func Load(path string) (Config, error) {
	c := Default()

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	if _, err := toml.NewDecoder(f).Decode(&c); err != nil {
		return c, err
	}
	c.file = path
	return c, nil
}
