package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string          `toml:"env"`
	LogLevel int             `toml:"log_level"`
	Server   ServerConfigs   `toml:"server"`
	Database DatabaseConfigs `toml:"database"`
	Ws       WsConfigs       `toml:"ws"`
	Game     GameConfigs     `toml:"game"`
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (s ServerConfigs) Address() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfigs struct {
	// Path of the sqlite database file. ":memory:" keeps everything
	// in-process, which matches the no-persistence scope of the server.
	Path string `toml:"path"`

	// SeedDir points to the bundled question JSON files loaded at startup.
	SeedDir string `toml:"seed_dir"`
}

type WsConfigs struct {
	Compression bool `toml:"compression"`
}

type GameConfigs struct {
	// CountdownTicks is the number of per-second "time remaining" messages
	// sent before a room moves from Countdown to Playing.
	CountdownTicks int      `toml:"countdown_ticks"`
	TickInterval   Duration `toml:"tick_interval"`

	// ReconnectWindow is the single authoritative grace period: a
	// disconnected player may rejoin within it, and the deferred room
	// cleanup fires after it.
	ReconnectWindow Duration `toml:"reconnect_window"`

	TimeAttack VariantConfigs `toml:"time_attack"`
	Survival   VariantConfigs `toml:"survival"`
}

type VariantConfigs struct {
	Rounds    int      `toml:"rounds"`
	RoundTime Duration `toml:"round_time"`
}

// Duration lets time.Duration values be written as "10s" in the toml file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load reads the toml file at path (skipped when path is empty or missing),
// applies environment overrides, and fills defaults for everything left
// unset.
func Load(path string) (Configs, error) {
	cfg := Configs{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Configs{}, err
			}
		}
	}

	if env := os.Getenv("ENV"); env != "" {
		cfg.Env = env
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if db := os.Getenv("DB_PATH"); db != "" {
		cfg.Database.Path = db
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Configs) applyDefaults() {
	if cfg.Env == "" {
		cfg.Env = "local"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = ":memory:"
	}
	if cfg.Database.SeedDir == "" {
		cfg.Database.SeedDir = "migration/seed"
	}
	if cfg.Game.CountdownTicks == 0 {
		cfg.Game.CountdownTicks = 3
	}
	if cfg.Game.TickInterval.Duration == 0 {
		cfg.Game.TickInterval.Duration = time.Second
	}
	if cfg.Game.ReconnectWindow.Duration == 0 {
		cfg.Game.ReconnectWindow.Duration = 30 * time.Second
	}
	if cfg.Game.TimeAttack.Rounds == 0 {
		cfg.Game.TimeAttack.Rounds = 10
	}
	if cfg.Game.TimeAttack.RoundTime.Duration == 0 {
		cfg.Game.TimeAttack.RoundTime.Duration = 10 * time.Second
	}
	if cfg.Game.Survival.Rounds == 0 {
		cfg.Game.Survival.Rounds = 20
	}
	if cfg.Game.Survival.RoundTime.Duration == 0 {
		cfg.Game.Survival.RoundTime.Duration = 10 * time.Second
	}
}
