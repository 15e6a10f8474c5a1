package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "taskboard"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskboard.db"
	DefaultSlotKey        = "tasks"

	EnvConfig = "TASKBOARD_CONFIG"
	EnvDB     = "TASKBOARD_DB"
	EnvLog    = "TASKBOARD_LOG"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Switch  string `toml:"switch"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Edit    string `toml:"edit"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
}

type Config struct {
	DBPath  string `toml:"db_path"`
	SlotKey string `toml:"slot_key"`
	LogPath string `toml:"log_path"`
	Keys    Keymap `toml:"keys"`
}

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ResolveConfigPath picks the config file: $TASKBOARD_CONFIG, then
// $XDG_CONFIG_HOME/taskboard, then ~/.config/taskboard.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative db and log paths resolve against the
// config directory. Environment overrides apply last.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return finish(path, cfg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.SlotKey == "" {
		cfg.SlotKey = DefaultSlotKey
	}
	cfg.Keys = withDefaultKeys(cfg.Keys)
	return finish(path, cfg), nil
}

func finish(path string, cfg Config) Config {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		cfg.LogPath = v
	}
	dir := filepath.Dir(path)
	cfg.DBPath = resolve(dir, cfg.DBPath)
	cfg.LogPath = resolve(dir, cfg.LogPath)
	return cfg
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func withDefaultKeys(k Keymap) Keymap {
	d := defaultConfig().Keys
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Switch, d.Switch)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Edit, d.Edit)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	return k
}

func defaultConfig() Config {
	return Config{
		DBPath:  DefaultDBName,
		SlotKey: DefaultSlotKey,
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Switch:  "tab",
			Toggle:  " ",
			Delete:  "d",
			Edit:    "e",
			Confirm: "enter",
			Cancel:  "esc",
		},
	}
}
