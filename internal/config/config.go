package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Server   Server         `yaml:"server"`
	Analysis Analysis       `yaml:"analysis"`
	Feed     Feed           `yaml:"feed"`
	StoreRef StoreReference `yaml:"store"`
	Batch    Batch          `yaml:"batch"`
}

func Read(r io.Reader) (*Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

type Server struct {
	Addr         string        `yaml:"addr"`
	Timeout      time.Duration `yaml:"timeout"`
	AllowOrigins string        `yaml:"allow_origins"`
}

type Signals struct {
	RSIWindow int     `yaml:"rsi_window"`
	BBWindow  int     `yaml:"bb_window"`
	BBNumStd  float64 `yaml:"bb_num_std"`
}

type Analysis struct {
	Signals        Signals `yaml:"signals"`
	InitialCapital float64 `yaml:"initial_capital"`
	MAWindow       int     `yaml:"ma_window"`
	RecentSignals  int     `yaml:"recent_signals"`
	BatchLimit     int     `yaml:"batch_limit"`
	ForecastDays   int     `yaml:"forecast_history_days"`
}

type Feed struct {
	MaxWorkers  int               `yaml:"max_workers"`
	ProviderRef ProviderReference `yaml:"provider"`
}

// Batch drives the offline analyze command.
type Batch struct {
	Symbols         []string `yaml:"symbols"`
	Universe        bool     `yaml:"universe"`
	Start           string   `yaml:"start"`
	End             string   `yaml:"end"`
	Report          string   `yaml:"report"`
	ChartDir        string   `yaml:"chart_dir"`
	ForecastHorizon int      `yaml:"forecast_horizon"`
	ForecastDegree  int      `yaml:"forecast_degree"`
	DataDump        string   `yaml:"data_dump"`
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 60 * time.Second
	}
	if c.Server.AllowOrigins == "" {
		c.Server.AllowOrigins = "*"
	}

	a := &c.Analysis
	if a.Signals.RSIWindow == 0 {
		a.Signals.RSIWindow = 14
	}
	if a.Signals.BBWindow == 0 {
		a.Signals.BBWindow = 20
	}
	if a.Signals.BBNumStd == 0 {
		a.Signals.BBNumStd = 2
	}
	if a.InitialCapital == 0 {
		a.InitialCapital = 10000
	}
	if a.MAWindow == 0 {
		a.MAWindow = 10
	}
	if a.RecentSignals == 0 {
		a.RecentSignals = 10
	}
	if a.BatchLimit == 0 {
		a.BatchLimit = 100
	}
	if a.ForecastDays == 0 {
		a.ForecastDays = 365
	}

	if c.Batch.ForecastHorizon == 0 {
		c.Batch.ForecastHorizon = 30
	}
	if c.Batch.ForecastDegree == 0 {
		c.Batch.ForecastDegree = 2
	}

	if c.Feed.MaxWorkers == 0 {
		c.Feed.MaxWorkers = 10
	}
	if c.Feed.ProviderRef.Provider == nil {
		c.Feed.ProviderRef.Provider = Yahoo{}
	}
	if c.StoreRef.Store == nil {
		c.StoreRef.Store = FileStore{Dir: "data"}
	}
}

func (c *Config) applyEnvOverrides() {
	alpaca, ok := c.Feed.ProviderRef.Provider.(Alpaca)
	if !ok {
		return
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		alpaca.ApiKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		alpaca.Secret = v
	}
	c.Feed.ProviderRef.Provider = alpaca
}

// provider configs

type Provider interface{}

type ProviderReference struct {
	Provider Provider
}

type Yahoo struct {
	BaseUrl string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Proxy   string        `yaml:"proxy"`
}

type Alpaca struct {
	BaseUrl string `yaml:"base_url"`
	ApiKey  string `yaml:"api_key"`
	Secret  string `yaml:"secret"`
	Feed    string `yaml:"feed"`
}

type CSV struct {
	Data map[string]string `yaml:"data"`
}

func (w *ProviderReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid provider yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "yahoo":
		var yahoo Yahoo
		if err := value.Content[1].Decode(&yahoo); err != nil {
			return fmt.Errorf("failed parsing yahoo provider config: %w", err)
		}
		w.Provider = yahoo
	case "alpaca":
		var alpaca Alpaca
		if err := value.Content[1].Decode(&alpaca); err != nil {
			return fmt.Errorf("failed parsing Alpaca provider config: %w", err)
		}
		w.Provider = alpaca
	case "csv":
		var csv CSV
		if err := value.Content[1].Decode(&csv); err != nil {
			return fmt.Errorf("failed parsing csv provider config: %w", err)
		}
		w.Provider = csv
	default:
		return fmt.Errorf("unknown provider type: %s", key)
	}

	return nil
}

// store configs

type Store interface{}

type StoreReference struct {
	Store Store
}

type FileStore struct {
	Dir string `yaml:"dir"`
}

type SQLiteStore struct {
	Path string `yaml:"path"`
}

func (w *StoreReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid store yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "file":
		var file FileStore
		if err := value.Content[1].Decode(&file); err != nil {
			return fmt.Errorf("failed parsing file store config: %w", err)
		}
		w.Store = file
	case "sqlite":
		var sqlite SQLiteStore
		if err := value.Content[1].Decode(&sqlite); err != nil {
			return fmt.Errorf("failed parsing sqlite store config: %w", err)
		}
		w.Store = sqlite
	default:
		return fmt.Errorf("unknown store type: %s", key)
	}

	return nil
}

// Level parses LogLevel, falling back to info for unknown names.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
