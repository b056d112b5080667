package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DefaultLLM string                `toml:"default_llm"`
	LLMs       map[string]*LLMConfig `toml:"llm"`
	Profiles   ProfilesConfig        `toml:"profiles"`
	Dispatch   DispatchConfig        `toml:"dispatch"`
	Matcher    MatcherConfig         `toml:"matcher"`
	Gateway    GatewayConfig         `toml:"gateway"`
	Trace      TraceConfig           `toml:"trace"`
	DB         DBConfig              `toml:"db"`
}

type LLMConfig struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type ProfilesConfig struct {
	Dir string `toml:"dir"`
}

type DispatchConfig struct {
	// Threshold is the minimum confidence for a match; below it the
	// dispatcher reports no-match instead of guessing.
	Threshold float64 `toml:"threshold"`
	// Epsilon is the score distance within which two candidates count as
	// tied and fall back to insertion-order tie-breaking.
	Epsilon float64 `toml:"epsilon"`
}

type MatcherConfig struct {
	// Mode selects the scorer: "keyword", "embedding" or "hybrid".
	Mode           string          `toml:"mode"`
	KeywordWeight  float64         `toml:"keyword_weight"`
	VectorWeight   float64         `toml:"vector_weight"`
	MentionBoost   float64         `toml:"mention_boost"`
	TimeoutSeconds float64         `toml:"timeout_seconds"`
	Embedding      EmbeddingConfig `toml:"embedding"`
}

type EmbeddingConfig struct {
	LLM        string `toml:"llm"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
	CacheSize  int    `toml:"cache_size"`
}

type GatewayConfig struct {
	Addr string `toml:"addr"`
}

type TraceConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
	URLPath  string `toml:"url_path"`
	APIKey   string `toml:"api_key"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

func Load() (*Config, error) {
	return LoadFrom(configPath())
}

// LoadFrom fills defaults, then overlays the TOML file at path if present.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		DefaultLLM: "openai",
		LLMs: map[string]*LLMConfig{
			"openai": {
				Model:   "gpt-4o-mini",
				BaseURL: "https://api.openai.com/v1",
				APIKey:  os.Getenv("OPENAI_API_KEY"),
			},
		},
		Profiles: ProfilesConfig{
			Dir: "profiles",
		},
		Dispatch: DispatchConfig{
			Threshold: 0.25,
			Epsilon:   0.05,
		},
		Matcher: MatcherConfig{
			Mode:           "keyword",
			KeywordWeight:  0.4,
			VectorWeight:   0.6,
			MentionBoost:   0.5,
			TimeoutSeconds: 10,
			Embedding: EmbeddingConfig{
				LLM:       "openai",
				Model:     "text-embedding-3-small",
				CacheSize: 10000,
			},
		},
		Gateway: GatewayConfig{
			Addr: ":8486",
		},
		DB: DBConfig{
			Path: defaultDBPath(),
		},
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func configPath() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "pressroom", "config.toml")
}

func defaultDBPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".local", "share", "pressroom", "pressroom.db")
}
