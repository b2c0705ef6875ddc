package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Debug    bool   `mapstructure:"debug"`
	Handlers struct {
		Prometheus struct {
			Port    string `mapstructure:"port"`
			Enabled bool   `mapstructure:"enabled"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			URL               string `mapstructure:"url"`
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		Host      string        `mapstructure:"host"`
		HTTPPort  string        `mapstructure:"HTTPPort"`
		Timeout   time.Duration `mapstructure:"HTTPTimeout"`
		JWTSecret string        `mapstructure:"jwtSecret"`
		// AllowedOrigins feeds the CORS middleware; empty means the local dev origins.
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	LLM             LLMConfig             `mapstructure:"llm"`
	Prompts         PromptsConfig         `mapstructure:"prompts"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations"`
}

// RecommendationsConfig shapes the two search bundles sent to the grounded provider.
type RecommendationsConfig struct {
	ShortTripDays   int    `mapstructure:"shortTripDays"`
	LongTripDays    int    `mapstructure:"longTripDays"`
	WideRadius      string `mapstructure:"wideRadius"`
	BudgetPerPerson string `mapstructure:"budgetPerPerson"`
}

// LLMConfig carries one credential pool per provider.
type LLMConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	OpenAI  struct {
		APIKeys []string `mapstructure:"apiKeys"`
		BaseURL string   `mapstructure:"baseURL"`
	} `mapstructure:"openai"`
	Nvidia struct {
		APIKeys []string `mapstructure:"apiKeys"`
		BaseURL string   `mapstructure:"baseURL"`
	} `mapstructure:"nvidia"`
	Google struct {
		APIKeys []string `mapstructure:"apiKeys"`
	} `mapstructure:"google"`
}

type PromptsConfig struct {
	// Source selects the registry backend: "langfuse" or "postgres".
	Source   string `mapstructure:"source"`
	Tag      string `mapstructure:"tag"`
	Langfuse struct {
		BaseURL   string        `mapstructure:"baseURL"`
		PublicKey string        `mapstructure:"publicKey"`
		SecretKey string        `mapstructure:"secretKey"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"langfuse"`
	Labels PromptLabels `mapstructure:"labels"`
}

// PromptLabels are the registry names of every prompt the service resolves.
type PromptLabels struct {
	UserInterest     string `mapstructure:"userInterest"`
	KnowledgeGraph   string `mapstructure:"knowledgeGraph"`
	KnowledgeSummary string `mapstructure:"knowledgeSummary"`
	Planner          string `mapstructure:"planner"`
	SpotFinder       string `mapstructure:"spotFinder"`
	SearchRetrieval  string `mapstructure:"searchRetrieval"`
}

// envBindings keeps the variable names the deployment already exports.
var envBindings = map[string]string{
	"debug":                      "DEBUG",
	"repositories.postgres.url":  "DATABASE_URL",
	"llm.openai.apiKeys":         "OPENAI_API_KEYS",
	"llm.openai.baseURL":         "OPENAI_BASE_URL",
	"llm.nvidia.apiKeys":         "NVIDIA_API_KEYS",
	"llm.nvidia.baseURL":         "NVIDIA_BASE_URL",
	"llm.google.apiKeys":         "GOOGLE_API_KEYS",
	"prompts.langfuse.publicKey": "LANGFUSE_PUBLIC_KEY",
	"prompts.langfuse.secretKey": "LANGFUSE_SECRET_KEY",
	"prompts.langfuse.baseURL":   "LANGFUSE_BASE_URL",
	"server.jwtSecret":           "JWT_SECRET",
	"server.HTTPPort":            "PORT",
	"server.allowedOrigins":      "ALLOWED_ORIGINS",
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.normalize()
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func (c *Config) normalize() {
	c.LLM.OpenAI.APIKeys = cleanKeys(c.LLM.OpenAI.APIKeys)
	c.LLM.Nvidia.APIKeys = cleanKeys(c.LLM.Nvidia.APIKeys)
	c.LLM.Google.APIKeys = cleanKeys(c.LLM.Google.APIKeys)
	c.Server.AllowedOrigins = cleanKeys(c.Server.AllowedOrigins)
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 45 * time.Second
	}
	if c.Prompts.Tag == "" {
		c.Prompts.Tag = "production"
	}
}

// cleanKeys splits comma separated entries and drops blanks, so both
// OPENAI_API_KEYS="a,b" and a YAML list produce the same pool.
func cleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, part := range strings.Split(k, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
