package commands

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/abhiram1809/anthropic-adapter/internal/app"
)

// envPrefix is stripped from prefixed environment variables during config
// loading (e.g. ANTHROPIC_ADAPTER_SERVER__PORT → server.port).
const envPrefix = "ANTHROPIC_ADAPTER_"

// legacyEnvVars maps the upstream project's original, unprefixed environment
// variable names onto this config's nested keys. They are read as a
// secondary, lower-precedence layer beneath the prefixed koanf config so
// that deployment scripts written against the original adapter keep
// working.
var legacyEnvVars = map[string]string{
	"OPENAI_BASE_URL":  "upstream.base_url",
	"OPENAI_API_KEY":   "upstream.api_key",
	"TIKTOKEN_ENCODING": "tokenizer.encoding",
	"HOST":             "server.host",
	"PORT":             "server.port",
}

// loadConfig loads application configuration with precedence (lowest to
// highest): compiled-in defaults, legacy unprefixed env vars, TOML config
// file, prefixed environment variables, CLI flags.
func loadConfig(configPath string, cmd *cli.Command, environFunc func() []string) (*app.Config, error) {
	k := koanf.New(".")

	legacy := map[string]any{}
	for _, kv := range environFunc() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key, found := legacyEnvVars[name]; found {
			legacy[key] = value
		}
	}
	if len(legacy) > 0 {
		if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
			return nil, fmt.Errorf("loading legacy environment variables: %w", err)
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			stripped := strings.TrimPrefix(key, envPrefix)
			nested := strings.ToLower(strings.ReplaceAll(stripped, "__", "."))
			return nested, value
		},
		EnvironFunc: environFunc,
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	if cmd != nil {
		flagValues := extractAndTransformFlags(cmd)
		if err := k.Load(confmap.Provider(flagValues, "."), nil); err != nil {
			return nil, fmt.Errorf("loading CLI flags: %w", err)
		}
	}

	config := &app.Config{}
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := config.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// extractAndTransformFlags transforms CLI flag names to match config
// structure. Examples: --base-url → upstream.base_url, --log-level →
// log_level.
func extractAndTransformFlags(cmd *cli.Command) map[string]any {
	values := make(map[string]any)

	flagKeys := map[string]string{
		"base-url":  "upstream.base_url",
		"api-key":   "upstream.api_key",
		"encoding":  "tokenizer.encoding",
		"host":      "server.host",
		"port":      "server.port",
		"log-level": "log_level",
		"log-format": "log_format",
	}

	for _, name := range cmd.FlagNames() {
		if !cmd.IsSet(name) {
			continue
		}
		key, ok := flagKeys[name]
		if !ok {
			continue
		}
		if value := cmd.Value(name); value != nil {
			values[key] = value
		}
	}

	return values
}
