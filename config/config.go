package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"tokenpath/internal/domain/constants"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath            = "."
	defaultAvailabilityTTL = 5 * time.Minute
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port"`

		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	SecretKey struct {
		Session string `json:"session" yaml:"session"`
	} `json:"secretKey" yaml:"secretKey"`

	// RecordStore is the external record database holding accounts and
	// wallet records.
	RecordStore *RecordStoreConfig `json:"recordStore" yaml:"recordStore"`

	// Engine is the external custodial wallet engine.
	Engine *EngineConfig `json:"engine" yaml:"engine"`

	// Line configures the LINE mini-app provider.
	Line *LineConfig `json:"line" yaml:"line"`

	// Telegram configures the Telegram login-widget provider.
	Telegram *TelegramConfig `json:"telegram" yaml:"telegram"`

	// PubSub configuration for wallet-provisioning event publishing.
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// QRCode configuration for wallet receive QR codes.
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// RecordStoreConfig points at the external record database.
type RecordStoreConfig struct {
	URL        string `json:"url" yaml:"url"`
	AdminToken string `json:"adminToken" yaml:"adminToken"`

	// UserPassword is the shared application password every provisioned
	// account authenticates with against the store.
	UserPassword string `json:"userPassword" yaml:"userPassword"`

	// AvailabilityTTL bounds how long a wallet-collection availability probe
	// is cached.
	AvailabilityTTL time.Duration `json:"availabilityTtl" yaml:"availabilityTtl"`
}

// EngineConfig points at the custodial wallet engine API.
type EngineConfig struct {
	URL         string `json:"url" yaml:"url"`
	AccessToken string `json:"accessToken" yaml:"accessToken"`
}

// LineConfig holds the LINE mini-app client configuration.
type LineConfig struct {
	LiffID string `json:"liffId" yaml:"liffId"`
}

// TelegramConfig holds the Telegram login-widget configuration.
// BotToken is server-only; when empty, signature verification is skipped
// with a logged warning outside production.
type TelegramConfig struct {
	BotUsername string `json:"botUsername" yaml:"botUsername"`
	BotToken    string `json:"botToken" yaml:"botToken"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: RECORDSTORE_ADMINTOKEN -> recordStore.adminToken
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.RecordStore != nil && cfg.RecordStore.AvailabilityTTL == 0 {
		cfg.RecordStore.AvailabilityTTL = defaultAvailabilityTTL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects configurations that must never reach production.
// A configured Telegram provider without a bot token would silently skip
// signature verification; that fallback is allowed only outside production.
func (cfg *Config) validate() error {
	if cfg.Env.Env != constants.EnvProduction {
		return nil
	}

	if cfg.Telegram != nil && cfg.Telegram.BotUsername != "" && cfg.Telegram.BotToken == "" {
		return errors.New("telegram bot token must be set in production when the provider is enabled")
	}

	if cfg.SecretKey.Session == "" {
		return errors.New("session secret must be set in production")
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
