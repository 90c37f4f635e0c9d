package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the product page service configuration. Values come from an optional
// YAML file and are overridden by environment variables.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Catalog struct {
		Endpoint      string            `yaml:"endpoint"`
		APIKey        string            `yaml:"api_key"`
		EnvironmentID string            `yaml:"environment_id"`
		WebsiteCode   string            `yaml:"website_code"`
		StoreCode     string            `yaml:"store_code"`
		StoreViewCode string            `yaml:"store_view_code"`
		CustomerGroup string            `yaml:"customer_group"`
		Headers       map[string]string `yaml:"headers"`
	} `yaml:"catalog"`

	Content struct {
		// Origin serves the host pages and the placeholder sheet.
		Origin           string `yaml:"origin"`
		PlaceholdersPath string `yaml:"placeholders_path"`
		// PlaceholdersFile is used instead of the origin when set.
		PlaceholdersFile string `yaml:"placeholders_file"`
	} `yaml:"content"`

	Assets struct {
		Optimized       bool              `yaml:"optimized"`
		OptimizedParams map[string]string `yaml:"optimized_params"`
		PreloadScripts  []string          `yaml:"preload_scripts"`
	} `yaml:"assets"`

	Page struct {
		ErrorPath        string `yaml:"error_path"`
		ACDL             bool   `yaml:"acdl"`
		PersistURLParams bool   `yaml:"persist_url_params"`
	} `yaml:"page"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func defaults() *Config {
	c := &Config{}
	c.Server.Addr = ":8080"
	c.Content.PlaceholdersPath = "/placeholders/pdp.json"
	c.Page.ErrorPath = "/404"
	c.Page.ACDL = true
	c.Page.PersistURLParams = true
	c.Log.Level = "info"
	c.Log.Format = "json"
	return c
}

// Load reads .env (when present), then the YAML file at path (when non-empty), then
// applies environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not load .env file")
	}

	c := defaults()

	if path == "" {
		path = os.Getenv("PDP_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, key string) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	setString(&c.Server.Addr, "PDP_ADDR")

	setString(&c.Catalog.Endpoint, "CATALOG_GRAPHQL_ENDPOINT")
	setString(&c.Catalog.APIKey, "CATALOG_API_KEY")
	setString(&c.Catalog.EnvironmentID, "CATALOG_ENVIRONMENT_ID")
	setString(&c.Catalog.WebsiteCode, "CATALOG_WEBSITE_CODE")
	setString(&c.Catalog.StoreCode, "CATALOG_STORE_CODE")
	setString(&c.Catalog.StoreViewCode, "CATALOG_STORE_VIEW_CODE")
	setString(&c.Catalog.CustomerGroup, "CATALOG_CUSTOMER_GROUP")

	setString(&c.Content.Origin, "CONTENT_ORIGIN")
	setString(&c.Content.PlaceholdersPath, "PLACEHOLDERS_PATH")
	setString(&c.Content.PlaceholdersFile, "PLACEHOLDERS_FILE")

	if v := os.Getenv("PRELOAD_SCRIPTS"); v != "" {
		c.Assets.PreloadScripts = splitList(v)
	}

	setString(&c.Page.ErrorPath, "ERROR_PAGE_PATH")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	for key, dst := range map[string]*bool{
		"ASSETS_OPTIMIZED":   &c.Assets.Optimized,
		"PDP_ACDL":           &c.Page.ACDL,
		"PERSIST_URL_PARAMS": &c.Page.PersistURLParams,
	} {
		if err := setBool(dst, key); err != nil {
			return err
		}
	}

	return nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Endpoint) == "" {
		return errors.New("catalog endpoint is required (catalog.endpoint or CATALOG_GRAPHQL_ENDPOINT)")
	}
	if !strings.HasPrefix(c.Page.ErrorPath, "/") {
		return fmt.Errorf("error page path %q must be absolute", c.Page.ErrorPath)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(c.Log.Format, "text") {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		return
	}
	log.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "ts",
			log.FieldKeyMsg:  "msg",
		},
	})
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
