// Package config loads run settings from a .env file, the environment and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	DefaultEnvFile   = ".env"
	DefaultOutputDir = "outputs"
)

// Config holds everything a reporting run needs.
type Config struct {
	Token     string
	Org       string
	Days      int
	Repos     []string
	OutputDir string
	Format    string
	Workers   int
	APIURL    string
	LogLevel  string

	daysSet bool
	daysErr error
}

// Overrides carries command-line values. Zero values mean "not set".
type Overrides struct {
	Org       string
	Days      int
	Repos     string
	OutputDir string
	Format    string
	Workers   int
	APIURL    string
	LogLevel  string
}

// Load reads envFile (a missing file is not an error) and then the process environment.
// Variables already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	cfg := &Config{
		Token:     getEnv("GITHUB_PERSONAL_ACCESS_TOKEN", os.Getenv("GITHUB_TOKEN")),
		Org:       getEnv("GITHUB_ORG_NAME", ""),
		Repos:     ParseRepoFilter(os.Getenv("INTERESTING_REPOS")),
		OutputDir: getEnv("OUTPUT_DIR", DefaultOutputDir),
		Format:    FormatJSON,
		Workers:   1,
		LogLevel:  getEnv("LOG_LEVEL", ""),
	}
	cfg.Days, cfg.daysSet, cfg.daysErr = getEnvAsInt("NUMBER_OF_DAYS")
	return cfg, nil
}

// Apply overlays command-line values onto the loaded configuration.
func (c *Config) Apply(o Overrides) {
	if o.Org != "" {
		c.Org = o.Org
	}
	if o.Days != 0 {
		c.Days = o.Days
		c.daysSet = true
		c.daysErr = nil
	}
	if repos := ParseRepoFilter(o.Repos); repos != nil {
		c.Repos = repos
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.Format != "" {
		c.Format = strings.ToLower(o.Format)
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "GITHUB_PERSONAL_ACCESS_TOKEN")
	}
	if c.Org == "" {
		missing = append(missing, "GITHUB_ORG_NAME")
	}
	if !c.daysSet {
		missing = append(missing, "NUMBER_OF_DAYS")
	}

	var result *multierror.Error
	if len(missing) > 0 {
		result = multierror.Append(result, fmt.Errorf("Missing required configuration: %s", strings.Join(missing, ", ")))
	}
	if c.daysErr != nil {
		result = multierror.Append(result, fmt.Errorf("NUMBER_OF_DAYS must be an integer: %w", c.daysErr))
	} else if c.daysSet && c.Days < 1 {
		result = multierror.Append(result, fmt.Errorf("NUMBER_OF_DAYS must be at least 1, got %d", c.Days))
	}
	if c.Format != FormatJSON && c.Format != FormatYAML {
		result = multierror.Append(result, fmt.Errorf("unsupported output format %q (want %s or %s)", c.Format, FormatJSON, FormatYAML))
	}
	if c.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	return result.ErrorOrNil()
}

// ParseRepoFilter splits a comma-separated allow-list.
// Entries are trimmed, blanks dropped and exact duplicates removed. It returns nil when nothing is left.
func ParseRepoFilter(raw string) []string {
	var repos []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		repos = append(repos, name)
	}
	return repos
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string) (int, bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	return n, true, err
}
