// Package config loads tool configuration from a .env file and the process
// environment. The variable names follow the operator-facing .env layout:
// connection settings for the discovery and registry APIs, fuzzy-match
// sensitivities, and module-creation flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/netgrid-labs/invsync/pkg/util"
)

// DefaultTypeLibraryRepo is the community device type library used when no
// custom repository source is configured.
const DefaultTypeLibraryRepo = "https://github.com/netbox-community/devicetype-library.git"

// Config holds all settings consumed by the import pipelines.
type Config struct {
	// IP Fabric connection
	IPFBaseURL string
	IPFToken   string
	IPFLimit   int

	// NetBox connection
	NetBoxBaseURL string
	NetBoxToken   string
	NetBoxLimit   int

	// Disable TLS certificate verification (self-signed lab instances)
	InsecureSkipVerify bool

	// Fuzzy-match sensitivities, all in [0,1]
	VendorSensitivity float64
	ModelSensitivity  float64
	ImageSensitivity  float64
	ModuleSensitivity float64

	// Device type library repository
	RepoSource string
	RepoDir    string

	// Module creation flags passed through to the registry
	ReplicateComponents bool
	AdoptComponents     bool

	// Data source and log directories
	DataDir string
	LogDir  string
}

// Load reads the .env file at path (if it exists) and builds a Config from
// the environment. A missing .env file is not an error; missing required
// values are reported by Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Overload(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	baseDir := filepath.Dir(path)
	cfg := &Config{
		IPFBaseURL:          getenv("ipfabricbaseurl", ""),
		IPFToken:            getenv("ipfabrictoken", ""),
		IPFLimit:            getenvInt("ipflimit", 1000),
		NetBoxBaseURL:       getenv("netboxbaseurl", ""),
		NetBoxToken:         getenv("netboxtoken", ""),
		NetBoxLimit:         getenvInt("netboxlimit", 100),
		InsecureSkipVerify:  getenvBool("disableverifyssl", false),
		VendorSensitivity:   getenvFloat("vendornamesensitivity", 0.8),
		ModelSensitivity:    getenvFloat("modellnamesensitivity", 0.8),
		ImageSensitivity:    getenvFloat("deviceimagesensitivity", 0.8),
		ModuleSensitivity:   getenvFloat("modulenamesensitivity", 0.8),
		RepoSource:          getenv("reposource", DefaultTypeLibraryRepo),
		ReplicateComponents: getenvBool("replicate_components", true),
		AdoptComponents:     getenvBool("adopt_components", true),
		DataDir:             getenv("datadir", filepath.Join(baseDir, "DataSources")),
		LogDir:              getenv("logdir", filepath.Join(baseDir, "Logs")),
	}
	cfg.RepoDir = filepath.Join(cfg.DataDir, "DeviceTypeLibraryRepo")

	return cfg, nil
}

// Validate checks settings common to all imports. Imports with extra
// requirements (e.g. cables needing a mapping file) validate those at startup
// themselves.
func (c *Config) Validate() error {
	v := &util.ValidationBuilder{}

	v.Add(c.IPFBaseURL != "", "ipfabricbaseurl is required")
	v.Add(c.IPFToken != "", "ipfabrictoken is required")
	v.Add(c.NetBoxBaseURL != "", "netboxbaseurl is required")
	v.Add(c.NetBoxToken != "", "netboxtoken is required")

	for name, s := range map[string]float64{
		"vendornamesensitivity":  c.VendorSensitivity,
		"modellnamesensitivity":  c.ModelSensitivity,
		"deviceimagesensitivity": c.ImageSensitivity,
		"modulenamesensitivity":  c.ModuleSensitivity,
	} {
		if s < 0 || s > 1 {
			v.AddErrorf("%s must be between 0 and 1, got %v", name, s)
		}
	}

	return v.Build()
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		util.Warnf("Invalid integer for %s: %q, using %d", key, v, def)
		return def
	}
	return n
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		util.Warnf("Invalid float for %s: %q, using %v", key, v, def)
		return def
	}
	return f
}

func getenvBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes"
}
