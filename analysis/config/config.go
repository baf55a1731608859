// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/awslabs/ar-go-summaries/analysis/summarycache"
	"github.com/awslabs/ar-go-summaries/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options of the summary analysis and the code identifiers of its entry points.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// EntryPoints lists the functions from which the analysis starts. If empty, main functions are entry points.
	EntryPoints []CodeIdentifier `yaml:"entry-points"`
}

// Options holds the global options of the analysis
type Options struct {
	// ReportsDir is the directory where the reports will be stored. If the config file does not specify a
	// ReportsDir but sets ReportSummaries, then ReportsDir will be created next to the config file.
	ReportsDir string `yaml:"reports-dir"`

	// PkgFilter restricts the functions whose body is analyzed to the ones whose package path matches the filter.
	// Calls to other functions are treated as unknown.
	PkgFilter string `yaml:"pkg-filter"`

	// MaxContextDepth bounds the number of call edges in a calling context, and the length of the call strings
	// identifying contexts. Calls that would exceed the depth are not analyzed. If <= 0, the depth is not bounded,
	// and the analysis of a recursive program may fail when it recurses too deeply.
	MaxContextDepth int `yaml:"max-context-depth"`

	// MaxIterations bounds the analysis of one function body to MaxIterations visits per basic block, on average
	MaxIterations int `yaml:"max-iterations"`

	// CachePolicy is the insertion policy of the summary cache: "antichain" (default) or "append"
	CachePolicy string `yaml:"cache-policy"`

	// ReportSummaries can be set to true, in which case summaries will be reported in a file names summaries-*.json
	// in the reports directory
	ReportSummaries bool `yaml:"report-summaries"`

	// TimeoutSeconds bounds the running time of the analysis. If <= 0, there is no timeout.
	TimeoutSeconds int `yaml:"timeout-seconds"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns a default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:  "",
		EntryPoints: nil,
		Options: Options{
			ReportsDir:      "",
			PkgFilter:       "",
			MaxContextDepth: DefaultMaxContextDepth,
			MaxIterations:   DefaultMaxIterations,
			CachePolicy:     summarycache.PolicyAntichain.String(),
			ReportSummaries: false,
			TimeoutSeconds:  0,
			LogLevel:        int(InfoLevel),
			SilenceWarn:     false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadFromBytes(filename, b)
}

// LoadFromBytes reads a configuration from its yaml contents b. The filename is used to resolve relative paths.
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	cfg.sourceFile = filename

	if cfg.ReportSummaries {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	if _, err := summarycache.ParsePolicy(cfg.CachePolicy); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	if cfg.PkgFilter != "" {
		r, err := regexp.Compile(cfg.PkgFilter)
		if err == nil {
			cfg.pkgFilterRegex = r
		}
	}

	funcutil.MapInPlace(cfg.EntryPoints, CompileRegexes)

	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in the config file. If no
// package filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the package filter string is a prefix of the pkgname
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	} else {
		return true
	}
}

// IsEntryPoint returns true if the code identifier matches one of the entry points of the config
func (c Config) IsEntryPoint(cid CodeIdentifier) bool {
	return funcutil.Exists(c.EntryPoints, cid.equalOnNonEmptyFields)
}

// Policy returns the summary cache policy of the config. Invalid policies have been rejected when loading the
// config; the antichain policy is returned for a config built in memory with an invalid policy.
func (c Config) Policy() summarycache.Policy {
	p, _ := summarycache.ParsePolicy(c.CachePolicy)
	return p
}

// Timeout returns the timeout of the analysis, or 0 if there is none
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsMaxContextDepth returns true if a context of depth d is deeper than the maximum context depth.
// (if the configuration setting is <= 0, then this returns false)
func (c Config) ExceedsMaxContextDepth(d int) bool {
	if c.MaxContextDepth <= 0 {
		return false
	}
	return d > c.MaxContextDepth
}
