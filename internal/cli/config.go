// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sshpki.
//
// go-sshpki is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-sshpki/pkg/pki"
	"github.com/spf13/viper"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool

	// FIPSMode refuses SHA-1 digest pairings
	FIPSMode bool

	// DefaultKeyType is the key type used when generate is invoked
	// without --type
	DefaultKeyType string

	// DefaultBits is the RSA/DSA bit length used when generate is
	// invoked without --bits
	DefaultBits int

	// AllowedAlgorithms restricts public-key algorithm selection during
	// digest negotiation; empty allows everything
	AllowedAlgorithms []string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat:   "text",
		DefaultKeyType: "ed25519",
		DefaultBits:    3072,
	}
}

// Load merges the configuration file and environment on top of the
// defaults. Flag values already set on the struct win over the file.
func (c *Config) Load() error {
	v := viper.New()
	v.SetDefault("key_type", c.DefaultKeyType)
	v.SetDefault("bits", c.DefaultBits)
	v.SetDefault("fips", c.FIPSMode)
	v.SetDefault("allowed_algorithms", []string{})

	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
	} else {
		v.SetConfigName(".sshpki")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("SSHPKI")
	v.AutomaticEnv()

	// An explicitly named file must parse; the default search path is
	// allowed to come up empty.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.ConfigFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	c.DefaultKeyType = v.GetString("key_type")
	c.DefaultBits = v.GetInt("bits")
	if !c.FIPSMode {
		c.FIPSMode = v.GetBool("fips")
	}
	c.AllowedAlgorithms = v.GetStringSlice("allowed_algorithms")
	return nil
}

// NegotiationContext builds the digest-negotiation inputs from the
// configuration. The CLI has no live peer, so both RSA SHA-2 extension
// flags are treated as supported.
func (c *Config) NegotiationContext() *pki.NegotiationContext {
	return &pki.NegotiationContext{
		ExtSigRSASHA256:   true,
		ExtSigRSASHA512:   true,
		AllowedAlgorithms: c.AllowedAlgorithms,
		FIPSMode:          c.FIPSMode,
	}
}
