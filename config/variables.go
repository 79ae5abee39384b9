/*
NAME
  variables.go - named, string-updatable Config fields.

DESCRIPTION
  Variables lists the ambient Config fields that can be set from a
  string-keyed map (e.g. a remote-control update or a CLI flag layer),
  each with an Update function and an optional Validate/default
  function, mirroring the teacher's Variables table
  (revid/config/variables.go). Only ambient/operational fields are
  listed here: the ensemble description itself is structured data that
  cmd/dabmux's YAML loader builds directly, not a flat string map, per
  spec.md's non-goal that configuration loading is an external
  collaborator.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map keys.
const (
	KeyLogging              = "logging"
	KeySuppress             = "Suppress"
	KeyReaderBudgetFraction = "ReaderBudgetFraction"
)

// Defaults for ambient fields.
const (
	defaultVerbosity            = logging.Error
	defaultReaderBudgetFraction = 0.8
)

// Variables describes the ambient Config fields that can be updated
// from a string-keyed map.
var Variables = []struct {
	Name     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyLogging,
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField(KeyLogging, defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
			c.Logger.SetLevel(c.LogLevel)
		},
	},
	{
		Name: KeySuppress,
		Update: func(c *Config, v string) {
			c.Suppress = parseBool(KeySuppress, v, c)
		},
	},
	{
		Name: KeyReaderBudgetFraction,
		Update: func(c *Config, v string) {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.Logger.Warning("invalid ReaderBudgetFraction param", "value", v)
				return
			}
			c.ReaderBudgetFraction = f
		},
		Validate: func(c *Config) {
			if c.ReaderBudgetFraction <= 0 || c.ReaderBudgetFraction > 1 {
				c.LogInvalidField(KeyReaderBudgetFraction, defaultReaderBudgetFraction)
				c.ReaderBudgetFraction = defaultReaderBudgetFraction
			}
		},
	},
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning("expected bool param", "name", n, "value", v)
	}
	return
}
