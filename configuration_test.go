/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitConfigStrategyOverride(t *testing.T) {
	tests := map[string]struct {
		file     string
		content  string
		env      string
		expected Strategy
		errStr   string
	}{
		"yaml override": {
			file:     "config.yaml",
			content:  "strategy:\n  default: vt-ris\n",
			expected: VtRis,
		},
		"json override": {
			file:     "config.json",
			content:  `{"strategy":{"default":"xterm-reset"}}`,
			expected: XtermReset,
		},
		"environment wins": {
			file:     "config.yaml",
			content:  "strategy:\n  default: vt-ris\n",
			env:      "tput-clear",
			expected: TputClear,
		},
		"unknown strategy": {
			file:    "config.yaml",
			content: "strategy:\n  default: microwave\n",
			errStr:  "configuration error - invalid strategy",
		},
		"wrong value type": {
			file:    "config.yaml",
			content: "strategy:\n  default: 7\n",
			errStr:  "invalid data type",
		},
	}
	for name, test := range tests {
		t.Run(name, func(tt *testing.T) {
			defer clearConfiguredStrategy()
			tt.Setenv(EnvStrategy, test.env)

			path := filepath.Join(tt.TempDir(), test.file)
			assert.NoError(tt, os.WriteFile(path, []byte(test.content), 0o644))
			_, err := InitConfig(
				context.Background(),
				ConfigurationOptionConfigFile(path),
				configurationOptionNoWatch(),
			)
			if test.errStr != "" {
				assert.ErrorContains(tt, err, test.errStr)
			} else {
				assert.NoError(tt, err)
				assert.Equal(tt, test.expected, Default())
			}
		})
	}
}

func TestInitConfigMissingFile(t *testing.T) {
	_, err := InitConfig(
		context.Background(),
		ConfigurationOptionConfigFile(filepath.Join(t.TempDir(), "absent.yaml")),
		configurationOptionNoWatch(),
	)
	var cfgErr InvalidConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ErrFileReadConfig, cfgErr.Code)
}

func TestInitConfigNoFile(t *testing.T) {
	defer clearConfiguredStrategy()
	t.Setenv(EnvStrategy, "")

	c, err := InitConfig(context.Background(), configurationOptionNoWatch())
	assert.NoError(t, err)
	assert.NotNil(t, c)
	_, ok := configuredStrategy()
	assert.False(t, ok)
}

func TestInitConfigSkipLoad(t *testing.T) {
	defer clearConfiguredStrategy()
	t.Setenv(EnvStrategy, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("strategy:\n  default: vt-ris\n"), 0o644))
	c, err := InitConfig(
		context.Background(),
		ConfigurationOptionConfigFile(path),
		configurationOptionNoLoad(),
		configurationOptionNoWatch(),
	)
	assert.NoError(t, err)
	assert.Nil(t, c.Strategy)
	_, ok := configuredStrategy()
	assert.False(t, ok)
}

func TestInitConfigLoggerDebug(t *testing.T) {
	defer clearConfiguredStrategy()
	defer defaultLogger.SetDebug(false)
	t.Setenv(EnvStrategy, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("logger:\n  debug: true\n"), 0o644))
	c, err := InitConfig(
		context.Background(),
		ConfigurationOptionConfigFile(path),
		configurationOptionNoWatch(),
	)
	assert.NoError(t, err)
	assert.NotNil(t, c.Logger)
	assert.True(t, c.Logger.Debug())
}
