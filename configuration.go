/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var environmentInterval = 5 * time.Second

// EnvStrategy overrides both the resolution table and any configured file
// value when set to a strategy name.
const EnvStrategy = "WIPE_STRATEGY"

type ConfigurationOption func(c *Configuration) error
type ConfigurationNotifyFunc func(setting string, value string)
type configurationData struct {
	lock        sync.Mutex
	notifyFuncs map[string][]ConfigurationNotifyFunc
	lastValues  map[string]string
}
type configurationMetadata struct {
	configFile string
	load       bool
	watch      bool
	wg         *sync.WaitGroup
	watcher    *fsnotify.Watcher
}
type strategyConfigurationData struct {
	defaultName string
}
type StrategyConfiguration struct {
	*strategyConfigurationData
}
type loggerConfigurationData struct {
	debug bool
}
type LoggerConfiguration struct {
	*loggerConfigurationData
}
type Configuration struct {
	*configurationData
	Metadata *configurationMetadata
	Strategy *StrategyConfiguration `json:"strategy" yaml:"strategy"`
	Logger   *LoggerConfiguration   `json:"logger" yaml:"logger"`
}

// ****** Default override ****************************************************

var (
	overrideLock     sync.Mutex
	overrideStrategy *Strategy
)

func configuredStrategy() (Strategy, bool) {
	overrideLock.Lock()
	defer overrideLock.Unlock()
	if overrideStrategy == nil {
		return 0, false
	}
	return *overrideStrategy, true
}

func setConfiguredStrategy(s Strategy) {
	overrideLock.Lock()
	defer overrideLock.Unlock()
	overrideStrategy = &s
}

func clearConfiguredStrategy() {
	overrideLock.Lock()
	defer overrideLock.Unlock()
	overrideStrategy = nil
}

// ****** Construction ********************************************************

// InitConfig loads the optional configuration that overrides Default's
// resolution table. Overrides come from the config file's strategy section
// and from the WIPE_STRATEGY environment variable, which wins. With
// watching enabled the file is reloaded on change and monitored environment
// variables are polled.
func InitConfig(ctx context.Context, options ...ConfigurationOption) (*Configuration, error) {
	c := &Configuration{
		configurationData: &configurationData{
			notifyFuncs: make(map[string][]ConfigurationNotifyFunc),
			lastValues:  make(map[string]string),
		},
		Metadata: &configurationMetadata{load: true, watch: true},
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	if c.Metadata.load && c.Metadata.configFile != "" {
		if err := c.loadConfigFile(); err != nil {
			return nil, err
		}
	}
	if err := c.applyOverrides(); err != nil {
		return nil, err
	}

	c.AddNotifyOnChange(EnvStrategy, func(setting string, value string) {
		if err := c.applyOverrides(); err != nil {
			defaultLogger.Warnf("ignoring %s=%q: %v", setting, value, err)
		}
	})

	if c.Metadata.watch {
		var err error
		c.Metadata.watcher, err = fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		if c.Metadata.configFile != "" {
			if err = c.Metadata.watcher.Add(c.Metadata.configFile); err != nil {
				_ = c.Metadata.watcher.Close()
				return nil, InvalidConfigError{Code: ErrFileReadConfig, err: err}
			}
		}
		go c.watch(ctx)
	}

	return c, nil
}

func (c *Configuration) loadConfigFile() error {
	bs, err := os.ReadFile(c.Metadata.configFile)
	if err != nil {
		return InvalidConfigError{Code: ErrFileReadConfig, err: err}
	}
	switch c.configType() {
	case "json":
		err = json.Unmarshal(bs, c)
	case "yaml", "yml":
		err = yaml.Unmarshal(bs, c)
	default:
		err = fmt.Errorf("unsupported config format %q", c.configType())
	}
	if err != nil {
		return InvalidConfigError{Code: ErrUnmarshalConfig, err: err}
	}
	return nil
}

// applyOverrides installs the configured default strategy, preferring the
// environment to the file, and pushes the logger settings.
func (c *Configuration) applyOverrides() error {
	name := os.Getenv(EnvStrategy)
	if name == "" && c.Strategy != nil {
		name = c.Strategy.defaultName
	}
	if name != "" {
		s, err := ParseStrategy(name)
		if err != nil {
			return InvalidConfigError{Code: ErrStrategyConfig, err: err}
		}
		setConfiguredStrategy(s)
	} else {
		clearConfiguredStrategy()
	}
	if c.Logger != nil {
		defaultLogger.SetDebug(c.Logger.debug)
	}
	return nil
}

func (c *Configuration) watch(ctx context.Context) {
	if c.Metadata.wg != nil {
		c.Metadata.wg.Add(1)
		defer c.Metadata.wg.Done()
	}
	timer := time.NewTicker(environmentInterval)
	for {
		select {
		case event, ok := <-c.Metadata.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) {
				if err := c.loadConfigFile(); err != nil {
					defaultLogger.Warnf("config reload failed: %v", err)
					continue
				}
				if err := c.applyOverrides(); err != nil {
					defaultLogger.Warnf("config reload failed: %v", err)
				}
			}
		case err, ok := <-c.Metadata.watcher.Errors:
			if !ok {
				return
			}
			defaultLogger.Warnf("config watch error: %v", err)
		case <-timer.C:
			timer.Stop()
			c.checkForEnvChange()
			timer.Reset(environmentInterval)
		case <-ctx.Done():
			_ = c.Metadata.watcher.Close()
			return
		}
	}
}

func (c *Configuration) checkForEnvChange() {
	c.lock.Lock()
	defer c.lock.Unlock()
	for setting, notifyFuncs := range c.notifyFuncs {
		value := os.Getenv(setting)
		if last, ok := c.lastValues[setting]; ok && last == value {
			continue
		}
		c.lastValues[setting] = value
		for _, notifyFunc := range notifyFuncs {
			notifyFunc(setting, value)
		}
	}
}

func (c *Configuration) configType() string {
	index := strings.LastIndex(c.Metadata.configFile, ".")
	if index == -1 {
		return ""
	}
	return strings.ToLower(c.Metadata.configFile[index+1:])
}

// AddNotifyOnChange monitors the named environment variable and triggers
// the notifyFunc when its value changes.
func (c *configurationData) AddNotifyOnChange(setting string, notifyFunc ConfigurationNotifyFunc) {
	c.lock.Lock()
	defer c.lock.Unlock()

	notifyFuncs, ok := c.notifyFuncs[setting]
	if !ok {
		notifyFuncs = make([]ConfigurationNotifyFunc, 0)
		c.lastValues[setting] = os.Getenv(setting)
	}
	c.notifyFuncs[setting] = append(notifyFuncs, notifyFunc)
}

// ****** Configuration unmarshal functions ***********************************

func (c *Configuration) UnmarshalJSON(bs []byte) error {
	data := map[string]interface{}{}
	err := json.Unmarshal(bs, &data)
	if err != nil {
		return err
	}
	return c.unmarshalLoad(data)
}
func (c *Configuration) UnmarshalYAML(value *yaml.Node) error {
	data := map[string]interface{}{}
	err := value.Decode(&data)
	if err != nil {
		return err
	}
	return c.unmarshalLoad(data)
}
func (c *Configuration) unmarshalLoad(values map[string]interface{}) error {
	var err error
	for key, value := range values {
		switch key {
		case "strategy":
			if m, ok := value.(map[string]interface{}); ok {
				c.Strategy, err = newStrategyConfiguration(m)
			} else {
				return InvalidConfigError{
					Code: ErrUnmarshalConfig,
					err:  fmt.Errorf("%s != %s", key, "map[string]interface{}"),
				}
			}
		case "logger":
			if m, ok := value.(map[string]interface{}); ok {
				c.Logger, err = newLoggerConfiguration(m)
			} else {
				return InvalidConfigError{
					Code: ErrUnmarshalConfig,
					err:  fmt.Errorf("%s != %s", key, "map[string]interface{}"),
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func newStrategyConfiguration(values map[string]interface{}) (*StrategyConfiguration, error) {
	c := &StrategyConfiguration{strategyConfigurationData: &strategyConfigurationData{}}
	for key, value := range values {
		switch key {
		case "default":
			if name, err := toString(key, value); err != nil {
				return nil, InvalidConfigError{Code: ErrUnmarshalConfig, err: err}
			} else {
				c.defaultName = name
			}
		}
	}
	return c, nil
}

func newLoggerConfiguration(values map[string]interface{}) (*LoggerConfiguration, error) {
	c := &LoggerConfiguration{loggerConfigurationData: &loggerConfigurationData{}}
	for key, value := range values {
		switch key {
		case "debug":
			if debug, err := toBool(key, value); err != nil {
				return nil, InvalidConfigError{Code: ErrUnmarshalConfig, err: err}
			} else {
				c.debug = debug
			}
		}
	}
	return c, nil
}

// ****** Configuration *******************************************************

func (c *StrategyConfiguration) Default() string {
	return c.defaultName
}
func (c *StrategyConfiguration) SetDefault(name string) {
	c.defaultName = name
}
func (c *LoggerConfiguration) Debug() bool {
	return c.debug
}

// ****** Options *************************************************************

func ConfigurationOptionConfigFile(configFile string) ConfigurationOption {
	return func(c *Configuration) error {
		c.Metadata.configFile = configFile
		return nil
	}
}
func ConfigurationOptionWaitGroup(wg *sync.WaitGroup) ConfigurationOption {
	return func(c *Configuration) error {
		c.Metadata.wg = wg
		return nil
	}
}
func configurationOptionNoLoad() ConfigurationOption {
	return func(c *Configuration) error {
		c.Metadata.load = false
		return nil
	}
}
func configurationOptionNoWatch() ConfigurationOption {
	return func(c *Configuration) error {
		c.Metadata.watch = false
		return nil
	}
}

// ***** Error ****************************************************************

const (
	ErrFileReadConfig  = "WC01"
	ErrUnmarshalConfig = "WC02"
	ErrStrategyConfig  = "WC03"
)

type InvalidConfigError struct {
	Code string
	err  error
}

func (e InvalidConfigError) Error() string {
	switch e.Code {
	case ErrStrategyConfig:
		return fmt.Sprintf("configuration error - invalid strategy: %v", e.err)
	default:
		return fmt.Sprintf("configuration error - %v", e.err)
	}
}
func (e InvalidConfigError) Unwrap() error {
	return e.err
}
