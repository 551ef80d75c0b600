package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/spf13/viper"
)

const (
	KeyConfigDir            = "config"
	KeyLog                  = "log"
	KeyLogLevel             = "logLevel"
	KeyBasePath             = "basePath"
	KeyCandidates           = "candidates"
	KeyUrlContextRoot       = "urlContextRoot"
	KeyCorsAllowedOrigins   = "corsAllowedOrigins"
	KeyCorsAllowedHeaders   = "corsAllowedHeaders"
	KeyCorsAllowCredentials = "corsAllowCredentials"
	KeyCorsMaxAge           = "corsMaxAge"
	KeyJWTValidation        = "jwtValidation"
	KeyJWTServiceID         = "jwtServiceId"
	KeyJWKSURL              = "jwksUrl"
	KeyS3Region             = "s3Region"
	KeyS3Endpoint           = "s3Endpoint"
	KeyS3AccessKeyId        = "s3AccessKeyId"
	KeyS3SecretAccessKey    = "s3SecretAccessKey"
	EnvPrefix               = "resx"

	configFileName = "config.json"
)

var HomeDir string
var DefaultConfigDir string

// ConfigDir is the directory the config file and the http cache live in. It is empty until InitConfig is called.
var ConfigDir string

func InitConfig() {
	var err error
	HomeDir, err = os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultConfigDir = filepath.Join(HomeDir, ".resx")
	ConfigDir = DefaultConfigDir
}

func InitViper() {
	viper.SetDefault(KeyLog, false)
	viper.SetDefault(KeyCandidates, []string{})

	viper.SetConfigType("json")
	viper.SetConfigName("config")
	viper.AddConfigPath(ConfigDir)
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; do nothing and rely on defaults
		} else {
			panic("cannot read config: " + err.Error())
		}
	}
	// set prefix "resx" for environment variables
	// the environment variables then have to match pattern "resx_<viper variable>", lower or uppercase
	viper.SetEnvPrefix(EnvPrefix)

	// bind viper variables to environment variables
	_ = viper.BindEnv(KeyConfigDir)            // env variable name = RESX_CONFIG
	_ = viper.BindEnv(KeyLog)                  // env variable name = RESX_LOG
	_ = viper.BindEnv(KeyLogLevel)             // env variable name = RESX_LOGLEVEL
	_ = viper.BindEnv(KeyBasePath)             // env variable name = RESX_BASEPATH
	_ = viper.BindEnv(KeyUrlContextRoot)       // env variable name = RESX_URLCONTEXTROOT
	_ = viper.BindEnv(KeyCorsAllowedOrigins)   // env variable name = RESX_CORSALLOWEDORIGINS
	_ = viper.BindEnv(KeyCorsAllowedHeaders)   // env variable name = RESX_CORSALLOWEDHEADERS
	_ = viper.BindEnv(KeyCorsAllowCredentials) // env variable name = RESX_CORSALLOWCREDENTIALS
	_ = viper.BindEnv(KeyCorsMaxAge)           // env variable name = RESX_CORSMAXAGE
	_ = viper.BindEnv(KeyJWTValidation)        // env variable name = RESX_JWTVALIDATION
	_ = viper.BindEnv(KeyJWTServiceID)         // env variable name = RESX_JWTSERVICEID
	_ = viper.BindEnv(KeyJWKSURL)              // env variable name = RESX_JWKSURL
	_ = viper.BindEnv(KeyS3Region)             // env variable name = RESX_S3REGION
	_ = viper.BindEnv(KeyS3Endpoint)           // env variable name = RESX_S3ENDPOINT
	_ = viper.BindEnv(KeyS3AccessKeyId)        // env variable name = RESX_S3ACCESSKEYID
	_ = viper.BindEnv(KeyS3SecretAccessKey)    // env variable name = RESX_S3SECRETACCESSKEY
}

// UseConfigDir switches to the config file in dir and reads it, if it exists
func UseConfigDir(dir string) error {
	ConfigDir = dir
	viper.SetConfigFile(filepath.Join(dir, configFileName))
	err := viper.ReadInConfig()
	var nfErr viper.ConfigFileNotFoundError
	if err == nil || errors.Is(err, os.ErrNotExist) || errors.As(err, &nfErr) {
		return nil
	}
	return fmt.Errorf("cannot read config in %s: %w", dir, err)
}

// Save writes key with value to the config file, leaving all other keys in the file untouched, and sets it in viper
func Save(key string, value any) error {
	return updateConfigFile(func(m map[string]any) {
		m[key] = value
	}, func() {
		viper.Set(key, value)
	})
}

// Delete removes key from the config file, leaving all other keys in the file untouched
func Delete(key string) error {
	return updateConfigFile(func(m map[string]any) {
		delete(m, key)
	}, func() {
		viper.Set(key, nil)
	})
}

func updateConfigFile(update func(map[string]any), after func()) error {
	file := viper.ConfigFileUsed()
	if file == "" {
		file = filepath.Join(ConfigDir, configFileName)
	}
	m := map[string]any{}
	data, err := os.ReadFile(file)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &m); err != nil {
				return fmt.Errorf("cannot parse config file %s: %w", file, err)
			}
		}
	}
	update(m)

	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0770); err != nil {
		return err
	}
	if err := renameio.WriteFile(file, out, 0660); err != nil {
		return err
	}
	after()
	return nil
}
