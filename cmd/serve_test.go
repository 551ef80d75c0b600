package cmd

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wot-oss/resx/internal/config"
)

func buildResxEnvVar(name string) string {
	return strings.ToUpper(config.EnvPrefix + "_" + name)
}

func TestGetServerOptionsReadsFromEnvironment(t *testing.T) {

	t.Run("with set environment variables", func(t *testing.T) {
		envAllowedHeaders := buildResxEnvVar(config.KeyCorsAllowedHeaders)
		envAllowedOrigins := buildResxEnvVar(config.KeyCorsAllowedOrigins)
		envAllowCredentials := buildResxEnvVar(config.KeyCorsAllowCredentials)
		envMaxAge := buildResxEnvVar(config.KeyCorsMaxAge)

		t.Setenv(envAllowedHeaders, "X-Api-Key, X-Bar")
		t.Setenv(envAllowedOrigins, "http://example.org, https://sample.com")
		t.Setenv(envAllowCredentials, "true")
		t.Setenv(envMaxAge, "120")
		config.InitViper()

		opts := getCORSOptions()

		corsOrigins := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("allowedOrigins"))
		corsHeaders := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("allowedHeaders"))
		corsCredentials := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("allowCredentials"))
		corsMaxAge := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("maxAge"))

		assert.True(t, strings.Contains(corsOrigins, "http://example.org"))
		assert.True(t, strings.Contains(corsOrigins, "https://sample.com"))
		assert.True(t, strings.Contains(corsHeaders, "X-Api-Key"))
		assert.True(t, strings.Contains(corsHeaders, "X-Bar"))
		assert.Equal(t, "true", corsCredentials)
		assert.Equal(t, "120", corsMaxAge)
	})

	t.Run("without set environment variables", func(t *testing.T) {
		config.InitViper()

		opts := getCORSOptions()

		corsOrigins := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("allowedOrigins"))
		corsHeaders := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("allowedHeaders"))
		corsCredentials := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("allowCredentials"))
		corsMaxAge := fmt.Sprintf("%v", reflect.ValueOf(opts).FieldByName("maxAge"))

		assert.Equal(t, "[]", corsOrigins)
		assert.Equal(t, "[]", corsHeaders)
		assert.Equal(t, "false", corsCredentials)
		assert.Equal(t, "0", corsMaxAge)
	})
}

func TestGetJWKSOptionsReadsFromEnvironment(t *testing.T) {
	t.Setenv(buildResxEnvVar(config.KeyJWTServiceID), "resx-service")
	t.Setenv(buildResxEnvVar(config.KeyJWKSURL), "http://localhost:9999/jwks")
	config.InitViper()

	opts := getJWKSOptions()

	assert.Equal(t, "resx-service", opts.JWTServiceID)
	assert.Equal(t, "http://localhost:9999/jwks", opts.JWKSURLString)
}
