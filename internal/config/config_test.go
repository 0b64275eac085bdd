package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("COUNSEL_TEST_VALUE", "set")
	t.Setenv("COUNSEL_TEST_EMPTY", "")

	assert.Equal(t, "set", GetEnv("COUNSEL_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("COUNSEL_TEST_EMPTY", "default"))
	assert.Equal(t, "default", GetEnv("COUNSEL_TEST_MISSING", "default"))
}

func TestGetIntAndFloatEnv(t *testing.T) {
	t.Setenv("COUNSEL_TEST_INT", "42")
	t.Setenv("COUNSEL_TEST_BAD_INT", "forty")
	t.Setenv("COUNSEL_TEST_FLOAT", "150.5")

	assert.Equal(t, 42, GetIntEnv("COUNSEL_TEST_INT", 1))
	assert.Equal(t, 1, GetIntEnv("COUNSEL_TEST_BAD_INT", 1))
	assert.Equal(t, 150.5, GetFloatEnv("COUNSEL_TEST_FLOAT", 0))
	assert.Equal(t, 9.0, GetFloatEnv("COUNSEL_TEST_FLOAT_MISSING", 9))
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("COUNSEL_TEST_LIST", " http://a.test , ,http://b.test")

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetListEnv("COUNSEL_TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, GetListEnv("COUNSEL_TEST_LIST_MISSING", []string{"x"}))
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.True(t, IsProduction())

	t.Setenv("ENV", "staging")
	assert.False(t, IsProduction())
}
