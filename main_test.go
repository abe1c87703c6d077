package main

import (
	"fmt"
	"testing"

	"vriksh/internal/config"
	"vriksh/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger(config.LogConfig{Level: "DEBUG"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(config.LogConfig{Level: "chatty"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(config.LogConfig{}).GetLevel())
}

func TestOpenDatabase(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := openDatabase(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	assert.NoError(t, repositories.AutoMigrate(db))

	_, err = openDatabase(config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}
