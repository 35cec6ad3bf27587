package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), ConnectionParams{
		Driver:  "lib/pq",
		Host:    "localhost",
		Port:    5432,
		User:    "postgres",
		DBName:  "postgres",
		SSLMode: "disable",
	})
	assert.ErrorContains(t, err, "unsupported database driver")
}
