package env

import (
	"context"
	"os"
	"strings"

	"github.com/code-payments/fee-router/pkg/config"
	"github.com/code-payments/fee-router/pkg/config/wrapper"
)

type conf struct {
	key string
}

// NewConfig returns a config read from the upper cased environment variable
// key. The variable is looked up on every Get, and an empty value counts as
// unset.
func NewConfig(key string) config.Config {
	return &conf{
		key: strings.ToUpper(key),
	}
}

// Get implements config.Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	val, ok := os.LookupEnv(c.key)
	if !ok || len(val) == 0 {
		return nil, config.ErrNoValue
	}
	return []byte(val), nil
}

// Shutdown implements config.Config.Shutdown
func (c *conf) Shutdown() {}

func NewBoolConfig(key string, defaultValue bool) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(key), defaultValue)
}

func NewStringConfig(key string, defaultValue string) config.String {
	return wrapper.NewStringConfig(NewConfig(key), defaultValue)
}
