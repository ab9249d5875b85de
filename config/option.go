package config

import "go.uber.org/zap/zapcore"

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithHTTPPort(port string) Option {
	return func(c *Config) {
		c.Server.Port = port
	}
}

func WithDBName(name string) Option {
	return func(c *Config) {
		c.Database.Name = name
	}
}
