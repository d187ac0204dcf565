// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env, with optional .env support via
// godotenv for local development.
//
// Each configuration type is parsed exactly once per process and cached, so
// components can independently Load their own config struct without
// coordinating initialization order.
package config
