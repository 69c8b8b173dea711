// Package config loads restkit configuration with Viper.
//
// Load resolves a config.yml and an optional .env file for a service, lets
// environment variables override file values, and unmarshals the result into
// a struct using mapstructure tags:
//
//	var cfg restclient.Config
//	err := config.Load("orders", &cfg, config.WithEnvPrefix("ORDERS"))
//
// With the prefix ORDERS, the key debug.output is overridden by
// ORDERS_DEBUG_OUTPUT.
package config
