package config

// Package config in cmd provides a thin wrapper around the shared
// configuration loader found in pkg/config. It exposes the loaded
// configuration via the AppConfig variable for use by routerd and
// routerctl.

import (
	pkgconfig "github.com/synnergy-network/swaprouter/pkg/config"
)

// AppConfig holds the currently loaded configuration for command line
// utilities. It mirrors pkg/config.AppConfig but is scoped to this
// package for convenience when writing CLI tools and tests.
var AppConfig pkgconfig.Config

// LoadConfig loads the configuration and stores it in AppConfig. Errors
// during loading cause a panic, which is acceptable for command line
// initialisation where failure should abort execution.
func LoadConfig() {
	cfg, err := pkgconfig.Load()
	if err != nil {
		panic(err)
	}
	AppConfig = *cfg
}
