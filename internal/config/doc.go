// Package config loads nexmark run configuration. Default() is the baseline;
// Load reads a JSON or YAML file over it and FromEnv overlays NEXMARK_*
// variables. CLI flags are applied last by the caller.
//
//	cfg, err := config.Load("nexmark.yaml")
//	if err != nil {
//	    return err
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
