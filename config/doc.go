// Package config loads and validates the limitedqueue configuration.
//
// A configuration file is a small JSON document describing one bounded queue
// and whether it is instrumented:
//
//	{
//	  "queue":   {"name": "demo", "capacity": 3, "policy": "reject", "initial": [1, 2, 3]},
//	  "metrics": {"enabled": true, "prefix": "demo"}
//	}
//
// Load decodes the file on top of Default, so omitted fields keep their
// defaults, and then calls Validate. Files are only read when they carry a
// .json suffix, are regular files and stay under a size and nesting limit.
//
// Environment variables prefixed with LIMITEDQUEUE_ override individual
// fields through ApplyEnvOverrides.
//
// Every validation failure wraps errors.ErrInvalidConfig and is classified
// invalid. A missing file wraps errors.ErrConfigNotFound and is classified
// fatal.
package config
