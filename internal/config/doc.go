// Package config provides configuration parsing for the abbrev tool.
//
// The configuration is stored in abbrev.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "snippets": ["snippets/html.yaml", "s3://team-snippets/web.yaml"],
//	  "builtins": true,
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "server": {
//	    "address": "localhost:8080",
//	    "metrics": true
//	  },
//	  "s3": {
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.Logger(os.Stderr)
package config
