// Package config loads domsync.json, the project configuration read by
// the domsync command.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "tree": "page.yaml",
//	    "lang": "en"
//	  },
//	  "render": {
//	    "namespace": "V",
//	    "rootId": "app",
//	    "noBulkReplace": {"standard": ["ul"]}
//	  },
//	  "snapshot": {
//	    "store": "s3",
//	    "bucket": "snapshots",
//	    "prefix": "pages/",
//	    "region": "eu-west-1"
//	  },
//	  "metrics": {"enabled": true, "path": "/metrics"}
//	}
//
// Missing fields take the defaults from New. Unknown fields are rejected.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
