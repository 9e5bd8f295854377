// Package config loads widgetkit.json.
//
// # Configuration File Structure
//
//	{
//	  "addr": ":8080",
//	  "readTimeout": "60s",
//	  "writeTimeout": "10s",
//	  "metricsNamespace": "widgetkit",
//	  "tracerName": "widgetkit",
//	  "logLevel": "info",
//	  "snapshot": {
//	    "bucket": "my-bucket",
//	    "prefix": "snapshots/",
//	    "region": "eu-west-1",
//	    "endpoint": "http://localhost:9000",
//	    "pathStyle": true
//	  }
//	}
//
// WIDGETKIT_ADDR and WIDGETKIT_LOG_LEVEL override the file.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Addr)
package config
