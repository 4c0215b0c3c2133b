// File: lixenwraith/envdot/doc.go

// Package envdot reads configuration from .env, JSON, YAML, INI and TOML files
// into a single ordered key-value store with automatic type detection, and
// optionally mirrors the values into the process environment.
//
// Features:
//   - Automatic detection of null, boolean, integer, float and string values
//   - Explicit casts to bool, int, float, string and list
//   - Nested sources flattened to upper-case keys joined with "_"
//   - Saving to any supported format, rebuilding the nesting from the keys
//   - Merge with or without override across multiple sources
//   - Mirroring into the process environment and a typed Getenv
//   - Struct decoding and struct defaults via mapstructure
//   - Thread-safe operations using sync.RWMutex
//
// Quick Start:
//
//	store := envdot.New()
//	if err := store.Load("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	port, _ := store.Int64("SERVER_PORT")
//	debug := store.GetDefault("DEBUG", false)
//
// Detection:
//
//	envdot.AutoDetect("8080")  // int64(8080)
//	envdot.AutoDetect("3.14")  // 3.14
//	envdot.AutoDetect("yes")   // true
//	envdot.AutoDetect("1")     // true, booleans are tried before integers
//	envdot.AutoDetect("null")  // nil
//
// Flattening:
//
//	{"database": {"host": "db", "ports": [5432, 5433]}}
//
// becomes DATABASE_HOST=db, DATABASE_PORTS_0=5432, DATABASE_PORTS_1=5433.
//
// Typed getenv:
//
//	envdot.ReplaceGetenv()
//	envdot.Getenv("PORT")  // int64(8080) instead of "8080"
//	envdot.RestoreGetenv()
package envdot
