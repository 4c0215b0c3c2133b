// FILE: lixenwraith/envdot/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lixenwraith/envdot"
)

// AppConfig is populated from the flattened store.
type AppConfig struct {
	Server struct {
		Host     string        `env:"HOST"`
		Port     int64         `env:"PORT"`
		LogLevel string        `env:"LOG_LEVEL"`
		Timeout  time.Duration `env:"TIMEOUT"`
	} `env:"SERVER"`
	Hosts []string `env:"HOSTS"`
}

const (
	yamlFilePath = "config.yaml"
	envFilePath  = ".env.local"
)

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write a nested YAML file and a flat .env override next to it.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating source files...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(yamlFilePath)
		os.Remove(envFilePath)
		os.Remove("config.json")
		for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "SERVER_LOG_LEVEL", "SERVER_TIMEOUT", "HOSTS_0", "HOSTS_1"} {
			os.Unsetenv(key)
		}
	}()

	yamlContent := `
server:
  host: localhost
  port: 8080
  log_level: info
hosts:
  - a.internal
  - b.internal
`
	if err := os.WriteFile(yamlFilePath, []byte(yamlContent), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", yamlFilePath, err)
	}
	if err := os.WriteFile(envFilePath, []byte("SERVER_PORT=9090\nSERVER_LOG_LEVEL=\"debug\"\n"), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", envFilePath, err)
	}
	log.Printf("✅ Wrote %s and %s.", yamlFilePath, envFilePath)

	// =========================================================================
	// PART 2: BUILDING THE STORE
	// Later files override earlier ones; defaults only fill absent keys.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Building the store...")

	defaults := &AppConfig{}
	defaults.Server.Timeout = 30 * time.Second

	target := &AppConfig{}
	store, err := envdot.NewBuilder().
		WithDefaults(defaults).
		WithFile(yamlFilePath).
		WithFile(envFilePath).
		WithOverride(true).
		WithRequired("SERVER_HOST", "SERVER_PORT").
		WithReplaceGetenv().
		BuildAndDecode("", target)
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	defer envdot.RestoreGetenv()

	log.Println("✅ Store built. Flattened entries:")
	for _, e := range store.All() {
		log.Printf("   %-18s = %-12q (%T)", e.Key, e.Raw, e.Value)
	}
	printCurrentState(target)

	// =========================================================================
	// PART 3: TYPED ENVIRONMENT ACCESS
	// Values were mirrored into the process environment.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Reading the environment...")

	port := envdot.Getenv("SERVER_PORT")
	log.Printf("   Getenv(SERVER_PORT) = %v (%T)", port, port)
	log.Printf("   os.Getenv(SERVER_PORT) = %q", os.Getenv("SERVER_PORT"))

	hosts, err := store.GetAs("HOSTS_0", envdot.KindList, nil)
	if err != nil {
		log.Fatalf("❌ GetAs failed: %v", err)
	}
	log.Printf("   GetAs(HOSTS_0, list) = %v", hosts)

	// =========================================================================
	// PART 4: CONVERTING FORMATS
	// Flat keys are nested again on save.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Saving as JSON...")

	if err := store.Save("config.json", ""); err != nil {
		log.Fatalf("❌ Save failed: %v", err)
	}
	data, err := os.ReadFile("config.json")
	if err != nil {
		log.Fatalf("❌ Read back failed: %v", err)
	}
	fmt.Println(string(data))
	log.Println("✅ Done.")
}

// printCurrentState logs the decoded struct.
func printCurrentState(cfg *AppConfig) {
	log.Println("   --- Decoded Struct ---")
	log.Printf("     Server Host:     %s", cfg.Server.Host)
	log.Printf("     Server Port:     %d", cfg.Server.Port)
	log.Printf("     Server LogLevel: %s", cfg.Server.LogLevel)
	log.Printf("     Server Timeout:  %s", cfg.Server.Timeout)
	log.Printf("     Hosts:           %v", cfg.Hosts)
	log.Println("   ----------------------")
}
