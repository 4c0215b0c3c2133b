// FILE: lixenwraith/envdot/discovery.go
package envdot

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryOptions configures automatic config file discovery
type DiscoveryOptions struct {
	// File names to try in each directory, in order
	Names []string

	// Custom search paths, searched before the defaults
	Paths []string

	// Environment variable holding an explicit path
	EnvVar string

	// Application name used for XDG subdirectories
	AppName string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in the current directory
	UseCurrentDir bool

	// Whether to walk from the current directory up to the filesystem root
	SearchParents bool
}

// DefaultDiscoveryOptions returns options looking for .env and appName config files
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	names := []string{DefaultFile}
	if appName != "" {
		for _, ext := range []string{".env", ".toml", ".yaml", ".yml", ".json", ".ini"} {
			names = append(names, appName+ext)
		}
	}
	envVar := "DOTENV_FILE"
	if appName != "" {
		envVar = strings.ToUpper(appName) + "_CONFIG"
	}
	return DiscoveryOptions{
		Names:         names,
		EnvVar:        envVar,
		AppName:       appName,
		UseXDG:        appName != "",
		UseCurrentDir: true,
		SearchParents: true,
	}
}

// DiscoverFile returns the first existing candidate file.
// Order: the EnvVar path, custom paths, the current directory and its parents, XDG paths.
func DiscoverFile(opts DiscoveryOptions) (string, bool) {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			if isFile(path) {
				return path, true
			}
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
			if opts.SearchParents {
				for dir := filepath.Dir(cwd); ; dir = filepath.Dir(dir) {
					searchPaths = append(searchPaths, dir)
					if dir == filepath.Dir(dir) {
						break
					}
				}
			}
		}
	}

	if opts.UseXDG && opts.AppName != "" {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.AppName)...)
	}

	for _, dir := range searchPaths {
		for _, name := range opts.Names {
			path := filepath.Join(dir, name)
			if isFile(path) {
				return path, true
			}
		}
	}
	return "", false
}

// WithFileDiscovery adds the discovered file, if any, as an optional source
func (b *Builder) WithFileDiscovery(opts DiscoveryOptions) *Builder {
	if path, ok := DiscoverFile(opts); ok {
		return b.WithOptionalFile(path)
	}
	// No file found is not an error - app can run with defaults/env
	return b
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		// Default system paths
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
