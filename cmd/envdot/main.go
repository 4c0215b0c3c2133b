// FILE: lixenwraith/envdot/cmd/envdot/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/envdot"
	"github.com/lixenwraith/envdot/internal/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "envdot: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and executes one command, writing results to stdout.
func run(args []string, stdout io.Writer) error {
	app := kingpin.New("envdot", "Inspect and convert .env, JSON, YAML, INI and TOML configuration")
	app.UsageWriter(stdout)
	app.ErrorWriter(stdout)

	file := app.Flag("file", "Configuration file").Short('f').Default(envdot.DefaultFile).String()
	format := app.Flag("format", "Force the file format (env, json, yaml, ini, toml)").String()
	debug := app.Flag("debug", "Enable debug logging").Envar("DOTENV_DEBUG").Bool()

	getCmd := app.Command("get", "Print the value of a key")
	getKey := getCmd.Arg("key", "Key to read").Required().String()
	getType := getCmd.Flag("type", "Cast to bool, int, float, string or list").Short('t').Default("auto").String()
	getDefault := getCmd.Flag("default", "Value printed when the key is absent").String()

	setCmd := app.Command("set", "Set a key and save the file")
	setKey := setCmd.Arg("key", "Key to write").Required().String()
	setValue := setCmd.Arg("value", "Value to write").Required().String()

	deleteCmd := app.Command("delete", "Remove a key and save the file")
	deleteKey := deleteCmd.Arg("key", "Key to remove").Required().String()

	listCmd := app.Command("list", "List entries")
	listPrefix := listCmd.Flag("prefix", "Only keys starting with prefix").String()
	listPattern := listCmd.Flag("pattern", "Only keys matching a glob").String()
	listTypes := listCmd.Flag("types", "Show the detected type of each value").Bool()

	convertCmd := app.Command("convert", "Convert the file into another format")
	convertTarget := convertCmd.Arg("target", "Output file; its extension selects the format").Required().String()
	convertFormat := convertCmd.Flag("to", "Force the output format").String()

	exportCmd := app.Command("export", "Print entries as .env text")
	exportShell := exportCmd.Flag("shell", "Prefix lines with 'export '").Bool()

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(*debug)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	inFormat, err := optionalFormat(*format)
	if err != nil {
		return err
	}

	store := envdot.NewWithOptions(envdot.Options{
		Environment: envdot.NewMapEnvironment(nil),
		Logger:      logger,
	})

	loadErr := store.LoadWithOptions(*file, envdot.LoadOptions{Format: inFormat})
	// set may create the file
	if loadErr != nil && !(command == setCmd.FullCommand() && errors.Is(loadErr, envdot.ErrFileNotFound)) {
		return loadErr
	}

	switch command {
	case getCmd.FullCommand():
		kind, err := envdot.ParseKind(*getType)
		if err != nil {
			return err
		}
		if !store.Has(*getKey) && *getDefault == "" {
			return fmt.Errorf("%w: %s", envdot.ErrKeyNotFound, *getKey)
		}
		var def any
		if *getDefault != "" {
			def = *getDefault
		}
		v, err := store.GetAs(*getKey, kind, def)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, envdot.ToString(v))

	case setCmd.FullCommand():
		if err := store.Set(*setKey, *setValue); err != nil {
			return err
		}
		if err := store.Save(*file, inFormat); err != nil {
			return err
		}
		logger.Debug("saved", zap.String("file", *file), zap.String("key", *setKey))

	case deleteCmd.FullCommand():
		if !store.Delete(*deleteKey) {
			return fmt.Errorf("%w: %s", envdot.ErrKeyNotFound, *deleteKey)
		}
		if err := store.Save(*file, inFormat); err != nil {
			return err
		}

	case listCmd.FullCommand():
		entries := store.All()
		if *listPrefix != "" {
			entries = store.Filter(*listPrefix)
		}
		if *listPattern != "" {
			matched, err := store.Find(*listPattern)
			if err != nil {
				return err
			}
			entries = intersect(entries, matched)
		}
		for _, e := range entries {
			if *listTypes {
				fmt.Fprintf(stdout, "%s=%s (%s)\n", e.Key, e.Raw, typeName(e.Value))
			} else {
				fmt.Fprintf(stdout, "%s=%s\n", e.Key, e.Raw)
			}
		}

	case convertCmd.FullCommand():
		outFormat, err := optionalFormat(*convertFormat)
		if err != nil {
			return err
		}
		if err := store.Save(*convertTarget, outFormat); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "converted %s -> %s (%d keys)\n", *file, *convertTarget, store.Len())

	case exportCmd.FullCommand():
		text := store.Export()
		if *exportShell {
			var b strings.Builder
			for _, line := range strings.SplitAfter(text, "\n") {
				if line != "" {
					b.WriteString("export " + line)
				}
			}
			text = b.String()
		}
		fmt.Fprint(stdout, text)
	}
	return nil
}

func optionalFormat(name string) (envdot.Format, error) {
	if name == "" {
		return "", nil
	}
	return envdot.ParseFormat(name)
}

func intersect(a, b []envdot.Entry) []envdot.Entry {
	keep := make(map[string]bool, len(b))
	for _, e := range b {
		keep[e.Key] = true
	}
	var out []envdot.Entry
	for _, e := range a {
		if keep[e.Key] {
			out = append(out, e)
		}
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	}
	return "string"
}
