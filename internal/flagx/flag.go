// Package flagx contains helpers for sharing os.Args between independent
// flag sets: the configuration loader picks the flags it owns and the
// maintenance CLI sees everything else.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns a slice of command-line arguments that only contains
// the allowed flags (and their values) specified in allowedFlags.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// A value given as a separate argument is recognised only when it does not
// itself start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	kept, _ := partitionArgs(args, allowedFlags)
	return kept
}

// StripArgs is the complement of FilterArgs: it returns args with every
// allowed flag (and its value) removed, preserving the order of the rest.
//
//	StripArgs([]string{"-d", "dsn", "seed", "-n", "1"}, []string{"-d"})
//	// => []string{"seed", "-n", "1"}
func StripArgs(args []string, allowedFlags []string) []string {
	_, rest := partitionArgs(args, allowedFlags)
	return rest
}

func partitionArgs(args []string, allowedFlags []string) (kept, rest []string) {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	kept = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" or "-f=value"
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				kept = append(kept, arg)
			} else {
				rest = append(rest, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			kept = append(kept, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				kept = append(kept, args[i+1])
				i++
			}
			continue
		}

		rest = append(rest, arg)
	}

	return kept, rest
}

// ConfigFileFlags lists the flags understood by JsonConfigFlags.
var ConfigFileFlags = []string{"-c", "-config"}

// JsonConfigFlags extracts the config file path provided via the -c or
// -config flags. Other arguments are ignored. If neither flag is present,
// an empty string is returned.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], ConfigFileFlags)

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
