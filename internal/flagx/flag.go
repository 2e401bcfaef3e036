// Package flagx extracts individual flags from a raw argument list before
// the full command line is parsed.
package flagx

import (
	"strings"

	"github.com/spf13/pflag"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values. Both "-c value" and "--config=value" forms are recognised.
// Arguments after a "--" terminator are not inspected.
//
//	FilterArgs([]string{"stats", "-c", "conf.json", "--log-level=debug"}, []string{"-c", "--config"})
//	// []string{"-c", "conf.json"}
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		if strings.HasPrefix(arg, "-") {
			if name, _, ok := strings.Cut(arg, "="); ok {
				if _, ok := names[name]; ok {
					out = append(out, arg)
				}
				continue
			}
		}

		if _, ok := names[arg]; !ok {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath returns the value of -c/--config in args, or "" when absent.
func ConfigPath(args []string) string {
	var path string

	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.StringVarP(&path, "config", "c", "", "path to a JSON config file")
	fs.Usage = func() {}
	_ = fs.Parse(FilterArgs(args, []string{"-c", "--config"}))

	return path
}
