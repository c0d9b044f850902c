package main

import (
	"fmt"
	"sort"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/marshal"
)

// entryPoint resolves a kind argument to the exported name that serves it.
func entryPoint(arg string) (ehparse.Kind, string, error) {
	for name, kind := range marshal.ExportNames {
		if string(kind) == arg {
			return kind, name, nil
		}
	}
	return "", "", ehparse.Errorf(ehparse.EINVALID, "unknown kind %q. Run 'ehparse kinds' to see available kinds", arg)
}

// Run executes the kinds command.
func (c *KindsCmd) Run(deps *Dependencies) error {
	names := make([]string, 0, len(marshal.ExportNames))
	for name := range marshal.ExportNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return marshal.ExportNames[names[i]] < marshal.ExportNames[names[j]]
	})

	for _, name := range names {
		fmt.Fprintf(deps.Stdout, "%-12s %s\n", marshal.ExportNames[name], name)
	}
	return nil
}
