package main

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs root with args after routing file paths that share a
// subcommand's name to the batch.
func execute(ctx context.Context, root *cobra.Command, args []string) error {
	root.SetArgs(routeFileArgs(root, args))
	return root.ExecuteContext(ctx)
}

// routeFileArgs moves positional arguments behind "--" when the first one is
// both a subcommand name and an existing file, so `murmur history` transcribes
// ./history instead of listing history. Other argument lists pass unchanged.
func routeFileArgs(root *cobra.Command, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(arg) < 2 || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		if flagTakesValue(root, arg) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}

	if len(positional) == 0 || !isSubcommand(root, positional[0]) {
		return args
	}
	info, err := os.Stat(positional[0])
	if err != nil || info.IsDir() {
		return args
	}
	routed := slices.Clone(flags)
	routed = append(routed, "--")
	return append(routed, positional...)
}

// flagTakesValue reports whether arg is a non-boolean flag whose value is the
// next token.
func flagTakesValue(root *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	var flag *pflag.Flag
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		flag = lookupFlag(root, name, "")
	} else {
		shorthands := strings.TrimPrefix(arg, "-")
		flag = lookupFlag(root, "", shorthands[len(shorthands)-1:])
	}
	return flag != nil && flag.Value.Type() != "bool"
}

func lookupFlag(root *cobra.Command, name, shorthand string) *pflag.Flag {
	for _, set := range []*pflag.FlagSet{root.Flags(), root.PersistentFlags()} {
		if name != "" {
			if f := set.Lookup(name); f != nil {
				return f
			}
			continue
		}
		if f := set.ShorthandLookup(shorthand); f != nil {
			return f
		}
	}
	return nil
}

func isSubcommand(root *cobra.Command, name string) bool {
	for _, sub := range root.Commands() {
		if sub.Name() == name || sub.HasAlias(name) {
			return true
		}
	}
	return false
}
