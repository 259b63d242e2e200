package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	literalBooleanTypeName    = "bool"
	literalBooleanImplicit    = "true"
	literalBooleanAccepted    = "true, false, yes, no, on, off, 1, 0"
	invalidBooleanErrorFormat = "invalid boolean value %q for --%s; accepted values: %s"
	unboundBooleanErrorFormat = "boolean flag --%s has no destination"
	longFlagPrefix            = "--"
	shortFlagPrefix           = "-"
	flagValueSeparator        = "="
	argumentTerminator        = "--"
	normalizedLongFlagFormat  = "--%s=%s"
	normalizedShortFlagFormat = "-%s=%s"
)

var booleanLiterals = map[string]bool{
	"true": true, "t": true, "1": true, "yes": true, "y": true, "on": true,
	"false": false, "f": false, "0": false, "no": false, "n": false, "off": false,
}

// parseBooleanLiteral accepts yes/no style words. Blank input means true.
func parseBooleanLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = literalBooleanImplicit
	}
	parsed, known := booleanLiterals[normalized]
	return parsed, known
}

// literalBoolean is a pflag.Value for switches such as --yes or --dry-run that also take a literal.
type literalBoolean struct {
	destination *bool
	name        string
}

func (flagValue *literalBoolean) Set(input string) error {
	if flagValue.destination == nil {
		return fmt.Errorf(unboundBooleanErrorFormat, flagValue.name)
	}
	parsed, known := parseBooleanLiteral(input)
	if !known {
		return fmt.Errorf(invalidBooleanErrorFormat, input, flagValue.name, literalBooleanAccepted)
	}
	*flagValue.destination = parsed
	return nil
}

func (flagValue *literalBoolean) String() string {
	if flagValue == nil || flagValue.destination == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flagValue.destination)
}

func (flagValue *literalBoolean) Type() string {
	return literalBooleanTypeName
}

// registerBooleanFlag adds a flag accepting yes/no style literals. An empty shorthand registers the long form only.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.VarP(&literalBoolean{destination: target, name: name}, name, shorthand, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = literalBooleanImplicit
}

// normalizeBooleanFlagArguments joins "--dry-run no" or "-y no" into the "name=value" form pflag expects.
// A following argument that is not a boolean literal stays positional.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	longNames, shortNames := booleanFlagNames(command)
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		nextIsLiteral := false
		if index+1 < len(arguments) && !strings.HasPrefix(arguments[index+1], shortFlagPrefix) {
			_, nextIsLiteral = parseBooleanLiteral(arguments[index+1])
			nextIsLiteral = nextIsLiteral && strings.TrimSpace(arguments[index+1]) != ""
		}
		if !nextIsLiteral || strings.Contains(argument, flagValueSeparator) {
			normalized = append(normalized, argument)
			continue
		}
		switch {
		case strings.HasPrefix(argument, longFlagPrefix):
			name := strings.TrimPrefix(argument, longFlagPrefix)
			if _, boolean := longNames[name]; boolean {
				normalized = append(normalized, fmt.Sprintf(normalizedLongFlagFormat, name, arguments[index+1]))
				index++
				continue
			}
		case strings.HasPrefix(argument, shortFlagPrefix) && len(argument) == 2:
			shorthand := strings.TrimPrefix(argument, shortFlagPrefix)
			if _, boolean := shortNames[shorthand]; boolean {
				normalized = append(normalized, fmt.Sprintf(normalizedShortFlagFormat, shorthand, arguments[index+1]))
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

// booleanFlagNames collects long names and shorthands of literal boolean flags in the command tree.
func booleanFlagNames(root *cobra.Command) (map[string]struct{}, map[string]struct{}) {
	longNames := map[string]struct{}{}
	shortNames := map[string]struct{}{}
	record := func(flag *pflag.Flag) {
		if flag.Value.Type() != literalBooleanTypeName {
			return
		}
		longNames[flag.Name] = struct{}{}
		if flag.Shorthand != "" {
			shortNames[flag.Shorthand] = struct{}{}
		}
	}
	pending := []*cobra.Command{root}
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		current.PersistentFlags().VisitAll(record)
		current.Flags().VisitAll(record)
		pending = append(pending, current.Commands()...)
	}
	return longNames, shortNames
}
