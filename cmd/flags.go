package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// addFlagValidation makes the named flag reject values validator refuses
// at parse time.
func addFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: flag.Value.Set,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// validatePort accepts 0 (any free port) through 65535.
func validatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}
	return nil
}

// validatePositive accepts integers above zero.
func validatePositive(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number, got %s", s)
	}
	return nil
}

// oneOf accepts only the listed values, case-insensitively.
func oneOf(choices ...string) func(string) error {
	return func(s string) error {
		if slices.Contains(choices, strings.ToLower(s)) {
			return nil
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(choices, ", "), s)
	}
}
