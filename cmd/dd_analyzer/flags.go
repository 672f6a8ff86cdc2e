package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DDA"

// MissingArgumentError reports a required flag that was not given.
type MissingArgumentError struct {
	Key   string
	Usage string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("no <%s> passed as argument", e.Key)
}

// config reads one command's flags through viper, so every flag can also
// come from a DDA_<KEY> environment variable.
type config struct {
	v     *viper.Viper
	usage string
}

func newConfig(cmd *cobra.Command, usage string) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return &config{v: v, usage: usage}, nil
}

func (c *config) String(key string) string {
	return strings.TrimSpace(c.v.GetString(key))
}

func (c *config) Required(key string) (string, error) {
	s := c.String(key)
	if s == "" {
		return "", &MissingArgumentError{Key: key, Usage: c.usage}
	}
	return s, nil
}

func (c *config) Bool(key string) (bool, error) {
	b, err := parseBoolish(c.String(key))
	if err != nil {
		return false, fmt.Errorf("invalid value for --%s: %w", key, err)
	}
	return b, nil
}

func (c *config) Int(key string) (int, error) {
	s := c.String(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value for --%s: %q is not an integer", key, s)
	}
	return n, nil
}

// parseBoolish accepts the spellings the dump tooling has always used for
// booleans ("True", "false", "1", "no", ...). Empty means false.
func parseBoolish(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "f", "0", "no", "n", "off":
		return false, nil
	case "true", "t", "1", "yes", "y", "on":
		return true, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

// Flags are declared as strings so that "--silent False" style values
// parse as key/value pairs instead of a bare switch plus a stray argument.
func addStringFlags(fs *pflag.FlagSet, defaults map[string]string, help map[string]string) {
	keys := make([]string, 0, len(help))
	for k := range help {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fs.String(key, defaults[key], help[key])
	}
}

const (
	bananaUsage = `Usage:
  dd_analyzer banana --file <path> --plot_type <attitude|translation> --metrics <unit> [--silent <bool>]
Example for translation plot:
  dd_analyzer banana --file example.dd --plot_type translation --metrics km --silent False
Example for attitude plot:
  dd_analyzer banana --file example.dd --plot_type attitude --metrics deg`

	taylorUsage = `Usage:
  dd_analyzer taylor --file <path> [--span <1|2|3>] [--centers <bool>] [--silent <bool>]
Example:
  dd_analyzer taylor --file sin.txt --span 2`

	sphereUsage = `Usage:
  dd_analyzer sphere --file <path> [--output_format <fmt>] [--silent <bool>]
Example:
  dd_analyzer sphere --file attitude.dd --output_format pdf`

	filmUsage = `Usage:
  dd_analyzer film --file <directory> [--walls <bool>] [--silent <bool>]
Example:
  dd_analyzer film --file out/film2 --axis_fixed True`

	extractUsage = `Usage:
  dd_analyzer extract --file <path> [--layout <avd|dd|dd-flat|dd-walled>] [--dimensionality <n>] [--term <index>]
Example:
  dd_analyzer extract --file example.dd --dimensionality 2 > samples.csv`
)
