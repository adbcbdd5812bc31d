package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nconklindev/canteiro/internal/converter"
	"github.com/nconklindev/canteiro/internal/payload"
	"github.com/nconklindev/canteiro/internal/schema"

	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv.
const (
	EnvInput     = "CANTEIRO_INPUT"
	EnvInputName = "CANTEIRO_INPUT_NAME"
	EnvOutput    = "CANTEIRO_OUTPUT"
	EnvRoot      = "CANTEIRO_ROOT"
	EnvTimezone  = "CANTEIRO_TZ"
	EnvSchema    = "CANTEIRO_SCHEMA"
	EnvWithDate  = "CANTEIRO_WITH_DATE"
)

// Config holds everything one run needs. Flags override the environment,
// which overrides Default.
type Config struct {
	// Input is an explicit spreadsheet path; when empty the candidates under
	// Root are searched for InputName.
	Input      string
	InputName  string
	Output     string
	Root       string
	Timezone   string
	SchemaFile string
	WithDate   bool

	Interactive bool
	Verbose     bool
}

// Default returns the settings used when neither the environment nor flags
// say otherwise.
func Default() Config {
	return Config{
		InputName: converter.DefaultInputName,
		Output:    filepath.Join("docs", "dados.json"),
		Root:      ".",
		Timezone:  payload.DefaultTimezone,
		WithDate:  true,
	}
}

// FromEnv loads an optional .env file from the working directory and
// overlays CANTEIRO_* variables onto Default.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	setString(&cfg.Input, EnvInput)
	setString(&cfg.InputName, EnvInputName)
	setString(&cfg.Output, EnvOutput)
	setString(&cfg.Root, EnvRoot)
	setString(&cfg.Timezone, EnvTimezone)
	setString(&cfg.SchemaFile, EnvSchema)

	if v, ok := os.LookupEnv(EnvWithDate); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvWithDate, v, err)
		}
		cfg.WithDate = b
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate reports the first setting that would stop a run.
func (c Config) Validate() error {
	if c.Output == "" {
		return errors.New("output path is required")
	}
	if c.Input == "" && c.InputName == "" {
		return errors.New("either an input path or an input file name is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the Timezone used for atualizado_em.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Schema returns the canonical schema, extended by SchemaFile when set.
func (c Config) Schema() (*schema.Schema, error) {
	if c.SchemaFile == "" {
		return schema.Default(c.WithDate), nil
	}
	return schema.Load(c.SchemaFile, c.WithDate)
}

// Candidates lists the paths searched for the spreadsheet.
func (c Config) Candidates() []string {
	if c.Input != "" {
		return []string{c.Input}
	}
	return converter.DefaultCandidates(c.Root, c.InputName)
}

// Options resolves the input path and builds the converter options.
func (c Config) Options() (converter.Options, error) {
	input, err := converter.LocateInput(c.Candidates()...)
	if err != nil {
		return converter.Options{}, err
	}
	s, err := c.Schema()
	if err != nil {
		return converter.Options{}, err
	}
	loc, err := c.Location()
	if err != nil {
		return converter.Options{}, err
	}

	output := c.Output
	if !filepath.IsAbs(output) {
		output = filepath.Join(c.Root, output)
	}
	return converter.Options{
		InputPath:  input,
		OutputPath: output,
		Schema:     s,
		Location:   loc,
	}, nil
}
