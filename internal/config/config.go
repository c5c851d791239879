package config

import (
	"fmt"
	"os"

	"github.com/kolah/canon/internal/naming"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultFile is read from the working directory when --config is not set.
const DefaultFile = "canon.yaml"

type Config struct {
	Spec                  string          `koanf:"spec"`
	Extension             string          `koanf:"extension"`
	ValidateSpec          bool            `koanf:"validate"`
	Format                string          `koanf:"format"`
	Output                string          `koanf:"output"`
	Templates             TemplateConfig  `koanf:"templates"`
	Naming                NamingConfig    `koanf:"naming"`
	ExtensionNaming       NamingConfig    `koanf:"extension-naming"`
	Features              map[string]bool `koanf:"features"`
	AdditionalInitialisms []string        `koanf:"additional-initialisms"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

type NamingConfig struct {
	ModelSuffix     string `koanf:"model-suffix"`
	TagSuffix       string `koanf:"tag-suffix"`
	ResponseSuffix  string `koanf:"response-suffix"`
	RequestSuffix   string `koanf:"request-suffix"`
	InterfaceSuffix string `koanf:"interface-suffix"`
	OperationSuffix string `koanf:"operation-suffix"`
}

func (n NamingConfig) Scheme() naming.Scheme {
	return naming.Scheme{
		ModelSuffix:     n.ModelSuffix,
		TagSuffix:       n.TagSuffix,
		ResponseSuffix:  n.ResponseSuffix,
		RequestSuffix:   n.RequestSuffix,
		InterfaceSuffix: n.InterfaceSuffix,
		OperationSuffix: n.OperationSuffix,
	}
}

var defaults = map[string]any{
	"format":                            "text",
	"naming.tag-suffix":                 "Api",
	"naming.response-suffix":            "Response",
	"naming.request-suffix":             "Request",
	"extension-naming.tag-suffix":       "Api",
	"extension-naming.response-suffix":  "Response",
	"extension-naming.request-suffix":   "Request",
	"extension-naming.operation-suffix": "Ext",
}

// BindCommonFlags binds the flags shared by every command
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: canon.yaml)")
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.String("templates", "", "Custom templates directory")
	flags.StringP("format", "f", "", "Report format: text, yaml, json")
	flags.StringP("output", "o", "", "Report file path")
	flags.Bool("validate", false, "Validate documents against the OpenAPI schema")
	flags.StringSlice("additional-initialisms", nil, "Additional initialisms")
	flags.Bool("dry-run", false, "Print the report to stdout without writing files")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("extension"); v != "" {
		m["extension"] = v
	}
	if v := getString("templates"); v != "" {
		m["templates.dir"] = v
	}
	if v := getString("format"); v != "" {
		m["format"] = v
	}
	if v := getString("output"); v != "" {
		m["output"] = v
	}
	if flagChanged("validate") {
		m["validate"] = getBool("validate")
	}
	if v := getStringSlice("additional-initialisms"); len(v) > 0 {
		m["additional-initialisms"] = v
	}

	// Naming flags of the compat command
	if v := getString("model-suffix"); v != "" {
		m["naming.model-suffix"] = v
	}
	if v := getString("extension-model-suffix"); v != "" {
		m["extension-naming.model-suffix"] = v
	}
	if v := getString("operation-suffix"); v != "" {
		m["extension-naming.operation-suffix"] = v
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}

	validFormats := map[string]bool{"": true, "text": true, "yaml": true, "json": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (valid: text, yaml, json)", c.Format)
	}

	if c.Extension != "" && c.Extension == c.Spec {
		return fmt.Errorf("extension must differ from spec: %s", c.Extension)
	}
	if c.Extension != "" && c.ExtensionNaming.OperationSuffix == "" {
		return fmt.Errorf("extension operation suffix is required")
	}

	return nil
}

// Feature reports whether the named feature toggle is on.
func (c *Config) Feature(name string) bool {
	return c.Features[name]
}
