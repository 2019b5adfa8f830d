package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConvertConfig holds the TOML-driven conversion configuration. Every field
// has a default, so the config file is optional.
type ConvertConfig struct {
	Output        string            `toml:"output"`
	Normalize     bool              `toml:"normalize"`
	MappingTable  string            `toml:"mapping_table"`
	MappingSchema string            `toml:"mapping_schema"`
	UUIDExtension string            `toml:"uuid_extension"` // uuid-ossp|pgcrypto
	PopulateIDMap bool              `toml:"populate_id_map"`
	Hooks         HooksConfig       `toml:"hooks"`
	TypeMapping   TypeMappingConfig `toml:"type_mapping"`

	// configDir is the directory containing the TOML file, used to resolve relative paths.
	configDir string
}

// HooksConfig lists SQL files inlined into the migration script around the
// converted body. {{mapping_table}} in a hook expands to the mapping table.
type HooksConfig struct {
	BeforeBody []string `toml:"before_body"`
	AfterBody  []string `toml:"after_body"`
}

// TypeMappingConfig controls non-lossless type coercions.
type TypeMappingConfig struct {
	TinyInt1AsBoolean     bool   `toml:"tinyint1_as_boolean"`
	DatetimeAsTimestamptz bool   `toml:"datetime_as_timestamptz"`
	JSONAsJSONB           bool   `toml:"json_as_jsonb"`
	WidenUnsignedIntegers bool   `toml:"widen_unsigned_integers"`
	EnumMode              string `toml:"enum_mode"` // text|check
}

func defaultConfig() ConvertConfig {
	return ConvertConfig{
		Normalize:     true,
		MappingTable:  "legacy_id_map",
		UUIDExtension: "uuid-ossp",
		PopulateIDMap: true,
		TypeMapping:   defaultTypeMappingConfig(),
	}
}

func defaultTypeMappingConfig() TypeMappingConfig {
	return TypeMappingConfig{
		TinyInt1AsBoolean:     true,
		DatetimeAsTimestamptz: false,
		JSONAsJSONB:           false,
		WidenUnsignedIntegers: true,
		EnumMode:              "text",
	}
}

// loadConfig reads a TOML config file and returns a ConvertConfig with
// defaults applied. An empty path yields the defaults.
func loadConfig(path string) (*ConvertConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.configDir = wd
		return &cfg, cfg.validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ConvertConfig) validate() error {
	c.MappingTable = strings.TrimSpace(c.MappingTable)
	if c.MappingTable == "" {
		return fmt.Errorf("mapping_table must not be empty")
	}
	c.MappingSchema = strings.TrimSpace(c.MappingSchema)

	switch c.UUIDExtension {
	case "uuid-ossp", "pgcrypto":
	default:
		return fmt.Errorf("uuid_extension must be one of: uuid-ossp, pgcrypto")
	}
	switch c.TypeMapping.EnumMode {
	case "text", "check":
	default:
		return fmt.Errorf("type_mapping.enum_mode must be one of: text, check")
	}
	return nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *ConvertConfig) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}

// uuidFunction returns the UUID generator provided by the configured extension.
func (c *ConvertConfig) uuidFunction() string {
	if c.UUIDExtension == "pgcrypto" {
		return "gen_random_uuid()"
	}
	return "uuid_generate_v4()"
}
