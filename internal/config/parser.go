package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/DustyPolk/dev-setup/internal/platform"
)

// Parser parses setup.lua manifests with platform detection injected
// into the Lua environment.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new manifest parser with the given platform detector.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a manifest parsing error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// ParseFile parses a setup.lua manifest from disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}
	if info.Size() > MaxManifestSize {
		return nil, fmt.Errorf("manifest too large (%d bytes, max %d)", info.Size(), MaxManifestSize)
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return p.ParseString(ctx, string(code))
}

// ParseString parses a manifest from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// extractConfig extracts the manifest from a Lua state. It expects a
// global "setup" table.
func extractConfig(L *lua.LState) (*Config, error) {
	setupTable := L.GetGlobal("setup")
	if setupTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'setup' table",
			Detail:  fmt.Sprintf("expected table, got %s", setupTable.Type()),
		}
	}

	config := &Config{}
	table := setupTable.(*lua.LTable)

	if metaVal := table.RawGetString("meta"); metaVal.Type() == lua.LTTable {
		config.Meta = extractMeta(metaVal.(*lua.LTable))
	}

	if toolsVal := table.RawGetString("tools"); toolsVal.Type() == lua.LTTable {
		config.Tools = extractTools(toolsVal.(*lua.LTable))
	}

	if dotfilesVal := table.RawGetString("dotfiles"); dotfilesVal.Type() == lua.LTTable {
		config.Dotfiles = extractDotfiles(dotfilesVal.(*lua.LTable))
	}

	if envVal := table.RawGetString("env"); envVal.Type() == lua.LTTable {
		config.Env = extractEnv(envVal.(*lua.LTable))
	}

	if optionsVal := table.RawGetString("options"); optionsVal.Type() == lua.LTTable {
		config.Options = extractOptions(optionsVal.(*lua.LTable))
	}

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "manifest validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// extractMeta extracts metadata from a Lua table.
func extractMeta(table *lua.LTable) Meta {
	meta := Meta{}
	if nameVal := table.RawGetString("name"); nameVal.Type() == lua.LTString {
		meta.Name = nameVal.String()
	}
	if descVal := table.RawGetString("description"); descVal.Type() == lua.LTString {
		meta.Description = descVal.String()
	}
	return meta
}

// extractTools extracts the tools array. Nil entries from platform
// conditionals (platform.is_linux and "docker" or nil) are dropped.
func extractTools(table *lua.LTable) []string {
	var tools []string
	table.ForEach(func(key, value lua.LValue) {
		if value.Type() != lua.LTString {
			return
		}
		tools = append(tools, value.String())
	})
	return tools
}

// extractDotfiles extracts the dotfiles section.
func extractDotfiles(table *lua.LTable) DotfilesConfig {
	df := DotfilesConfig{}

	if remoteVal := table.RawGetString("remote"); remoteVal.Type() == lua.LTString {
		df.Remote = remoteVal.String()
	}
	if branchVal := table.RawGetString("branch"); branchVal.Type() == lua.LTString {
		df.Branch = branchVal.String()
	}

	if linksVal := table.RawGetString("links"); linksVal.Type() == lua.LTTable {
		linksVal.(*lua.LTable).ForEach(func(key, value lua.LValue) {
			switch value.Type() {
			case lua.LTString:
				df.Links = append(df.Links, LinkEntry{Source: value.String()})
			case lua.LTTable:
				linkTable := value.(*lua.LTable)
				entry := LinkEntry{}
				if src := linkTable.RawGetString("source"); src.Type() == lua.LTString {
					entry.Source = src.String()
				}
				if tgt := linkTable.RawGetString("target"); tgt.Type() == lua.LTString {
					entry.Target = tgt.String()
				}
				df.Links = append(df.Links, entry)
			}
		})
	}

	return df
}

// extractEnv extracts the env lines array. A bare string becomes an
// entry with no comment; a table carries line, comment, and fish.
func extractEnv(table *lua.LTable) []EnvEntry {
	var env []EnvEntry
	table.ForEach(func(key, value lua.LValue) {
		switch value.Type() {
		case lua.LTString:
			env = append(env, EnvEntry{Line: value.String()})
		case lua.LTTable:
			envTable := value.(*lua.LTable)
			entry := EnvEntry{}
			if line := envTable.RawGetString("line"); line.Type() == lua.LTString {
				entry.Line = line.String()
			}
			if comment := envTable.RawGetString("comment"); comment.Type() == lua.LTString {
				entry.Comment = comment.String()
			}
			if fish := envTable.RawGetString("fish"); fish.Type() == lua.LTString {
				entry.Fish = fish.String()
			}
			env = append(env, entry)
		}
	})
	return env
}

// extractOptions extracts the options section.
func extractOptions(table *lua.LTable) Options {
	options := Options{}
	if v := table.RawGetString("skip_packages"); v.Type() == lua.LTBool {
		options.SkipPackages = bool(v.(lua.LBool))
	}
	if v := table.RawGetString("skip_dotfiles"); v.Type() == lua.LTBool {
		options.SkipDotfiles = bool(v.(lua.LBool))
	}
	return options
}

// FormatError formats a ParseError for user display. Verbose mode shows
// the raw Lua error including the stack traceback.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
