package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Generator produces Lua manifest code from Go structs. The `init`
// command uses it to write a starter setup.lua.
type Generator struct {
	indent string
}

// NewGenerator creates a new manifest generator.
func NewGenerator() *Generator {
	return &Generator{indent: "  "}
}

// DefaultConfig returns the manifest written by `devsetup init`.
func DefaultConfig() *Config {
	return &Config{
		Meta: Meta{
			Name:        "workstation",
			Description: "Development workstation setup",
		},
		Tools: []string{
			"git", "curl", "unzip", "tmux", "neovim",
			"ripgrep", "fd", "fzf", "jq", "htop",
			"docker", "node", "bun", "claude-code",
		},
		Env: []EnvEntry{
			{Line: `export EDITOR=nvim`, Comment: "Default editor"},
		},
	}
}

// Generate generates Lua code from a Config. The output is formatted
// and human-readable.
func (g *Generator) Generate(config *Config) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer

	buf.WriteString("-- dev-setup manifest\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(time.Now().Format(time.RFC3339))
	buf.WriteString("\n--\n")
	buf.WriteString("-- A read-only 'platform' table is available for conditionals, e.g.\n")
	buf.WriteString("--   platform.is_linux and \"docker\" or nil\n\n")

	buf.WriteString("setup = {\n")

	if config.Meta.Name != "" || config.Meta.Description != "" {
		g.writeMeta(&buf, config.Meta)
	}
	if len(config.Tools) > 0 {
		g.writeTools(&buf, config.Tools)
	}
	if config.Dotfiles.Remote != "" {
		g.writeDotfiles(&buf, config.Dotfiles)
	}
	if len(config.Env) > 0 {
		g.writeEnv(&buf, config.Env)
	}

	buf.WriteString("}\n")

	return buf.String(), nil
}

func (g *Generator) writeMeta(buf *bytes.Buffer, meta Meta) {
	buf.WriteString(g.indent)
	buf.WriteString("meta = {\n")
	if meta.Name != "" {
		fmt.Fprintf(buf, "%s%sname = %s,\n", g.indent, g.indent, quoteLuaString(meta.Name))
	}
	if meta.Description != "" {
		fmt.Fprintf(buf, "%s%sdescription = %s,\n", g.indent, g.indent, quoteLuaString(meta.Description))
	}
	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

func (g *Generator) writeTools(buf *bytes.Buffer, tools []string) {
	buf.WriteString(g.indent)
	buf.WriteString("tools = {\n")
	for _, tool := range tools {
		fmt.Fprintf(buf, "%s%s%s,\n", g.indent, g.indent, quoteLuaString(tool))
	}
	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

func (g *Generator) writeDotfiles(buf *bytes.Buffer, df DotfilesConfig) {
	buf.WriteString(g.indent)
	buf.WriteString("dotfiles = {\n")
	fmt.Fprintf(buf, "%s%sremote = %s,\n", g.indent, g.indent, quoteLuaString(df.Remote))
	if df.Branch != "" {
		fmt.Fprintf(buf, "%s%sbranch = %s,\n", g.indent, g.indent, quoteLuaString(df.Branch))
	}
	if len(df.Links) > 0 {
		fmt.Fprintf(buf, "%s%slinks = {\n", g.indent, g.indent)
		for _, link := range df.Links {
			if link.Target == "" {
				fmt.Fprintf(buf, "%s%s%s%s,\n", g.indent, g.indent, g.indent, quoteLuaString(link.Source))
				continue
			}
			fmt.Fprintf(buf, "%s%s%s{ source = %s, target = %s },\n",
				g.indent, g.indent, g.indent,
				quoteLuaString(link.Source), quoteLuaString(link.Target))
		}
		fmt.Fprintf(buf, "%s%s},\n", g.indent, g.indent)
	}
	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

func (g *Generator) writeEnv(buf *bytes.Buffer, env []EnvEntry) {
	buf.WriteString(g.indent)
	buf.WriteString("env = {\n")
	for _, entry := range env {
		if entry.Comment == "" && entry.Fish == "" {
			fmt.Fprintf(buf, "%s%s%s,\n", g.indent, g.indent, quoteLuaString(entry.Line))
			continue
		}
		fmt.Fprintf(buf, "%s%s{\n", g.indent, g.indent)
		fmt.Fprintf(buf, "%s%s%sline = %s,\n", g.indent, g.indent, g.indent, quoteLuaString(entry.Line))
		if entry.Comment != "" {
			fmt.Fprintf(buf, "%s%s%scomment = %s,\n", g.indent, g.indent, g.indent, quoteLuaString(entry.Comment))
		}
		if entry.Fish != "" {
			fmt.Fprintf(buf, "%s%s%sfish = %s,\n", g.indent, g.indent, g.indent, quoteLuaString(entry.Fish))
		}
		fmt.Fprintf(buf, "%s%s},\n", g.indent, g.indent)
	}
	buf.WriteString(g.indent)
	buf.WriteString("},\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
