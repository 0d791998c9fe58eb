package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hoppxi/monitor-brightness/config"
	"github.com/hoppxi/monitor-brightness/internal/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configPrompts are asked in order by generate-config.
var configPrompts = []struct {
	key, label, def string
}{
	{settings.KeyCompositor, "Compositor (auto, hyprland, sway)", "auto"},
	{settings.KeyOutput, "Fixed output name (empty = focused output)", ""},
	{settings.KeyBacklightDevice, "Backlight device for embedded panels (empty = auto)", ""},
	{settings.KeyLogLevel, "Log level", "info"},
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Generate the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		path := cfgFile
		if path == "" {
			p, err := settings.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			if !confirm(reader, out, fmt.Sprintf("%s already exists. Overwrite?", path)) {
				return nil
			}
		}

		values := map[string]string{}
		if useDefaults, _ := cmd.Flags().GetBool("defaults"); !useDefaults {
			for _, p := range configPrompts {
				values[p.key] = prompt(reader, out, p.label, p.def)
			}
		}

		data, err := renderConfig(config.Default(), values)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(out, "Config written to", path)
		return nil
	},
}

func init() {
	generateConfigCmd.Flags().Bool("force", false, "Overwrite an existing config without asking")
	generateConfigCmd.Flags().Bool("defaults", false, "Write the defaults without prompting")
}

// renderConfig sets dotted keys in the YAML template, keeping its comments.
func renderConfig(template []byte, values map[string]string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(template, &doc); err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("config template is empty")
	}

	for key, value := range values {
		node := lookup(doc.Content[0], strings.Split(key, "."))
		if node == nil {
			return nil, fmt.Errorf("config template has no key %q", key)
		}
		node.Value = value
		node.Tag = "!!str"
		node.Style = 0
		if value == "" {
			node.Style = yaml.DoubleQuotedStyle
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lookup(node *yaml.Node, path []string) *yaml.Node {
	if len(path) == 0 {
		return node
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == path[0] {
			return lookup(node.Content[i+1], path[1:])
		}
	}
	return nil
}

func prompt(r *bufio.Reader, w io.Writer, label, defaultValue string) string {
	fmt.Fprintf(w, "%s [%s]: ", label, defaultValue)
	input, _ := r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

func confirm(r *bufio.Reader, w io.Writer, message string) bool {
	fmt.Fprintf(w, "%s (y/N): ", message)
	input, _ := r.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
