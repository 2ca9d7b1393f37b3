package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/respond"
)

type renderFlags struct {
	adapter string
	sets    []string
	asError bool
	view    string
	dirs    []string
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render JSON data through an adapter",
		Long: `Reads JSON data from file, or stdin when no file is given, and prints
the adapter's success response. With --error the data is treated as an
error payload; a JSON string becomes the error message.

Adapter settings come from the config file route of the same name and
can be overridden with --set. Dotted keys address nested settings:

  respond render --adapter xml --set xml_root=person \
    --set xml_configuration.declaration.encoding=UTF-8 data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.adapter, "adapter", "a", string(respond.JSON), "Adapter or config route name")
	cmd.Flags().StringArrayVarP(&f.sets, "set", "s", nil, "Adapter setting as key=value (repeatable)")
	cmd.Flags().BoolVarP(&f.asError, "error", "e", false, "Render an error response")
	cmd.Flags().StringVar(&f.view, "view", "", "View name for the html adapter")
	cmd.Flags().StringSliceVar(&f.dirs, "dir", nil, "Directory searched first for views (repeatable)")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, f *renderFlags, args []string) error {
	overrides, err := parseSets(f.sets)
	if err != nil {
		return err
	}
	ad, err := a.adapter(f.adapter, overrides)
	if err != nil {
		return err
	}
	data, err := readData(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var opts []respond.Option
	if f.view != "" {
		opts = append(opts, respond.WithViewName(f.view))
	}
	if len(f.dirs) > 0 {
		opts = append(opts, respond.WithDirs(f.dirs...))
	}

	var out any
	if f.asError {
		if msg, ok := data.(string); ok {
			data = errors.New(msg)
		}
		out, err = ad.Error(cmd.Context(), data, opts...)
	} else {
		out, err = ad.Render(cmd.Context(), data, opts...)
	}
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), out)
}

// readData decodes JSON from the file named by args, or from stdin.
// Empty input decodes to nil.
func readData(stdin io.Reader, args []string) (any, error) {
	r := stdin
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return data, nil
}

// printResult writes text results as they are and anything else as
// indented JSON.
func printResult(w io.Writer, out any) error {
	switch v := out.(type) {
	case string:
		_, err := io.WriteString(w, ensureNewline(v))
		return err
	case []byte:
		_, err := io.WriteString(w, ensureNewline(string(v)))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// parseSets turns key=value pairs into a settings map. Values are parsed
// as YAML scalars so numbers and booleans keep their type. Dotted keys
// build nested maps.
func parseSets(sets []string) (map[string]any, error) {
	out := map[string]any{}
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q: want key=value", s)
		}
		var value any = raw
		if strings.TrimSpace(raw) != "" {
			if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
				value = raw
			}
		}

		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = value
	}
	return out, nil
}
