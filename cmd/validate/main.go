// Command validate checks the game configuration files in a directory. For
// each JSON or YAML file it reports decode and validation errors, or a short
// summary of the reserves each color starts with.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gobblet/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors is empty when Valid is true; Info then describes the config.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// validateConfig loads and validates a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{File: filepath.Base(filePath)}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	config, err := engine.DecodeGameConfig(filepath.Ext(filePath), data)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Valid = true
	result.Info = describeConfig(config)
	return result
}

// describeConfig summarizes name, first turn and the reserves of each color
func describeConfig(config *engine.GameConfig) []string {
	info := []string{
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ First turn: %s", config.FirstTurn),
	}

	for _, group := range []struct {
		color engine.Color
		sizes [][]int
	}{{engine.Black, config.Reserves.Black}, {engine.White, config.Reserves.White}} {
		var stacks, tops []string
		for _, sizes := range group.sizes {
			s, err := engine.NewExternalStack(sizes, group.color)
			if err != nil {
				continue
			}
			stacks = append(stacks, engine.DescribeStack(s.All()))
			if top, ok := s.Current(); ok {
				tops = append(tops, fmt.Sprint(top.Size))
			}
		}
		info = append(info,
			fmt.Sprintf("✓ %s reserves: %s", group.color, strings.Join(stacks, " | ")),
			fmt.Sprintf("✓ %s opening sizes: %s", group.color, strings.Join(tops, ", ")),
		)
	}
	return info
}

// report validates every file and writes the results to w. It returns
// whether all files were valid.
func report(w io.Writer, files []string) bool {
	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate game configuration files",
		ArgsUsage: "[file ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory scanned when no files are given",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				files, err = engine.ListConfigFiles(cmd.String("config-dir"))
				if err != nil {
					return cli.Exit(fmt.Sprintf("Error finding config files: %v", err), 1)
				}
			}
			if len(files) == 0 {
				return cli.Exit("No configuration files found", 1)
			}

			if !report(out, files) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
