package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandrolain/bindexpr"
	"github.com/sandrolain/bindexpr/pkg/config"
	"github.com/sandrolain/bindexpr/pkg/types"
)

type globalFlags struct {
	config  string
	debug   bool
	noColor bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "bindexpr",
		Short:         "Parse data-binding expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "bindexpr.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newParseCmd(&flags),
		newBindingsCmd(&flags),
		newVersionCmd(),
	)
	return rootCmd
}

func newParseCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [expression|-]...",
		Short: "Parse expressions and print their AST",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd, flags)
			if err != nil {
				return err
			}
			sources, err := readSources(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failed int
			for _, source := range sources {
				expr, err := eng.Parse(source)
				if err != nil {
					failed++
					printError(cmd.ErrOrStderr(), source, err)
					continue
				}
				if err := printNode(out, format, expr.AST()); err != nil {
					return err
				}
				for _, diag := range expr.Errors() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", warnFmt("warning:"), diag)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d expressions failed to parse", failed, len(sources))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "tree", "Output format: tree, json or text")
	return cmd
}

func newBindingsCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "bindings <declarations>",
		Short: "Parse a legacy binding declaration list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd, flags)
			if err != nil {
				return err
			}
			decls, err := eng.ParseBindings(args[0])
			if err != nil {
				printError(cmd.ErrOrStderr(), args[0], err)
				return errors.New("binding declarations failed to parse")
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, decls)
			}
			for i, decl := range decls {
				fmt.Fprintf(out, "%s %d\n", headerFmt("binding"), i)
				writeField(out, format, "target", decl.Target)
				if decl.Source != nil {
					writeField(out, format, "source", decl.Source)
				}
				for j, p := range decl.Parameters {
					writeField(out, format, fmt.Sprintf("param %d", j), p)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "text", "Output format: tree, json or text")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), bindexpr.Version())
		},
	}
}

func newEngine(cmd *cobra.Command, flags *globalFlags) (*bindexpr.Engine, error) {
	if flags.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	if flags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return bindexpr.NewFromConfig(cfg, bindexpr.WithLogger(logger)), nil
}

// readSources returns the expressions named by args. "-" reads one
// expression per non-empty line of stdin.
func readSources(stdin io.Reader, args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		if arg != "-" {
			sources = append(sources, arg)
			continue
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		for line := range strings.Lines(string(data)) {
			if line = strings.TrimSpace(line); line != "" {
				sources = append(sources, line)
			}
		}
	}
	return sources, nil
}

func printNode(w io.Writer, format string, n types.Node) error {
	switch format {
	case "json":
		return writeJSON(w, n)
	case "text":
		fmt.Fprintln(w, n)
		return nil
	case "tree":
		writeTree(w, n, "")
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeField(w io.Writer, format, label string, n types.Node) {
	if format == "tree" {
		fmt.Fprintf(w, "  %s\n", labelFmt(label))
		writeTree(w, n, "    ")
		return
	}
	fmt.Fprintf(w, "  %s %s\n", labelFmt(label+":"), n)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(w io.Writer, source string, err error) {
	fmt.Fprintf(w, "%s %v\n", errorFmt("error:"), err)
	var perr *types.Error
	if !errors.As(err, &perr) || perr.Position < 0 || perr.Position > len(source) {
		return
	}
	fmt.Fprintf(w, "  %s\n", source)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", perr.Position), errorFmt("^"))
}
