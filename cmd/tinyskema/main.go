// Command tinyskema validates documents against form descriptions written
// for the mapper package.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/i18n"
	"github.com/reoring/tinyskema/jsonschema"
	"github.com/reoring/tinyskema/logging"
	"github.com/reoring/tinyskema/mapper"
	"github.com/reoring/tinyskema/source"
	"github.com/reoring/tinyskema/validation"
)

// errInvalid is returned after the error tree of a failed check is printed.
var errInvalid = errors.New("input does not validate")

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type globals struct {
	config    string
	lang      string
	logLevel  string
	logFormat string
}

// NewRootCmd creates the root command with its subcommands.
func NewRootCmd() *cobra.Command { return newRootCmd(survey.AskOne) }

func newRootCmd(ask asker) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "tinyskema",
		Short:         "Validate documents against tinyskema form descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.config, "config", "c", "", "form description (YAML or JSON)")
	pf.StringVar(&g.lang, "lang", "en", "message language (en, ja)")
	pf.StringVar(&g.logLevel, "log-level", "warn", "debug, info, warn or error")
	pf.StringVar(&g.logFormat, "log-format", "text", "text or json")

	registerCheckCmd(root, g)
	registerSchemaCmd(root, g)
	registerRulesCmd(root)
	registerPromptCmd(root, g, ask)
	return root
}

func registerCheckCmd(parent *cobra.Command, g *globals) {
	var input string
	var failFast bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a JSON or YAML document and print the record or the error tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, obj, err := g.compile(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			doc, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			inst := t.FromUntrusted(doc)
			if u := inst.Unknown(); len(u) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "ignoring undeclared keys: %s\n", strings.Join(u, ", "))
			}
			var rec *tinyskema.Record
			if failFast {
				rec, err = inst.ValidateThen(tinyskema.ValidateOpt{Translator: i18n.New(g.lang), FailFast: true}, obj.Check)
			} else {
				rec, err = obj.Validate(inst)
			}
			return report(cmd, rec, err)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "input document, - for stdin (JSON)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing field")
	parent.AddCommand(cmd)
}

func registerSchemaCmd(parent *cobra.Command, g *globals) {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a form description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, _, err := g.compile(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), jsonschema.FromType(t))
		},
	}
	parent.AddCommand(cmd)
}

func registerRulesCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the cross-field rules a form description can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range validation.NewRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	parent.AddCommand(cmd)
}

// compile loads the form description and builds its schema and validators.
func (g *globals) compile(logOut io.Writer) (*tinyskema.Type, *validation.Object, error) {
	if g.config == "" {
		return nil, nil, errors.New("--config is required")
	}
	data, err := os.ReadFile(g.config)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := mapper.LoadConfig(data)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewSlogLogger(parseLevel(g.logLevel), g.logFormat, logOut)
	fam := mapper.ChoiceFamily(mapper.WithLogger(logger), mapper.WithTranslator(i18n.New(g.lang)))
	logger.Debug("compiling form", "config", g.config, "fields", len(cfg.Fields), "rules", len(cfg.Rules))
	return cfg.Compile(fam, validation.NewRegistry())
}

func readInput(name string, stdin io.Reader) (map[string]any, error) {
	if name == "-" {
		v, err := source.JSONReader(stdin)
		if err != nil {
			return nil, err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, source.ErrNotMapping
		}
		return m, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return source.YAML(data)
	default:
		return source.JSON(data)
	}
}

// report prints the record, or the error tree of a failed validation.
func report(cmd *cobra.Command, rec *tinyskema.Record, err error) error {
	if f, ok := tinyskema.AsFailure(err); ok {
		if werr := writeJSON(cmd.OutOrStdout(), map[string]any{"errors": f.Errors.Plain()}); werr != nil {
			return werr
		}
		return errInvalid
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), rec)
}

func writeJSON(w io.Writer, v any) error {
	data, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func parseLevel(s string) logging.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LogLevelDebug
	case "info":
		return logging.LogLevelInfo
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelWarn
	}
}
