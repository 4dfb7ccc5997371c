package main

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/mapper"
)

// asker has the signature of survey.AskOne; tests replace it.
type asker func(p survey.Prompt, response any, opts ...survey.AskOpt) error

func registerPromptCmd(parent *cobra.Command, g *globals, ask asker) {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Ask for every field interactively, then validate the answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, obj, err := g.compile(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			answers, err := fill(t, ask)
			if err != nil {
				return err
			}
			rec, err := obj.Validate(t.FromUntrusted(answers))
			return report(cmd, rec, err)
		},
	}
	parent.AddCommand(cmd)
}

// fill asks one question per atom field of t, in declaration order. Empty
// answers are left out so required and default handling applies.
func fill(t *tinyskema.Type, ask asker) (map[string]any, error) {
	out := map[string]any{}
	for m := range t.FromUntrusted(nil).All() {
		if m.Kind() != tinyskema.KindAtom {
			continue
		}
		switch p := promptFor(m).(type) {
		case *survey.MultiSelect:
			var picked []string
			if err := ask(p, &picked); err != nil {
				return nil, err
			}
			if len(picked) == 0 {
				continue
			}
			vals := make([]any, len(picked))
			for i, s := range picked {
				vals[i] = s
			}
			out[m.Name()] = vals
		case *survey.Input:
			var ans string
			if err := ask(p, &ans, survey.WithValidator(fieldValidator(m))); err != nil {
				return nil, err
			}
			if ans != "" {
				out[m.Name()] = ans
			}
		default:
			var ans string
			if err := ask(p, &ans); err != nil {
				return nil, err
			}
			if ans != "" {
				out[m.Name()] = ans
			}
		}
	}
	return out, nil
}

// promptFor picks the prompt from the widget option: choice lists for the
// choice kinds, a free text input otherwise.
func promptFor(m tinyskema.Member) survey.Prompt {
	opts := m.Options()
	msg := opts.Label()
	if msg == "" {
		msg = m.Name()
	}
	choices, _ := opts[tinyskema.OptChoices].([]tinyskema.Choice)
	values := tinyskema.ChoiceValues(choices)
	describe := func(_ string, i int) string { return choices[i].Label }
	switch opts.Widget() {
	case mapper.KindSelect, mapper.KindRadio:
		if !opts.Required() {
			// an empty first entry lets optional selects stay unanswered
			values = append([]string{""}, values...)
			choices = append([]tinyskema.Choice{{}}, choices...)
		}
		return &survey.Select{Message: msg, Options: values, Description: describe}
	case mapper.KindMultiSelect, mapper.KindCheckbox:
		return &survey.MultiSelect{Message: msg, Options: values, Description: describe}
	}
	return &survey.Input{Message: msg}
}

// fieldValidator re-runs the field pipeline on each typed answer so the
// prompt repeats until the value converts.
func fieldValidator(m tinyskema.Member) survey.Validator {
	return func(ans any) error {
		_, err := tinyskema.Run(ans, m.Options(), m.Convertors())
		return err
	}
}
