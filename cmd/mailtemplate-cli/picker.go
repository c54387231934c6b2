package main

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-mailtemplate/pkg/spec"
)

var errAborted = errors.New("mailtemplate-cli: aborted")

func pickSubTemplate(tpl *spec.TemplateSpec) (string, error) {
	options := subTemplateIDs(tpl)
	if len(options) == 1 {
		return options[0], nil
	}

	var out string
	prompt := &survey.Select{
		Message: "Sub-template to render:",
		Options: options,
		Help:    "Ids come from the template spec, in spec order.",
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errAborted
		}
		return "", fmt.Errorf("prompt: %w", err)
	}
	return out, nil
}

func subTemplateIDs(tpl *spec.TemplateSpec) []string {
	subs := tpl.SubSpecs()
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.Source().ID())
	}
	return ids
}
