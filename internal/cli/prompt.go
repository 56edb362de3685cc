package cli

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// confirmAction interactively asks a yes/no question, defaulting to no.
// An interrupted prompt (ctrl-c) counts as a refusal.
func confirmAction(message string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}

	if err := survey.AskOne(prompt, &confirmed); err != nil {
		if err == terminal.InterruptErr {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}
