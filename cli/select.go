package cli

import (
	"errors"
	"strings"

	"facette.io/natsort"
	"github.com/manifoldco/promptui"
)

// ErrNoChoices is returned when there is nothing to select from.
var ErrNoChoices = errors.New("no choices available")

// Select asks the user to pick one of choices. Choices are shown in natural
// order and can be filtered by typing a prefix.
func Select(label string, choices ...string) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	names := append([]string(nil), choices...)
	natsort.Sort(names)

	sel := &promptui.Select{
		Label: label,
		Items: names,
		Searcher: func(input string, index int) bool {
			if len(input) == 0 {
				return true
			}

			return strings.HasPrefix(strings.ToLower(names[index]), strings.ToLower(input))
		},
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", err
	}

	return value, nil
}
