package orders

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TransitionOption pairs a target status with its display label for the
// presentation layer.
type TransitionOption struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
}

// Label renders the human-facing form of a status.
func Label(s Status) string {
	return titleCaser.String(string(s))
}

// TransitionOptions decorates an allowed-transition set with display labels.
func TransitionOptions(statuses []Status) []TransitionOption {
	if len(statuses) == 0 {
		return nil
	}
	options := make([]TransitionOption, 0, len(statuses))
	for _, s := range statuses {
		options = append(options, TransitionOption{Status: s, Label: Label(s)})
	}
	return options
}
