package tracker

import "time"

// DateLayouts are the accepted due-date input layouts, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
}

// ParseDate parses a due date using the given layouts, falling back to
// DateLayouts when none are given. Dates are naive local time.
func ParseDate(s string, layouts []string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = DateLayouts
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &ValidationError{Field: "due_date", Msg: "unrecognized date " + s + ": " + lastErr.Error()}
}
