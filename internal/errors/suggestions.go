package errors

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrInvalidDate:      "Dates use the YYYY-MM-DD format, e.g. 2024-01-05.",
	ErrEndBeforeStart:   "Swap the start and end dates.",
	ErrRangeTooLarge:    "Query a shorter range or group by month/year over several requests.",
	ErrInvalidFieldType: "Use one of: text, number, currency, date, time, datetime, boolean.",
	ErrInvalidFieldKey:  "Field keys are 1-64 characters and may not contain ':'.",
	ErrInvalidValue:     "Booleans are 'true'/'false', times are HH:MM, datetimes are YYYY-MM-DDTHH:MM.",
	ErrTaskDepth:        "Attach the sub-task to a top-level task instead.",
	ErrTrackerLocked:    "Unlock the tracker first.",
	ErrTemplateNotFound: "Use 'daymark field list' to see defined fields.",
	ErrSnapshotNotFound: "Use 'daymark snapshot list' to see captured dates.",
	ErrTrackerNotFound:  "Use 'daymark tracker list' to see trackers.",
	ErrDuplicateKey:     "Pick a different name or delete the existing one first.",
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}
	for knownErr, suggestion := range Suggestions {
		if Is(err, knownErr) {
			return suggestion
		}
	}
	return ""
}

// FormatWithSuggestion formats an error with its suggestion for terminal output.
func FormatWithSuggestion(err error) string {
	if err == nil {
		return ""
	}
	msg := PublicMessage(err)
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n\nTry: " + suggestion
	}
	return msg
}
