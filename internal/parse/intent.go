package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback payload verbs carried by inline buttons, in the form
// "<verb>" or "<verb>_<argument>".
const (
	VerbCleaned     = "cleaned"
	VerbLinenReport = "linen_report"
	VerbCheckRooms  = "check_rooms"
	VerbApprove     = "approve"
)

// verbs with underscores must come before their prefixes when matching.
var knownVerbs = []string{VerbLinenReport, VerbCheckRooms, VerbCleaned, VerbApprove}

// Callback holds the decoded payload of an inline button press.
type Callback struct {
	Verb string
	Arg  string
}

// ParseCallback decodes a "<verb>_<argument>" button payload.
func ParseCallback(data string) (Callback, error) {
	for _, verb := range knownVerbs {
		if data == verb {
			return Callback{Verb: verb}, nil
		}
		if strings.HasPrefix(data, verb+"_") {
			return Callback{Verb: verb, Arg: data[len(verb)+1:]}, nil
		}
	}
	return Callback{}, fmt.Errorf("unrecognized callback payload: %q", data)
}

// CallbackData encodes a button payload.
func CallbackData(verb, arg string) string {
	if arg == "" {
		return verb
	}
	return verb + "_" + arg
}

// LinenCounts matches a linen submission: exactly four non-negative
// integers separated by whitespace (sheets, duvet covers, pillowcases,
// towels). Anything else is not a linen submission.
func LinenCounts(raw string) ([4]int, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 4 {
		return [4]int{}, false
	}

	var counts [4]int
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return [4]int{}, false
		}
		counts[i] = n
	}
	return counts, true
}
