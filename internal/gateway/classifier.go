package gateway

import "strings"

// Gateway message codes with special classification semantics.
const (
	// CodeDuplicateRecord: a matching customer or payment profile already
	// exists remotely. Not a failure; the existing id is recoverable.
	CodeDuplicateRecord = "E00039"

	// CodeRecordNotFound: the referenced customer or payment profile no
	// longer exists on the gateway.
	CodeRecordNotFound = "E00040"
)

// Message codes indicating a permanent negative outcome. Anything else that
// is neither duplicate nor not-found is a user-recoverable validation failure.
var hardDeclineCodes = map[string]struct{}{
	"E00027": {}, // the transaction was unsuccessful
	"E00042": {}, // payment profile limit reached for this customer
	"E00045": {}, // the root node does not reference a valid XML namespace (unsupported request)
}

// Outcome is the classification of a gateway response.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeSoftValidation    Outcome = "soft_validation"
	OutcomeHardDecline       Outcome = "hard_decline"
	OutcomeStaleReference    Outcome = "stale_reference"
	OutcomeDuplicateResource Outcome = "duplicate_resource"
)

// Classification is the result of classifying a Response, carrying the
// gateway's original code and text for diagnostics.
type Classification struct {
	Outcome Outcome
	Code    string
	Text    string
}

// Classify maps a gateway response to an outcome. This is the only place
// response codes are interpreted; callers branch on the outcome and must not
// inspect message codes themselves.
//
// Precedence: Ok with an empty error list is success; a non-empty error list
// is a hard decline regardless of result code; otherwise the leading message
// code decides.
func Classify(resp *Response) Classification {
	if resp.ResultCode == ResultCodeOk && len(resp.Errors) == 0 {
		msg := resp.LeadingMessage()
		return Classification{Outcome: OutcomeSuccess, Code: msg.Code, Text: msg.Text}
	}

	if len(resp.Errors) > 0 {
		e := resp.Errors[0]
		return Classification{Outcome: OutcomeHardDecline, Code: e.Code, Text: e.Text}
	}

	msg := resp.LeadingMessage()
	switch {
	case msg.Code == CodeRecordNotFound:
		return Classification{Outcome: OutcomeStaleReference, Code: msg.Code, Text: msg.Text}
	case msg.Code == CodeDuplicateRecord:
		return Classification{Outcome: OutcomeDuplicateResource, Code: msg.Code, Text: msg.Text}
	default:
		if _, hard := hardDeclineCodes[msg.Code]; hard {
			return Classification{Outcome: OutcomeHardDecline, Code: msg.Code, Text: msg.Text}
		}
		return Classification{Outcome: OutcomeSoftValidation, Code: msg.Code, Text: msg.Text}
	}
}

// ExtractNumericID returns the first whitespace-delimited token of text that
// consists solely of ASCII digits. Duplicate-profile responses embed the
// existing remote id in free text ("A duplicate record with ID 554433 already
// exists."); this is the documented, fragile extraction contract for it.
func ExtractNumericID(text string) (string, bool) {
	for _, token := range strings.Fields(text) {
		if token == "" {
			continue
		}
		numeric := true
		for i := 0; i < len(token); i++ {
			if token[i] < '0' || token[i] > '9' {
				numeric = false
				break
			}
		}
		if numeric {
			return token, true
		}
	}
	return "", false
}
