package transcript

import "regexp"

// riskSignature pairs a human-readable label with the pattern that flags it.
type riskSignature struct {
	label string
	re    *regexp.Regexp
}

// riskSignatures is the fixed table of shell command patterns worth flagging
// in an audit. Matching is case-sensitive except the database drop check.
// A single command may match several signatures; every match is reported.
var riskSignatures = []riskSignature{
	{"Recursive delete (rm -rf)", regexp.MustCompile(`\brm\s+-rf\b`)},
	{"Force push", regexp.MustCompile(`\bgit\s+push\b.*\s(--force|-f)\b`)},
	{"Hard reset", regexp.MustCompile(`\bgit\s+reset\s+--hard\b`)},
	{"Forced clean", regexp.MustCompile(`\bgit\s+clean\s+-\w*f`)},
	{"HTTP POST (curl -X)", regexp.MustCompile(`\bcurl\b.*\s-X\s*POST\b`)},
	{"HTTP POST (curl -d)", regexp.MustCompile(`\bcurl\b.*\s(-d|--data\S*)\b`)},
	{"Package publish (npm)", regexp.MustCompile(`\bnpm\s+publish\b`)},
	{"Database drop", regexp.MustCompile(`(?i)\bdrop\s+(table|database)\b`)},
	{"Elevated privileges (sudo)", regexp.MustCompile(`\bsudo\s`)},
	{"World-writable chmod (777)", regexp.MustCompile(`\bchmod\s+(-\w+\s+)*777\b`)},
	{"Force kill (kill -9)", regexp.MustCompile(`\bkill\s+-9\b`)},
}

// MatchRisks returns the labels of every risk signature the command matches,
// in table order. No deduplication or ranking is applied across labels.
func MatchRisks(command string) []string {
	var labels []string
	for _, sig := range riskSignatures {
		if sig.re.MatchString(command) {
			labels = append(labels, sig.label)
		}
	}
	return labels
}
