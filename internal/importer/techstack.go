package importer

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	codeBlockRe     = regexp.MustCompile("(?s)```(?:javascript|typescript|json)?\n(.*?)```")
	lineCommentRe   = regexp.MustCompile(`//[^\n]*`)
	constAssignRe   = regexp.MustCompile(`^const\s+\w+\s*=\s*`)
	trailingSemiRe  = regexp.MustCompile(`;?\s*$`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// parseTechStackJSON extracts the JS-style object literal from a tech stack
// code fence and decodes it as JSON. The literal is normalized first: line
// comments, a leading const assignment, bare keys, single quotes and trailing
// commas are all tolerated. Anything that still fails to decode, or whose
// values are not plain strings, yields nil rather than an error: the raw text
// is kept regardless.
func parseTechStackJSON(text string) map[string]string {
	m := codeBlockRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	s := lineCommentRe.ReplaceAllString(m[1], "")
	s = strings.TrimSpace(s)
	s = constAssignRe.ReplaceAllString(s, "")
	s = trailingSemiRe.ReplaceAllString(s, "")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = strings.ReplaceAll(s, "'", `"`)
	s = trailingCommaRe.ReplaceAllString(s, "$1")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var str string
		if err := json.Unmarshal(v, &str); err != nil {
			continue
		}
		out[k] = strings.TrimSpace(str)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
