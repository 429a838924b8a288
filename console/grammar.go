package console

import (
	"strings"

	"github.com/alecthomas/participle/v2"
)

// line is one console input: a verb followed by optional arguments.
// Arguments may be separated by spaces or commas.
type line struct {
	Verb string      `parser:"@Ident"`
	Args []*argument `parser:"( @@ ','? )*"`
}

type argument struct {
	Value string `parser:"@( '-'? ( Float | Int ) ) | @Ident"`
}

var lineParser = participle.MustBuild[line]()

// Parse splits a console line into its lower-cased verb and arguments
func Parse(input string) (string, []string, error) {
	parsed, err := lineParser.ParseString("", strings.ToLower(strings.TrimSpace(input)))
	if err != nil {
		return "", nil, err
	}

	args := make([]string, 0, len(parsed.Args))
	for _, a := range parsed.Args {
		args = append(args, a.Value)
	}
	return parsed.Verb, args, nil
}
