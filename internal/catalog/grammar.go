package catalog

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// vocabLine is one `key:value1,value2,...` record of a vocabulary file.
// Delimiters cannot be escaped, so keys and values never contain ':' or ','.
type vocabLine struct {
	Key    string   `parser:"@Phrase \":\""`
	Values []string `parser:"@Phrase? ( \",\" @Phrase? )*"`
}

var vocabLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Phrase", Pattern: `[^:,\r\n]+`},
	{Name: "Punct", Pattern: `[:,]`},
})

var vocabParser = participle.MustBuild[vocabLine](
	participle.Lexer(vocabLexer),
)

// parseLine parses a single vocabulary record. Keys and values are trimmed and
// empty values are dropped.
func parseLine(source, line string) (string, []string, error) {
	parsed, err := vocabParser.ParseString(source, line)
	if err != nil {
		return "", nil, err
	}

	key := strings.TrimSpace(parsed.Key)
	if key == "" {
		return "", nil, errEmptyKey
	}

	values := make([]string, 0, len(parsed.Values))
	for _, v := range parsed.Values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		values = append(values, v)
	}
	return key, values, nil
}

// skipLine reports whether a line carries no record.
func skipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
