package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
)

// A template produces a layout program: one directive per line.
//
//	#page            start a new page
//	#title TEXT      document title
//	#badge TEXT      cover badge image
//	#h1 / #h2 / #h3  headings
//	#p TEXT          paragraph
//	#li TEXT         bullet item
//	#kv KEY | VALUE  labelled value
//	#rule            horizontal line
//	#space [MM]      vertical gap, 4mm by default
//
// A line without a directive continues the text of the previous block.

type blockKind string

const (
	blockPage  blockKind = "page"
	blockTitle blockKind = "title"
	blockBadge blockKind = "badge"
	blockH1    blockKind = "h1"
	blockH2    blockKind = "h2"
	blockH3    blockKind = "h3"
	blockPara  blockKind = "p"
	blockItem  blockKind = "li"
	blockKV    blockKind = "kv"
	blockRule  blockKind = "rule"
	blockSpace blockKind = "space"
)

const defaultSpaceMM = 4

type block struct {
	kind blockKind
	key  string
	text string
	mm   float64
}

func (k blockKind) textual() bool {
	switch k {
	case blockTitle, blockBadge, blockH1, blockH2, blockH3, blockPara, blockItem, blockKV:
		return true
	default:
		return false
	}
}

var templateFuncs = template.FuncMap{
	// line flattens text onto a single line.
	"line": func(v any) string {
		return strings.Join(strings.Fields(fmt.Sprint(v)), " ")
	},
	"inc": func(i int) int { return i + 1 },
	"upper": func(v any) string {
		return strings.ToUpper(fmt.Sprint(v))
	},
	"join": func(items []any, sep string) string {
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, fmt.Sprint(it))
		}
		return strings.Join(parts, sep)
	},
}

// compile executes the template against data and parses the resulting layout.
func compile(source string, data map[string]any) ([]block, error) {
	tmpl, err := template.New("lesson").Funcs(templateFuncs).Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeCompile, err, "parse template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeCompile, err, "execute template")
	}

	return parseLayout(buf.String())
}

func parseLayout(src string) ([]block, error) {
	var blocks []block

	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "#") {
			n := len(blocks)
			if n == 0 || !blocks[n-1].kind.textual() {
				return nil, agenterr.New(agenterr.CodeCompile, "line %d: text outside a block: %q", i+1, clip(line))
			}
			blocks[n-1].text = strings.TrimSpace(blocks[n-1].text + " " + line)
			continue
		}

		name, arg, _ := strings.Cut(line[1:], " ")
		arg = strings.TrimSpace(arg)
		b := block{kind: blockKind(name), text: arg}

		switch b.kind {
		case blockPage, blockRule:
			b.text = ""
		case blockSpace:
			b.text = ""
			b.mm = defaultSpaceMM
			if arg != "" {
				mm, err := strconv.ParseFloat(arg, 64)
				if err != nil || mm < 0 {
					return nil, agenterr.New(agenterr.CodeCompile, "line %d: invalid space %q", i+1, arg)
				}
				b.mm = mm
			}
		case blockKV:
			key, value, ok := strings.Cut(arg, "|")
			if !ok {
				return nil, agenterr.New(agenterr.CodeCompile, "line %d: #kv needs KEY | VALUE", i+1)
			}
			b.key = strings.TrimSpace(key)
			b.text = strings.TrimSpace(value)
		case blockTitle, blockBadge, blockH1, blockH2, blockH3, blockPara, blockItem:
		default:
			return nil, agenterr.New(agenterr.CodeCompile, "line %d: unknown directive #%s", i+1, name)
		}

		blocks = append(blocks, b)
	}

	return blocks, nil
}

func clip(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
