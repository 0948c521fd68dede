package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	reOrdered = regexp.MustCompile(`^(\d+)\.\s+`)
	reHeading = regexp.MustCompile(`^(#{1,4})\s+(.*)$`)
	reSlugDel = regexp.MustCompile(`[^a-z0-9]+`)
)

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockTable
	blockCode
)

var closers = map[block]string{
	blockPara:    "</p>",
	blockList:    "</ul>",
	blockOrdered: "</ol>",
	blockQuote:   "</blockquote>",
}

type renderer struct {
	out    *strings.Builder
	inline inline

	open      block
	tableBody bool
	codeLang  string
	comment   bool
	ids       map[string]int
}

func (r *renderer) write(s ...string) {
	for _, x := range s {
		r.out.WriteString(x)
	}
}

// enter closes the open block unless it is already b and reports
// whether b was opened by this call.
func (r *renderer) enter(b block) bool {
	if r.open == b {
		return false
	}
	r.close()
	r.open = b
	return true
}

func (r *renderer) close() {
	switch r.open {
	case blockNone:
		return
	case blockTable:
		if r.tableBody {
			r.write("</tbody>")
		}
		r.write("</table>")
		r.tableBody = false
	case blockCode:
		r.write("</code></pre>")
		if r.codeLang != "" {
			r.write("</div>")
		}
		r.codeLang = ""
	default:
		r.write(closers[r.open])
	}
	r.open = blockNone
}

func (r *renderer) render(md string) {
	for _, line := range strings.Split(md, "\n") {
		r.line(strings.TrimRight(line, "\r"))
	}
	r.close()
}

func (r *renderer) line(line string) {
	if r.open == blockCode {
		if strings.HasPrefix(line, "```") {
			r.close()
			return
		}
		r.write(html.EscapeString(line), "\n")
		return
	}

	// HTML comments (section markers among them) are never rendered.
	trimmed := strings.TrimSpace(line)
	if r.comment {
		if strings.Contains(trimmed, "-->") {
			r.comment = false
		}
		return
	}
	if strings.HasPrefix(trimmed, "<!--") {
		r.comment = !strings.Contains(trimmed, "-->")
		return
	}

	switch {
	case trimmed == "":
		r.close()
	case strings.HasPrefix(line, "```"):
		r.close()
		r.open = blockCode
		r.codeLang = html.EscapeString(strings.TrimSpace(line[3:]))
		if r.codeLang != "" {
			r.write(`<div class="code-block-wrapper"><span class="code-lang">`, r.codeLang, `</span>`,
				`<pre class="code-block"><code class="language-`, r.codeLang, `">`)
		} else {
			r.write(`<pre class="code-block"><code>`)
		}
	case trimmed == "---" || trimmed == "***":
		r.close()
		r.write("<hr/>")
	case reHeading.MatchString(line):
		r.close()
		m := reHeading.FindStringSubmatch(line)
		r.heading(len(m[1]), strings.TrimSpace(m[2]))
	case strings.HasPrefix(trimmed, "|"):
		r.tableRow(trimmed)
	case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
		if r.enter(blockList) {
			r.write("<ul>")
		}
		r.write("<li>", r.inline.format(strings.TrimSpace(line[2:])), "</li>")
	case reOrdered.MatchString(line):
		if r.enter(blockOrdered) {
			r.write("<ol>")
		}
		r.write("<li>", r.inline.format(strings.TrimSpace(reOrdered.ReplaceAllString(line, ""))), "</li>")
	case strings.HasPrefix(line, ">"):
		if r.enter(blockQuote) {
			r.write("<blockquote>")
		} else {
			r.write(" ")
		}
		r.write(r.inline.format(strings.TrimSpace(line[1:])))
	default:
		if r.enter(blockPara) {
			r.write("<p>")
		} else {
			r.write(" ")
		}
		r.write(r.inline.format(trimmed))
	}
}

// heading writes h1 to h4. Level-2 headings get an anchor id derived from
// their text, unique within the document.
func (r *renderer) heading(level int, text string) {
	tag := "h" + string(rune('0'+level))
	if level != 2 {
		r.write("<", tag, ">", r.inline.format(text), "</", tag, ">")
		return
	}
	id := slug(text)
	if r.ids == nil {
		r.ids = map[string]int{}
	}
	if n := r.ids[id]; n > 0 {
		r.ids[id] = n + 1
		id = id + "-" + strconv.Itoa(n)
	} else {
		r.ids[id] = 1
	}
	r.write(`<h2 id="`, id, `">`, r.inline.format(text), "</h2>")
}

func (r *renderer) tableRow(line string) {
	cells := splitCells(line)
	if r.enter(blockTable) {
		r.write("<table><thead><tr>")
		for _, c := range cells {
			r.write("<th>", r.inline.format(c), "</th>")
		}
		r.write("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.write("<tbody>")
		r.tableBody = true
	}
	if isSeparator(cells) {
		return
	}
	r.write("<tr>")
	for _, c := range cells {
		r.write("<td>", r.inline.format(c), "</td>")
	}
	r.write("</tr>")
}

func splitCells(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

func slug(s string) string {
	s = reSlugDel.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "section"
	}
	return s
}
