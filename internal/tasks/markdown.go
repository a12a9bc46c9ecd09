package tasks

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section titles used in task.md
const (
	SectionCredentials  = "Required Credentials"
	SectionRules        = "Task Rules"
	SectionSystemPrompt = "System Prompt"
	SectionSteps        = "Steps"
	SectionResults      = "Results"
)

// DefaultRules are listed before the task's own rules
var DefaultRules = []string{
	"Review the project structure before making changes",
	"Keep changes focused on the task",
	"Run the tests before finishing",
}

// GenerateMarkdown renders the task.md document for a task
func GenerateMarkdown(task *Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Task: %s\n", task.Title)
	fmt.Fprintf(&b, "Date: %s\n\n", task.Created.Format(idTimeLayout))

	fmt.Fprintf(&b, "## %s\n", SectionCredentials)
	if task.Service != "" && len(task.Keys) > 0 {
		fmt.Fprintf(&b, "- Service: %s\n", task.Service)
		fmt.Fprintf(&b, "- Keys: %s\n\n", strings.Join(task.Keys, ", "))
	} else {
		b.WriteString("- No credentials required\n\n")
	}

	fmt.Fprintf(&b, "## %s\n", SectionRules)
	for _, rule := range DefaultRules {
		fmt.Fprintf(&b, "- [ ] %s\n", rule)
	}
	for _, rule := range task.Rules {
		fmt.Fprintf(&b, "- [ ] %s\n", rule)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n%s\n\n", SectionSystemPrompt, task.SystemPrompt)
	fmt.Fprintf(&b, "## %s\n1. [Step details]\n\n", SectionSteps)
	fmt.Fprintf(&b, "## %s\n- [ ] Task completed\n", SectionResults)

	return b.String()
}

// Document is a parsed task.md
type Document struct {
	Title    string
	Sections map[string]string // Level-2 heading -> raw body text
	Service  string
	Keys     []string
}

// ParseMarkdown extracts the level-2 sections of a task.md and the
// credentials it declares. Headings inside code blocks are ignored.
func ParseMarkdown(src []byte) *Document {
	doc := &Document{Sections: map[string]string{}}
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	type mark struct {
		title     string
		lineStart int
		bodyStart int
	}
	var marks []mark

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			continue
		}
		title := strings.TrimSpace(inlineText(heading, src))
		if heading.Level == 1 && doc.Title == "" {
			doc.Title = strings.TrimSpace(strings.TrimPrefix(title, "Task:"))
			continue
		}
		if heading.Level != 2 {
			continue
		}

		segment := heading.Lines().At(0)
		lineStart := bytes.LastIndexByte(src[:segment.Start], '\n') + 1
		bodyStart := len(src)
		if nl := bytes.IndexByte(src[segment.Stop:], '\n'); nl >= 0 {
			bodyStart = segment.Stop + nl + 1
		}
		marks = append(marks, mark{title: title, lineStart: lineStart, bodyStart: bodyStart})
	}

	for i, m := range marks {
		end := len(src)
		if i+1 < len(marks) {
			end = marks[i+1].lineStart
		}
		if m.bodyStart > end {
			m.bodyStart = end
		}
		doc.Sections[m.title] = strings.TrimSpace(string(src[m.bodyStart:end]))
	}

	doc.Service, doc.Keys = parseCredentials(doc.Sections[SectionCredentials])
	return doc
}

func inlineText(node ast.Node, src []byte) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
			continue
		}
		b.WriteString(inlineText(child, src))
	}
	return b.String()
}

func parseCredentials(body string) (string, []string) {
	var service string
	var keys []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "- Service:"):
			service = strings.TrimSpace(strings.TrimPrefix(line, "- Service:"))
		case strings.HasPrefix(line, "- Keys:"):
			for _, key := range strings.Split(strings.TrimPrefix(line, "- Keys:"), ",") {
				if key = strings.TrimSpace(key); key != "" {
					keys = append(keys, key)
				}
			}
		}
	}
	return service, keys
}
