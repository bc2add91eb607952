package dita

import (
	"crypto/md5"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Passage is a single retrievable chunk extracted from a DITA topic.
type Passage struct {
	ID          string   // md5 of file path + section path + content
	Content     string   // Text content for embedding
	Title       string   // Section or topic title
	TopicType   string   // concept, task, reference, troubleshooting, ...
	Audience    string   // "all", "user", "developer"
	FilePath    string   // Topic file path relative to the docs root
	SectionPath []string // Breadcrumb: [topic title, section title]
}

// Breadcrumb renders the section path as a display string.
func (p Passage) Breadcrumb() string {
	return strings.Join(p.SectionPath, " > ")
}

// topicTypes maps DITA root element tags to topic types.
var topicTypes = map[string]string{
	"concept":         "concept",
	"task":            "task",
	"reference":       "reference",
	"troubleshooting": "troubleshooting",
	"topic":           "topic",
	"glossentry":      "glossary",
}

// bodyTags are the body elements of the supported topic types.
var bodyTags = []string{"conbody", "taskbody", "refbody", "troublebody", "body", "glossBody"}

// Chunker parses DITA XML topics into passages.
//
// Chunking strategy: each <section> becomes a passage; tasks without
// sections contribute one numbered-steps passage; otherwise the whole
// body becomes one passage. Audience metadata is preserved for
// retrieval filtering.
type Chunker struct {
	root string
}

func NewChunker(root string) *Chunker {
	return &Chunker{root: root}
}

// Report summarizes a full parse over the docs tree. Malformed files
// never abort the batch; they are counted and reported here.
type Report struct {
	Passages []Passage
	Files    int
	Failed   int
	Errors   []error
}

// ParseAll walks the docs tree and chunks every .dita file, skipping
// temp and build output directories.
func (c *Chunker) ParseAll() (*Report, error) {
	report := &Report{}

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "temp" || d.Name() == "out" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".dita") {
			return nil
		}

		report.Files++
		passages, parseErr := c.ParseFile(path)
		if parseErr != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Errorf("parse %s: %w", path, parseErr))
			return nil
		}
		report.Passages = append(report.Passages, passages...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", c.root, err)
	}
	return report, nil
}

// ParseFile chunks a single DITA file.
func (c *Chunker) ParseFile(path string) ([]Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	relPath, err := filepath.Rel(c.root, path)
	if err != nil {
		relPath = path
	}
	return Chunk(data, filepath.ToSlash(relPath))
}

// Chunk parses one DITA document and extracts its passages.
func Chunk(data []byte, filePath string) ([]Passage, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}

	topicType, ok := topicTypes[strings.ToLower(root.Tag)]
	if !ok {
		topicType = "topic"
	}

	topicTitle := elementText(root.FindElement(".//title"))
	topicAudience := root.SelectAttrValue("audience", "all")
	shortdesc := elementText(root.FindElement(".//shortdesc"))

	body := findBody(root)
	if body == nil {
		// No body, create single passage from the whole topic
		content := extractText(root)
		if strings.TrimSpace(content) == "" {
			return nil, nil
		}
		return []Passage{newPassage(content, topicTitle, topicType, topicAudience, filePath, []string{topicTitle})}, nil
	}

	var passages []Passage

	// Strategy 1: chunk by <section> elements
	sections := body.FindElements(".//section")
	for i, section := range sections {
		sectionTitle := elementText(section.SelectElement("title"))
		if sectionTitle == "" {
			sectionTitle = topicTitle
		}
		sectionAudience := section.SelectAttrValue("audience", topicAudience)

		content := extractText(section)
		if strings.TrimSpace(content) == "" {
			continue
		}
		// Prepend shortdesc to the first section for context
		if i == 0 && shortdesc != "" {
			content = shortdesc + "\n\n" + content
		}

		passages = append(passages, newPassage(
			content, sectionTitle, topicType, sectionAudience, filePath,
			[]string{topicTitle, sectionTitle},
		))
	}
	if len(passages) > 0 {
		return passages, nil
	}

	// Strategy 2: for tasks, chunk by steps if no sections
	if topicType == "task" {
		if steps := body.FindElement(".//steps"); steps != nil {
			content := extractSteps(steps)
			if shortdesc != "" {
				content = shortdesc + "\n\n" + content
			}
			if strings.TrimSpace(content) != "" {
				return []Passage{newPassage(content, topicTitle, topicType, topicAudience, filePath, []string{topicTitle})}, nil
			}
		}
	}

	// Fallback: whole body as one passage
	content := extractText(body)
	if shortdesc != "" {
		content = shortdesc + "\n\n" + content
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	return []Passage{newPassage(content, topicTitle, topicType, topicAudience, filePath, []string{topicTitle})}, nil
}

func findBody(root *etree.Element) *etree.Element {
	for _, tag := range bodyTags {
		if body := root.FindElement(".//" + tag); body != nil {
			return body
		}
	}
	return nil
}

// elementText returns the concatenated text of an element and all its
// descendants, or "" if the element is nil.
func elementText(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.Child {
			switch node := child.(type) {
			case *etree.CharData:
				sb.WriteString(node.Data)
			case *etree.Element:
				walk(node)
			}
		}
	}
	walk(e)
	return strings.TrimSpace(sb.String())
}

// extractText projects an XML subtree into readable text: list items
// become bullet lines, paragraphs become standalone blocks, section
// titles become markdown-style headers.
func extractText(element *etree.Element) string {
	var parts []string

	var visit func(child *etree.Element)
	visit = func(child *etree.Element) {
		switch child.Tag {
		case "li":
			if text := elementText(child); text != "" {
				parts = append(parts, "• "+text)
			}
			return
		case "step":
			if cmd := child.SelectElement("cmd"); cmd != nil {
				if text := elementText(cmd); text != "" {
					parts = append(parts, "• "+text)
				}
			}
			return
		case "p":
			if text := elementText(child); text != "" {
				parts = append(parts, text)
			}
			return
		case "title":
			if child.Parent() == element {
				if text := elementText(child); text != "" {
					parts = append(parts, "## "+text)
				}
			}
		}
		for _, next := range child.ChildElements() {
			visit(next)
		}
	}
	for _, child := range element.ChildElements() {
		visit(child)
	}

	return strings.Join(parts, "\n\n")
}

// extractSteps reconstructs an ordered task procedure as numbered lines
// with indented elaboration below each step.
func extractSteps(steps *etree.Element) string {
	parts := []string{"Steps:"}

	for i, step := range steps.FindElements("step") {
		if cmd := step.SelectElement("cmd"); cmd != nil {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, elementText(cmd)))
		}
		if info := step.SelectElement("info"); info != nil {
			if infoText := elementText(info); infoText != "" {
				parts = append(parts, "   "+infoText)
			}
		}
	}

	return strings.Join(parts, "\n")
}

func newPassage(content, title, topicType, audience, filePath string, sectionPath []string) Passage {
	unique := fmt.Sprintf("%s:%s:%s", filePath, strings.Join(sectionPath, ":"), content)
	return Passage{
		ID:          fmt.Sprintf("%x", md5.Sum([]byte(unique))),
		Content:     content,
		Title:       title,
		TopicType:   topicType,
		Audience:    audience,
		FilePath:    filePath,
		SectionPath: sectionPath,
	}
}
