// Package yamldoc reads the host interview document: a multi-block YAML file
// whose blocks are separated by "---" lines. It splits the document,
// classifies each block, pulls out the embedded interview_order body, and
// runs document-level validation. Individual block payloads stay untyped
// maps; only the shapes this service needs are interpreted.
package yamldoc

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openfield-labs/interview-builder-backend/internal/order"
)

// BlockTypes is the recognized set of host block kinds, in detection
// priority order.
var BlockTypes = []string{
	"question",
	"code",
	"objects",
	"features",
	"auto terms",
	"template",
	"attachment",
	"attachments",
	"table",
	"translations",
	"include",
	"default screen parts",
	"metadata",
	"modules",
	"imports",
	"sections",
	"interview help",
	"def",
	"default validation messages",
	"machine learning storage",
	"initial",
	"event",
	"comment",
	"variable name",
	"data",
	"data from code",
	"reset",
	"on change",
	"image sets",
	"images",
	"order",
}

var languageByType = map[string]string{
	"code": "python",
	"def":  "markdown",
}

// Block is the summary of one YAML block in the host document.
type Block struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Label      string   `json:"label,omitempty"`
	Language   string   `json:"language"`
	Position   int      `json:"position"`
	OrderItems []string `json:"order_items,omitempty"`
	Mandatory  bool     `json:"is_mandatory"`
}

// LanguageFor maps a block type to the editor language of its payload.
func LanguageFor(blockType string) string {
	if lang, ok := languageByType[blockType]; ok {
		return lang
	}
	return "yaml"
}

// SplitBlocks splits a host document on "---" separator lines, dropping
// empty segments.
func SplitBlocks(document string) []string {
	cleaned := strings.TrimSpace(document)
	if cleaned == "" {
		return nil
	}
	parts := []string{}
	buffer := []string{}
	flush := func() {
		part := strings.TrimSpace(strings.Join(buffer, "\n"))
		if part != "" {
			parts = append(parts, part)
		}
		buffer = buffer[:0]
	}
	for _, line := range strings.Split(cleaned, "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		buffer = append(buffer, line)
	}
	flush()
	return parts
}

// AnalyzeBlocks decodes and classifies every block of the document. A YAML
// error in any block fails the whole analysis, naming the block position.
func AnalyzeBlocks(document string) ([]Block, error) {
	blocks := []Block{}
	for position, chunk := range SplitBlocks(document) {
		data := map[string]any{}
		if err := yaml.Unmarshal([]byte(chunk), &data); err != nil {
			return nil, fmt.Errorf("failed to parse YAML segment at index %d: %w", position, err)
		}
		blockType := guessBlockType(data)
		block := Block{
			ID:       fmt.Sprintf("%s-%d", blockType, position),
			Type:     blockType,
			Label:    labelForBlock(blockType, data),
			Language: LanguageFor(blockType),
			Position: position,
		}
		if payload, ok := data["interview_order"].(map[string]any); ok {
			code, _ := payload["code"].(string)
			block.OrderItems = orderItemsFromCode(code)
			block.Mandatory = coerceBool(payload["mandatory"])
		} else {
			block.Mandatory = coerceBool(data["mandatory"])
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// ValidateDocument collects every issue with the document as plain messages.
// An unparseable document yields the YAML error and stops there.
func ValidateDocument(document string) []string {
	issues := []string{}

	blocks, err := AnalyzeBlocks(document)
	if err != nil {
		return append(issues, err.Error())
	}

	known := map[string]bool{}
	for _, t := range BlockTypes {
		known[t] = true
	}
	for _, block := range blocks {
		if !known[block.Type] {
			issues = append(issues, fmt.Sprintf("Unsupported block type %q at position %d.", block.Type, block.Position))
		}
	}

	seenMandatory := false
	for _, chunk := range SplitBlocks(document) {
		data := map[string]any{}
		if err := yaml.Unmarshal([]byte(chunk), &data); err != nil {
			continue
		}
		payload, ok := data["interview_order"].(map[string]any)
		if !ok {
			continue
		}
		mandatory := coerceBool(payload["mandatory"])
		if mandatory && seenMandatory {
			issues = append(issues, "Only one mandatory interview_order block is allowed.")
		}
		seenMandatory = seenMandatory || mandatory
		if code, ok := payload["code"].(string); ok {
			if _, err := order.Extract("", code); err != nil {
				issues = append(issues, fmt.Sprintf("interview_order body does not parse: %v", err))
			}
		}
	}

	return issues
}

// ExtractVariables lists every variable the document references: ask/gather
// targets from interview_order bodies, plus "variable name" and question
// field declarations. Sorted and deduplicated.
func ExtractVariables(document string) []string {
	seen := map[string]bool{}
	for _, chunk := range SplitBlocks(document) {
		data := map[string]any{}
		if err := yaml.Unmarshal([]byte(chunk), &data); err != nil {
			continue
		}
		if name, ok := data["variable name"].(string); ok && name != "" {
			seen[name] = true
		}
		if name, ok := data["field"].(string); ok && name != "" {
			seen[name] = true
		}
		if fields, ok := data["fields"].([]any); ok {
			for _, f := range fields {
				m, ok := f.(map[string]any)
				if !ok {
					continue
				}
				for _, v := range m {
					if s, ok := v.(string); ok && s != "" {
						seen[s] = true
					}
				}
			}
		}
		payload, ok := data["interview_order"].(map[string]any)
		if !ok {
			continue
		}
		code, _ := payload["code"].(string)
		doc, err := order.Extract("", code)
		if err != nil {
			continue
		}
		for _, n := range order.Flatten(doc) {
			switch v := n.(type) {
			case order.Ask:
				seen[v.Var] = true
			case order.Gather:
				seen[v.List] = true
			}
		}
	}
	variables := make([]string, 0, len(seen))
	for v := range seen {
		variables = append(variables, v)
	}
	sort.Strings(variables)
	return variables
}

// OrderBody finds the first interview_order block and returns its block id
// and embedded body. ok is false when the document has none.
func OrderBody(document string) (blockID, body string, ok bool) {
	blocks, err := AnalyzeBlocks(document)
	if err != nil {
		return "", "", false
	}
	for position, chunk := range SplitBlocks(document) {
		data := map[string]any{}
		if err := yaml.Unmarshal([]byte(chunk), &data); err != nil {
			continue
		}
		payload, isOrder := data["interview_order"].(map[string]any)
		if !isOrder {
			continue
		}
		code, _ := payload["code"].(string)
		for _, b := range blocks {
			if b.Position == position {
				return b.ID, code, true
			}
		}
	}
	return "", "", false
}

func guessBlockType(data map[string]any) string {
	for _, candidate := range BlockTypes {
		if _, ok := data[candidate]; ok {
			return candidate
		}
	}
	return "code"
}

func labelForBlock(blockType string, data map[string]any) string {
	if _, ok := data["interview_order"].(map[string]any); ok {
		return "Interview Order"
	}
	switch blockType {
	case "metadata":
		if meta, ok := data["metadata"].(map[string]any); ok {
			if title, ok := meta["title"].(string); ok && title != "" {
				return title
			}
		}
		return "Metadata"
	case "question":
		if q, ok := data["question"].(string); ok && q != "" {
			return strings.SplitN(q, "\n", 2)[0]
		}
		return "Question"
	case "code":
		if code, ok := data["code"].(string); ok && code != "" {
			first := strings.SplitN(code, "\n", 2)[0]
			if len(first) > 24 {
				first = first[:24]
			}
			return first
		}
		return "Code"
	case "attachment":
		if payload, ok := data["attachment"].(map[string]any); ok {
			if name, ok := payload["name"].(string); ok && name != "" {
				return name
			}
		}
		return "Attachment"
	case "event":
		if event, ok := data["event"].(string); ok && event != "" {
			return event
		}
		return "Event"
	case "objects":
		return "Objects"
	}
	return blockType
}

// orderItemsFromCode lists the significant lines of an interview_order body.
func orderItemsFromCode(code string) []string {
	if code == "" {
		return nil
	}
	items := []string{}
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		items = append(items, trimmed)
	}
	return items
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "on":
			return true
		}
		return false
	case int:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}
