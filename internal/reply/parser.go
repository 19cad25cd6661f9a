// Package reply reads the text returned by the language model into a message and an optional file patch.
package reply

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/sirupsen/logrus"
)

// Reply is the structured reading of one completion.
// Files is nil when the completion carried no files array at all.
type Reply struct {
	Message string
	Files   []models.FileChange
	Open    []string
	Active  string
	Format  string
}

// Patch returns the file patch carried by the reply, or nil when there is nothing to write.
func (r Reply) Patch() *models.Patch {
	if len(r.Files) == 0 {
		return nil
	}
	return &models.Patch{Files: r.Files, Open: r.Open, Active: r.Active}
}

// Strategy attempts one reading of the raw text.
type Strategy struct {
	Name  string
	Parse func(raw string) (Reply, bool)
}

// Strategies are tried in order; the first one that succeeds wins. The last one always succeeds.
var Strategies = []Strategy{
	{Name: "json", Parse: parseStructured},
	{Name: "fenced", Parse: parseFenced},
	{Name: "raw", Parse: parseRaw},
}

// Parse never fails: at worst the whole text becomes the message.
func Parse(raw string) Reply {
	for _, s := range Strategies {
		if r, ok := s.Parse(raw); ok {
			r.Format = s.Name
			logrus.Debugf("Completion parsed as %s (%d files)", s.Name, len(r.Files))
			return r
		}
	}
	return Reply{Message: raw, Format: "raw"}
}

func parseStructured(raw string) (Reply, bool) {
	obj, ok := decodeObject([]byte(strings.TrimSpace(raw)))
	if !ok {
		return Reply{}, false
	}
	msg, ok := decodeString(obj["message"])
	if !ok {
		return Reply{}, false
	}
	r := Reply{Message: msg}
	r.Files, _ = decodeFiles(obj["files"])
	r.Open, _ = decodeStrings(obj["open"])
	r.Active, _ = decodeString(obj["active"])
	return r, true
}

// fencedPattern matches a ```json block holding a "files" object that ends the text.
var fencedPattern = regexp.MustCompile("```json\\s*(\\{[\\s\\S]*?\"files\"[\\s\\S]*?\\})\\s*```\\s*$")

func parseFenced(raw string) (Reply, bool) {
	loc := fencedPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return Reply{}, false
	}
	obj, ok := decodeObject([]byte(raw[loc[2]:loc[3]]))
	if !ok {
		return Reply{}, false
	}
	files, ok := decodeFiles(obj["files"])
	if !ok {
		return Reply{}, false
	}
	msg := strings.TrimSpace(raw[:loc[0]])
	if msg == "" {
		msg, _ = decodeString(obj["message"])
	}
	r := Reply{Message: msg, Files: files}
	r.Open, _ = decodeStrings(obj["open"])
	r.Active, _ = decodeString(obj["active"])
	return r, true
}

func parseRaw(raw string) (Reply, bool) {
	return Reply{Message: raw}, true
}

func decodeObject(data []byte) (map[string]json.RawMessage, bool) {
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func decodeString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// decodeFiles keeps only {path, content} objects with a non-empty path.
func decodeFiles(raw json.RawMessage) ([]models.FileChange, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return nil, false
	}
	files := make([]models.FileChange, 0, len(items))
	for _, item := range items {
		obj, ok := decodeObject(bytes.TrimSpace(item))
		if !ok {
			continue
		}
		path, ok := decodeString(obj["path"])
		if !ok || path == "" {
			continue
		}
		content, ok := decodeString(obj["content"])
		if !ok {
			continue
		}
		files = append(files, models.FileChange{Path: path, Content: content})
	}
	return files, true
}

func decodeStrings(raw json.RawMessage) ([]string, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := decodeString(item); ok {
			out = append(out, s)
		}
	}
	return out, true
}
