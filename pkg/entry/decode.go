package entry

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type databaseFile struct {
	Strings map[string]any `json:"strings" yaml:"strings" toml:"strings"`
	Entries []entryFile    `json:"entries" yaml:"entries" toml:"entries"`
}

type entryFile struct {
	Type   string         `json:"type" yaml:"type" toml:"type"`
	Key    string         `json:"key" yaml:"key" toml:"key"`
	Fields map[string]any `json:"fields" yaml:"fields" toml:"fields"`
}

// Decode builds a Database from a JSON, YAML or TOML document:
//
//	strings:
//	  feb: February
//	entries:
//	  - type: article
//	    key: HipKro03
//	    fields:
//	      author: Eric von Hippel and Georg von Krogh
//
// The format is chosen from the source extension; unknown extensions try
// JSON, then YAML, then TOML.
func Decode(data []byte, source string) (*Database, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("entry: document %s is empty", source)
	}

	doc, err := parseDatabaseFile(data, source)
	if err != nil {
		return nil, err
	}

	db := NewDatabase()
	for name, value := range doc.Strings {
		db.SetString(name, scalarString(value))
	}
	for idx, raw := range doc.Entries {
		key := strings.TrimSpace(raw.Key)
		if key == "" {
			return nil, fmt.Errorf("entry: document %s entry %d has no key", source, idx)
		}
		e := New(raw.Type, key)
		for name, value := range raw.Fields {
			e.Set(name, scalarString(value))
		}
		if err := db.Add(e); err != nil {
			return nil, fmt.Errorf("entry: document %s: %w", source, err)
		}
	}
	return db, nil
}

func parseDatabaseFile(data []byte, source string) (databaseFile, error) {
	var doc databaseFile

	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return databaseFile{}, fmt.Errorf("entry: parse %s: %w", source, err)
		}
		return doc, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return databaseFile{}, fmt.Errorf("entry: parse %s: %w", source, err)
		}
		return doc, nil
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return databaseFile{}, fmt.Errorf("entry: parse %s: %w", source, err)
		}
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = databaseFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = databaseFile{}
	if err := toml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return databaseFile{}, fmt.Errorf("entry: parse %s: invalid JSON, YAML or TOML", source)
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
