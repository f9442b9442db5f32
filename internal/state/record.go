// Package state composes the git, machine and ecosystem inspectors into one
// record and persists it with its supporting artifacts.
package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codestamp/internal/identity"
)

// RecordFilename is the structured record inside a capture directory.
const RecordFilename = "code_state.json"

// DateLayout formats the capture time as day/month/year.
const DateLayout = "02/01/2006 15:04:05"

// Record is the persisted description of a workspace at capture time.
type Record struct {
	Date   string            `json:"date"`
	Git    GitInfo           `json:"git"`
	Node   *identity.Machine `json:"node,omitempty"`
	Python Environments      `json:"python"`
}

// GitInfo identifies the commit and, optionally, who made the capture.
type GitInfo struct {
	Hash  string `json:"hash"`
	User  string `json:"user,omitempty"`
	Email string `json:"email,omitempty"`
}

// Entry is one ecosystem snapshot, stored as its marshaled JSON so the record
// shares nothing with live inspector state.
type Entry struct {
	Name string
	Data json.RawMessage
}

// Environments holds the interpreter version and the ecosystem snapshots in
// inspector order. It encodes as a single JSON object keyed by ecosystem name.
type Environments struct {
	Version string
	Entries []Entry
}

// Get returns the snapshot stored under name.
func (e Environments) Get(name string) (json.RawMessage, bool) {
	for _, entry := range e.Entries {
		if entry.Name == name {
			return entry.Data, true
		}
	}
	return nil, false
}

// Names lists the recorded ecosystems in order.
func (e Environments) Names() []string {
	names := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		names = append(names, entry.Name)
	}
	return names
}

func (e Environments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"version":`)
	version, err := json.Marshal(e.Version)
	if err != nil {
		return nil, err
	}
	buf.Write(version)
	for _, entry := range e.Entries {
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		if len(entry.Data) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(entry.Data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Environments) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("python block: expected object, got %v", tok)
	}

	*e = Environments{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		if key == "version" {
			if err := dec.Decode(&e.Version); err != nil {
				return fmt.Errorf("python block: version: %w", err)
			}
			continue
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("python block: %s: %w", key, err)
		}
		e.Entries = append(e.Entries, Entry{Name: key, Data: raw})
	}
	_, err = dec.Token()
	return err
}

// ToJSON serializes the record with two-space indentation.
func (r Record) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteToFile writes the record to dir/RecordFilename.
func (r Record) WriteToFile(dir string) (string, error) {
	data, err := r.ToJSON()
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	path := filepath.Join(dir, RecordFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadRecord reads dir/RecordFilename.
func LoadRecord(dir string) (Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, RecordFilename))
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", RecordFilename, err)
	}
	return r, nil
}
