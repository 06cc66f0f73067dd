package speaker

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ID is a canonical speaker identifier. Real ids are positive; None marks a
// turn whose transcript recorded no speaker; Unresolved marks a printed name
// the table could not account for.
type ID int64

const (
	None       ID = 0
	Unresolved ID = -1
)

// Resolved reports whether the id names an actual speaker.
func (id ID) Resolved() bool {
	return id > 0
}

type entry struct {
	id        ID
	firstname string
	lastname  string
}

// Table is the in-memory lookup index over the speaker table file.
type Table struct {
	byExact      map[string][]ID
	byNormalized map[string][]ID
	byLastname   map[string][]entry
}

// LoadTable reads a pipe-separated speaker table with a header line of at
// least mp_id|firstname|lastname. Extra columns are ignored.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open speaker table: %w", err)
	}
	defer file.Close()
	return ReadTable(file)
}

// ReadTable parses speaker table rows from r.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read speaker table header: %w", err)
	}
	idCol, firstCol, lastCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "mp_id":
			idCol = i
		case "firstname":
			firstCol = i
		case "lastname":
			lastCol = i
		}
	}
	if idCol < 0 || firstCol < 0 || lastCol < 0 {
		return nil, fmt.Errorf("speaker table header missing mp_id/firstname/lastname: %v", header)
	}

	table := &Table{
		byExact:      make(map[string][]ID),
		byNormalized: make(map[string][]ID),
		byLastname:   make(map[string][]entry),
	}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read speaker table line %d: %w", line, err)
		}
		if idCol >= len(record) || firstCol >= len(record) || lastCol >= len(record) {
			return nil, fmt.Errorf("speaker table line %d: too few columns", line)
		}
		rawID, err := strconv.ParseInt(strings.TrimSpace(record[idCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("speaker table line %d: mp_id: %w", line, err)
		}
		if rawID <= 0 {
			return nil, fmt.Errorf("speaker table line %d: mp_id must be positive, got %d", line, rawID)
		}
		table.add(ID(rawID), record[firstCol], record[lastCol])
	}
	return table, nil
}

func (t *Table) add(id ID, firstname, lastname string) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)

	exact := strings.ToLower(firstname + " " + lastname)
	t.byExact[exact] = appendUnique(t.byExact[exact], id)

	normalized := normalizeName(firstname + " " + lastname)
	t.byNormalized[normalized] = appendUnique(t.byNormalized[normalized], id)

	lastKey := normalizeName(lastname)
	t.byLastname[lastKey] = append(t.byLastname[lastKey], entry{id: id, firstname: firstname, lastname: lastname})
}

func appendUnique(ids []ID, id ID) []ID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Len returns the number of distinct lastname buckets, used for sanity checks.
func (t *Table) Len() int {
	return len(t.byLastname)
}
