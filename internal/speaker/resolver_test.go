package speaker

import (
	"strings"
	"testing"
)

const tableData = `mp_id|firstname|lastname|party
414|Maija|Meikäläinen|kok
102|Matti|Virtanen|sd
103|Mikko|Virtanen|kesk
200|Anna-Maja|Henriksson|r
`

func loadTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := ReadTable(strings.NewReader(tableData))
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	return table
}

func TestResolveExact(t *testing.T) {
	table := loadTestTable(t)
	if got := table.Resolve("Maija", "Meikäläinen"); got != 414 {
		t.Fatalf("Resolve = %d, want 414", got)
	}
}

func TestResolveIgnoresCaseAndDiacritics(t *testing.T) {
	table := loadTestTable(t)
	if got := table.Resolve("maija", "meikalainen"); got != 414 {
		t.Fatalf("Resolve = %d, want 414", got)
	}
}

func TestResolveStripsTitlePrefix(t *testing.T) {
	table := loadTestTable(t)
	if got := table.ResolveName("Edustaja Maija Meikäläinen"); got != 414 {
		t.Fatalf("ResolveName = %d, want 414", got)
	}
}

func TestResolveAbbreviatedFirstName(t *testing.T) {
	table := loadTestTable(t)
	if got := table.Resolve("A.", "Henriksson"); got != 200 {
		t.Fatalf("Resolve abbreviated = %d, want 200", got)
	}
}

func TestResolveAmbiguousInitialStaysUnresolved(t *testing.T) {
	table := loadTestTable(t)
	// Both Virtanens share the initial M.
	if got := table.Resolve("M.", "Virtanen"); got != Unresolved {
		t.Fatalf("Resolve ambiguous = %d, want Unresolved", got)
	}
}

func TestResolveUnknownName(t *testing.T) {
	table := loadTestTable(t)
	if got := table.Resolve("Tuntematon", "Henkilö"); got != Unresolved {
		t.Fatalf("Resolve unknown = %d, want Unresolved", got)
	}
}

func TestResolveEmptyNameIsNone(t *testing.T) {
	table := loadTestTable(t)
	if got := table.Resolve("", ""); got != None {
		t.Fatalf("Resolve empty = %d, want None", got)
	}
	if Unresolved.Resolved() || None.Resolved() {
		t.Fatal("sentinels must not report as resolved")
	}
}

func TestReadTableRejectsBadHeader(t *testing.T) {
	if _, err := ReadTable(strings.NewReader("id|name\n1|x\n")); err == nil {
		t.Fatal("expected header error")
	}
}

func TestReadTableRejectsNonPositiveID(t *testing.T) {
	if _, err := ReadTable(strings.NewReader("mp_id|firstname|lastname\n0|A|B\n")); err == nil {
		t.Fatal("expected id error")
	}
}
