package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"plenum/internal/logging"
	"plenum/internal/session"
)

type rawEmbedded struct {
	MPID      int64  `json:"mp_id"`
	Title     string `json:"title"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Language  string `json:"language"`
	Text      string `json:"text"`
}

type rawStatement struct {
	Type      string      `json:"type"`
	MPID      int64       `json:"mp_id"`
	Firstname string      `json:"firstname"`
	Lastname  string      `json:"lastname"`
	Party     string      `json:"party"`
	Title     string      `json:"title"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Language  string      `json:"language"`
	Text      string      `json:"text"`
	Embedded  rawEmbedded `json:"embedded_statement"`
}

type rawSubsection struct {
	Number     string            `json:"number"`
	Statements []json.RawMessage `json:"statements"`
}

type rawDocument struct {
	Number      int             `json:"number"`
	Year        int             `json:"year"`
	BeginTime   string          `json:"begin_time"`
	Subsections []rawSubsection `json:"subsections"`
}

// ParseFile parses the transcript JSON at path.
func ParseFile(path string, logger *slog.Logger) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()
	return Parse(file, logger)
}

// Parse decodes a session transcript document into ordered speech turns.
// Statements with malformed markup are skipped and counted; an unreadable
// document or a missing session key is an error for the whole session.
func Parse(r io.Reader, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var raw rawDocument
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	id := session.ID{Number: raw.Number, Year: raw.Year}
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("transcript session key: %w", err)
	}

	doc := &Document{Session: id, BeginTime: raw.BeginTime}
	for _, sub := range raw.Subsections {
		for _, rawStmt := range sub.Statements {
			var stmt rawStatement
			if err := json.Unmarshal(rawStmt, &stmt); err != nil {
				doc.Skipped++
				logger.Warn("skipping malformed statement",
					logging.String(logging.FieldSession, id.String()),
					logging.String("subsection", sub.Number),
					logging.Error(err),
				)
				continue
			}
			doc.appendStatement(stmt, logger)
		}
	}
	return doc, nil
}

func (d *Document) appendStatement(stmt rawStatement, logger *slog.Logger) {
	if strings.TrimSpace(stmt.Text) == "" {
		d.Skipped++
		logger.Warn("skipping statement without text",
			logging.String(logging.FieldSession, d.Session.String()),
			logging.String("speaker", strings.TrimSpace(stmt.Firstname+" "+stmt.Lastname)),
		)
		return
	}

	main := Turn{
		Type:      normalizeType(stmt.Type),
		MPID:      stmt.MPID,
		Firstname: strings.TrimSpace(stmt.Firstname),
		Lastname:  strings.TrimSpace(stmt.Lastname),
		Party:     strings.TrimSpace(stmt.Party),
		Title:     strings.TrimSpace(stmt.Title),
		Language:  strings.TrimSpace(stmt.Language),
	}

	if strings.TrimSpace(stmt.Embedded.Text) == "" {
		main.Text = strings.TrimSpace(stmt.Text)
		d.appendTurn(main)
		return
	}

	// A long statement with an embedded chairman comment splits into up to
	// three turns so speaker attribution follows who actually spoke.
	before, after, found := strings.Cut(stmt.Text, EmbeddedMarker)
	if !found {
		after = ""
		before = stmt.Text
	}

	if text := strings.TrimSpace(before); text != "" {
		lead := main
		lead.Text = text
		d.appendTurn(lead)
	}
	d.appendTurn(Turn{
		Type:      TypeChairman,
		MPID:      stmt.Embedded.MPID,
		Firstname: strings.TrimSpace(stmt.Embedded.Firstname),
		Lastname:  strings.TrimSpace(stmt.Embedded.Lastname),
		Title:     strings.TrimSpace(stmt.Embedded.Title),
		Language:  strings.TrimSpace(stmt.Embedded.Language),
		Text:      strings.TrimSpace(stmt.Embedded.Text),
		Embedded:  true,
	})
	if text := strings.TrimSpace(after); text != "" {
		tail := main
		tail.Text = text
		d.appendTurn(tail)
	}
}

func (d *Document) appendTurn(turn Turn) {
	turn.Index = len(d.Turns)
	d.Turns = append(d.Turns, turn)
}

func normalizeType(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case TypeLong:
		return TypeLong
	case TypeShort:
		return TypeShort
	case TypeChairman:
		return TypeChairman
	default:
		return TypeLong
	}
}
