package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"worklog/internal/metrics"
	"worklog/internal/store"
)

// Format selects the import parser.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// importRow is a partial to-do as it appears in an import file.
type importRow struct {
	Category   string `json:"category"`
	PartNumber string `json:"partNumber"`
	WorkOrder  string `json:"workOrder"`
	TaskCode   string `json:"taskCode"`
	Notes      string `json:"notes"`
}

// ImportResult counts what happened to each row.
type ImportResult struct {
	Added   int
	Skipped int
	Invalid int
}

// TodoSaver is the slice of the reconciliation engine the importer
// needs: every newly inserted to-do participates in matching.
type TodoSaver interface {
	OnTodoSaved(ctx context.Context, todo *store.TodoEntry) (*store.JobEntry, error)
}

// Importer bulk-inserts to-dos, deduplicating against the store by
// normalized composite key.
type Importer struct {
	todos store.TodoStore
	saver TodoSaver
	sink  metrics.Sink
	clock func() time.Time
}

// NewImporter creates an importer.
func NewImporter(todos store.TodoStore, saver TodoSaver, sink metrics.Sink) *Importer {
	return &Importer{
		todos: todos,
		saver: saver,
		sink:  sink,
		clock: time.Now,
	}
}

// Import reads to-dos from r and inserts the new ones. The whole input
// is parsed before the first insert; a malformed file changes nothing.
// Rows whose composite key already exists are skipped, rows with no
// identifying field are counted invalid, and every inserted to-do runs
// through the reconciliation engine.
func (im *Importer) Import(ctx context.Context, r io.Reader, format Format) (ImportResult, error) {
	var result ImportResult

	raw, err := io.ReadAll(r)
	if err != nil {
		return result, fmt.Errorf("read import: %w", err)
	}

	rows, err := parseRows(raw, format)
	if err != nil {
		return result, err
	}

	existing, err := im.todos.GetAllTodos(ctx)
	if err != nil {
		return result, fmt.Errorf("load todos: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[store.CompositeKey(&existing[i])] = true
	}

	for _, row := range rows {
		todo := store.TodoEntry{
			ID:         uuid.New(),
			Category:   normalizeCategory(row.Category),
			PartNumber: strings.TrimSpace(row.PartNumber),
			WorkOrder:  strings.TrimSpace(row.WorkOrder),
			TaskCode:   strings.TrimSpace(row.TaskCode),
			Notes:      strings.TrimSpace(row.Notes),
			CreatedAt:  im.clock().UTC(),
		}

		if err := store.ValidateTodo(&todo); err != nil {
			result.Invalid++
			im.sink.ImportRow(metrics.OutcomeInvalid)
			continue
		}

		key := store.CompositeKey(&todo)
		if seen[key] {
			result.Skipped++
			im.sink.ImportRow(metrics.OutcomeSkipped)
			continue
		}

		if err := im.todos.PutTodo(ctx, &todo); err != nil {
			return result, fmt.Errorf("persist todo %s: %w", todo.ID, err)
		}
		seen[key] = true
		result.Added++
		im.sink.ImportRow(metrics.OutcomeAdded)

		if _, err := im.saver.OnTodoSaved(ctx, &todo); err != nil {
			return result, fmt.Errorf("reconcile todo %s: %w", todo.ID, err)
		}
	}

	return result, nil
}

func parseRows(raw []byte, format Format) ([]importRow, error) {
	if format == FormatAuto {
		format = detectFormat(raw)
	}
	switch format {
	case FormatJSON:
		return parseJSONRows(raw)
	case FormatCSV:
		return parseCSVRows(raw)
	default:
		return nil, fmt.Errorf("%w: unknown import format %q", ErrBadFormat, format)
	}
}

// detectFormat treats input starting with '[' as a JSON array,
// everything else as CSV.
func detectFormat(raw []byte) Format {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatCSV
}

func parseJSONRows(raw []byte) ([]importRow, error) {
	var rows []importRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return rows, nil
}

// parseCSVRows reads rows of the form
//
//	category?,workOrder,taskCode,partNumber,notes
//
// The category column is optional: when the first column is not a
// recognized category value, all columns shift left and the category
// defaults.
func parseCSVRows(raw []byte) ([]importRow, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	var rows []importRow
	for _, fields := range records {
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		var row importRow
		if store.Category(strings.ToUpper(strings.TrimSpace(at(fields, 0)))).Valid() {
			row.Category = strings.ToUpper(strings.TrimSpace(fields[0]))
			row.WorkOrder = at(fields, 1)
			row.TaskCode = at(fields, 2)
			row.PartNumber = at(fields, 3)
			row.Notes = at(fields, 4)
		} else {
			row.WorkOrder = at(fields, 0)
			row.TaskCode = at(fields, 1)
			row.PartNumber = at(fields, 2)
			row.Notes = at(fields, 3)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func at(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func normalizeCategory(raw string) store.Category {
	c := store.Category(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Valid() {
		return store.DefaultCategory()
	}
	return c
}
