package table

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"datachat-resultview/internal/format"
	"datachat-resultview/internal/model"
)

var ErrUnknownColumn = errors.New("unknown column")

// ViewState is created fresh for every dataset. SearchTerm follows every
// keystroke; only DebouncedSearchTerm filters rows.
type ViewState struct {
	SortColumn          string    `json:"sortColumn,omitempty"`
	SortDirection       Direction `json:"sortDirection"`
	SearchTerm          string    `json:"searchTerm"`
	DebouncedSearchTerm string    `json:"debouncedSearchTerm"`
}

// EmptyState tells "nothing came back" apart from "nothing matches".
type EmptyState string

const (
	NotEmpty  EmptyState = ""
	NoData    EmptyState = "no_data"
	NoMatches EmptyState = "no_matches"
)

type Options struct {
	RowHeight float64
	Overscan  int
	Debounce  time.Duration
}

func DefaultOptions() Options {
	return Options{
		RowHeight: DefaultRowHeight,
		Overscan:  DefaultOverscan,
		Debounce:  DefaultSearchDebounce,
	}
}

// Engine runs filter -> sort -> window over one dataset. It is safe for
// concurrent use.
type Engine struct {
	mu        sync.RWMutex
	rows      []model.Record
	columns   []model.Column
	state     ViewState
	opts      Options
	debouncer *Debouncer

	view  []model.Record
	stale bool
}

func NewEngine(rows []model.Record, columns []model.Column, opts Options) *Engine {
	if len(columns) == 0 {
		columns = []model.Column{{Key: model.ValueColumn, Label: format.Header(model.ValueColumn), Kind: model.KindText}}
	}
	return &Engine{
		rows:      rows,
		columns:   columns,
		state:     ViewState{SortDirection: Asc},
		opts:      opts,
		debouncer: NewDebouncer(opts.Debounce),
		stale:     true,
	}
}

func (e *Engine) Columns() []model.Column {
	return e.columns
}

func (e *Engine) State() ViewState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetSearchTerm records the term now and applies it to filtering after the
// debounce delay.
func (e *Engine) SetSearchTerm(term string) {
	e.mu.Lock()
	e.state.SearchTerm = term
	e.mu.Unlock()

	e.debouncer.Submit(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.state.DebouncedSearchTerm != term {
			e.state.DebouncedSearchTerm = term
			e.stale = true
		}
	})
}

// FlushSearch applies a pending search term immediately.
func (e *Engine) FlushSearch() {
	e.debouncer.Flush()
}

// ToggleSort mimics a header click: the same column flips direction, a new
// column starts ascending.
func (e *Engine) ToggleSort(key string) error {
	if _, ok := model.FindColumn(e.columns, key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.SortColumn == key {
		if e.state.SortDirection == Asc {
			e.state.SortDirection = Desc
		} else {
			e.state.SortDirection = Asc
		}
	} else {
		e.state.SortColumn = key
		e.state.SortDirection = Asc
	}
	e.stale = true
	return nil
}

func (e *Engine) SetSort(key string, dir Direction) error {
	if _, ok := model.FindColumn(e.columns, key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SortColumn = key
	e.state.SortDirection = dir
	e.stale = true
	return nil
}

// Rows returns the filtered and sorted rows. The result is cached until the
// sort or the debounced search changes.
func (e *Engine) Rows() []model.Record {
	e.mu.RLock()
	if !e.stale {
		v := e.view
		e.mu.RUnlock()
		return v
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		filtered := Filter(e.rows, e.state.DebouncedSearchTerm)
		if col, ok := model.FindColumn(e.columns, e.state.SortColumn); ok {
			filtered = Sort(filtered, col, e.state.SortDirection)
		}
		e.view = filtered
		e.stale = false
	}
	return e.view
}

func (e *Engine) TotalCount() int { return len(e.rows) }

func (e *Engine) FilteredCount() int { return len(e.Rows()) }

// Window returns the range to materialize and the rows inside it.
func (e *Engine) Window(scrollTop, viewportHeight float64) (Window, []model.Record) {
	rows := e.Rows()
	w := ComputeWindow(len(rows), e.opts.RowHeight, e.opts.Overscan, scrollTop, viewportHeight)
	return w, rows[w.Start:w.End]
}

func (e *Engine) EmptyState() EmptyState {
	if len(e.rows) == 0 {
		return NoData
	}
	if len(e.Rows()) == 0 {
		return NoMatches
	}
	return NotEmpty
}

// Close drops a pending search.
func (e *Engine) Close() {
	e.debouncer.Stop()
}
