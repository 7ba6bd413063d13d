// Package view holds the client-side state of the price list: the fetched rows, the
// single in-place edit, the sort order and the search filter.
package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pricelist/internal/apperr"
	"pricelist/internal/models"
)

// API is the subset of the catalog API the view needs.
type API interface {
	ListProducts(ctx context.Context, page models.Page) ([]models.Product, error)
	SearchProducts(ctx context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, req models.UpdateProductRequest) (*models.Product, error)
}

var (
	ErrUnsavedEdit    = errors.New("the current cell has unsaved changes")
	ErrNotEditing     = errors.New("no cell is being edited")
	ErrSaveInProgress = errors.New("a save is in progress")
	ErrUnknownProduct = errors.New("unknown product")
)

// CellState is the edit state of a cell.
type CellState int

const (
	StateIdle CellState = iota
	StateEditing
	StateSaving
)

func (s CellState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return "idle"
	}
}

// Cell addresses one field of one product.
type Cell struct {
	ProductID uint
	Field     Field
}

// Edit describes the cell currently being edited.
type Edit struct {
	Cell     Cell
	Original string
	Value    string
	State    CellState
}

// Dirty reports whether the edit holds a change not yet saved.
func (e Edit) Dirty() bool {
	return e.Value != e.Original
}

// Model is the view state. It is safe for concurrent use; network calls are made
// without holding the lock.
type Model struct {
	api API

	mu        sync.Mutex
	products  []models.Product
	filter    models.ProductFilter
	applied   models.ProductFilter
	sortField Field
	sortDir   Direction
	edit      *Edit
	err       string
	loading   bool
	seq       uint64
}

// NewModel creates an empty model backed by api.
func NewModel(api API) *Model {
	return &Model{api: api, products: []models.Product{}}
}

// Load fetches the full catalog, dropping any applied search.
func (m *Model) Load(ctx context.Context) error {
	return m.fetch(ctx, models.ProductFilter{})
}

// SetSearch stores the search inputs without querying.
func (m *Model) SetSearch(articleNo, productName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = models.ProductFilter{ArticleNo: articleNo, ProductName: productName}
}

// Search runs the stored search. An empty search lists the whole catalog.
func (m *Model) Search(ctx context.Context) error {
	m.mu.Lock()
	filter := m.filter
	m.mu.Unlock()
	return m.fetch(ctx, filter)
}

// ClearSearch empties the search inputs and reloads the catalog.
func (m *Model) ClearSearch(ctx context.Context) error {
	m.SetSearch("", "")
	return m.Load(ctx)
}

// Filter returns the search inputs.
func (m *Model) Filter() models.ProductFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

// fetch replaces the rows with the result of a list or search. Responses to requests
// superseded by a later fetch are discarded.
func (m *Model) fetch(ctx context.Context, filter models.ProductFilter) error {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.loading = true
	m.mu.Unlock()

	var (
		products []models.Product
		err      error
	)
	if filter.IsEmpty() {
		products, err = m.api.ListProducts(ctx, models.Page{})
	} else {
		products, err = m.api.SearchProducts(ctx, filter, models.Page{})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		return nil
	}
	m.loading = false
	if err != nil {
		m.err = apperr.MessageOf(err)
		return err
	}

	if products == nil {
		products = []models.Product{}
	}
	m.products = products
	m.applied = filter
	m.err = ""
	if m.edit != nil && m.indexOf(m.edit.Cell.ProductID) < 0 {
		m.edit = nil
	}
	return nil
}

// SortBy sorts by field. Choosing the active field flips the direction; a new field
// starts ascending.
func (m *Model) SortBy(field Field) error {
	if field != FieldID && !field.Editable() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sortField == field {
		if m.sortDir == Ascending {
			m.sortDir = Descending
		} else {
			m.sortDir = Ascending
		}
		return nil
	}
	m.sortField = field
	m.sortDir = Ascending
	return nil
}

// SortOrder returns the active sort field and direction. The field is empty until
// SortBy is first called.
func (m *Model) SortOrder() (Field, Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortField, m.sortDir
}

// Rows returns the products in display order.
func (m *Model) Rows() []models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Sort(m.products, m.sortField, m.sortDir)
}

// Click starts editing cell. Clicking the cell already being edited does nothing.
// Leaving a cell with an unsaved change is refused with ErrUnsavedEdit.
func (m *Model) Click(cell Cell) error {
	if !cell.Field.Editable() {
		return fmt.Errorf("%w: %q is not editable", ErrUnknownField, cell.Field)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.edit != nil {
		if m.edit.State == StateSaving {
			return ErrSaveInProgress
		}
		if m.edit.Cell == cell {
			return nil
		}
		if m.edit.Dirty() {
			return ErrUnsavedEdit
		}
	}

	i := m.indexOf(cell.ProductID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownProduct, cell.ProductID)
	}
	original := Value(m.products[i], cell.Field)
	m.edit = &Edit{Cell: cell, Original: original, Value: original, State: StateEditing}
	return nil
}

// Input replaces the text of the cell being edited.
func (m *Model) Input(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit == nil {
		return ErrNotEditing
	}
	if m.edit.State == StateSaving {
		return ErrSaveInProgress
	}
	m.edit.Value = value
	return nil
}

// Commit saves the cell being edited. On success the row is replaced with the stored
// record and the cell returns to idle. On failure the error is shown and the edit stays
// open with the typed value.
func (m *Model) Commit(ctx context.Context) error {
	m.mu.Lock()
	if m.edit == nil {
		m.mu.Unlock()
		return ErrNotEditing
	}
	if m.edit.State == StateSaving {
		m.mu.Unlock()
		return ErrSaveInProgress
	}
	if !m.edit.Dirty() {
		m.edit = nil
		m.mu.Unlock()
		return nil
	}

	cell := m.edit.Cell
	req, err := updateFor(cell.Field, m.edit.Value)
	if err != nil {
		m.err = apperr.MessageOf(err)
		m.mu.Unlock()
		return err
	}
	if i := m.indexOf(cell.ProductID); i >= 0 && !m.products[i].UpdatedAt.IsZero() {
		expected := m.products[i].UpdatedAt
		req.ExpectedUpdatedAt = &expected
	}
	m.edit.State = StateSaving
	m.mu.Unlock()

	updated, err := m.api.UpdateProduct(ctx, cell.ProductID, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.err = apperr.MessageOf(err)
		if m.edit != nil && m.edit.Cell == cell {
			m.edit.State = StateEditing
		}
		return err
	}

	if i := m.indexOf(updated.ID); i >= 0 {
		m.products[i] = *updated
	}
	if m.edit != nil && m.edit.Cell == cell {
		m.edit = nil
	}
	return nil
}

// Cancel discards the edit and refetches the rows for the applied search.
func (m *Model) Cancel(ctx context.Context) error {
	m.mu.Lock()
	if m.edit == nil {
		m.mu.Unlock()
		return ErrNotEditing
	}
	if m.edit.State == StateSaving {
		m.mu.Unlock()
		return ErrSaveInProgress
	}
	m.edit = nil
	filter := m.applied
	m.mu.Unlock()

	return m.fetch(ctx, filter)
}

// NewProduct creates a product with default values and shows it first.
func (m *Model) NewProduct(ctx context.Context, articleNo, productName string) (*models.Product, error) {
	unit := models.DefaultUnit
	req := models.CreateProductRequest{
		ArticleNo:   strings.TrimSpace(articleNo),
		ProductName: strings.TrimSpace(productName),
		Unit:        &unit,
	}

	created, err := m.api.CreateProduct(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.err = apperr.MessageOf(err)
		return nil, err
	}
	m.products = append([]models.Product{*created}, m.products...)
	return created, nil
}

// Editing returns the current edit, if any.
func (m *Model) Editing() (Edit, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit == nil {
		return Edit{}, false
	}
	return *m.edit, true
}

// ErrorMessage returns the message shown in the error banner, or "".
func (m *Model) ErrorMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// DismissError hides the error banner.
func (m *Model) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = ""
}

// Loading reports whether the latest list or search is still in flight.
func (m *Model) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Model) indexOf(id uint) int {
	for i := range m.products {
		if m.products[i].ID == id {
			return i
		}
	}
	return -1
}
