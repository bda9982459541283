package appdata

import (
	"context"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
	"xaalis/internal/log"
)

func categoryID(c core.Category) uuid.UUID { return c.ID }

// AddCategory registers a user category. Seed categories only come in through Restore.
func (s *Store) AddCategory(ctx context.Context, in core.NewCategory) core.Category {
	c := core.Category{
		ID:        s.newID(),
		Name:      in.Name,
		Icon:      in.Icon,
		Color:     in.Color,
		Type:      in.Type,
		IsDefault: false,
	}

	s.mu.Lock()
	s.categories = prepend(s.categories, c)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentCategories, log.OpCreate, core.Applied,
		log.NewFields().WithID(c.ID.String()).With(log.FieldCategory, c.Name))
	s.emit(ctx, events.CategoryAdded, c.ID, events.CategoryPayload{Category: c})
	return c
}

// UpdateCategory merges patch into the category. Renaming does not touch
// transactions that referenced the old name.
func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, patch core.CategoryPatch) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.categories, id, categoryID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentCategories, log.OpUpdate, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	patch.Apply(&s.categories[i])
	c := s.categories[i]
	s.mu.Unlock()

	s.trace(ctx, log.ComponentCategories, log.OpUpdate, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.CategoryUpdated, id, events.CategoryPayload{Category: c})
	return core.Applied
}

// DeleteCategory removes the category and relabels every transaction that
// referenced it by name as core.Uncategorized. Both steps happen under one
// lock hold.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.categories, id, categoryID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentCategories, log.OpDelete, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	name := s.categories[i].Name
	s.categories = remove(s.categories, i)
	rewritten := 0
	for j := range s.transactions {
		if s.transactions[j].Category == name {
			s.transactions[j].Category = core.Uncategorized
			rewritten++
		}
	}
	s.mu.Unlock()

	s.trace(ctx, log.ComponentCategories, log.OpDelete, core.Applied,
		log.NewFields().WithID(id.String()).With(log.FieldCategory, name).With(log.FieldRewritten, rewritten))
	s.emit(ctx, events.CategoryDeleted, id, events.CategoryDeletedPayload{Name: name, Rewritten: rewritten})
	return core.Applied
}

func (s *Store) Categories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...)
}

// CategoriesOf lists the categories usable for transactions of direction d.
func (s *Store) CategoriesOf(d core.Direction) []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.categories {
		if c.Type == d {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) Category(id uuid.UUID) (core.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.categories, id, categoryID); i >= 0 {
		return s.categories[i], true
	}
	return core.Category{}, false
}
