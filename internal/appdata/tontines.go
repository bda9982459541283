package appdata

import (
	"context"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
	"xaalis/internal/log"
)

func tontineID(t core.Tontine) uuid.UUID { return t.ID }

// CreateTontine starts a group at turn zero. Every initial member gets an id
// and keeps the payment flag it was given.
func (s *Store) CreateTontine(ctx context.Context, in core.NewTontine) core.Tontine {
	t := core.Tontine{
		ID:      s.newID(),
		Name:    in.Name,
		Icon:    in.Icon,
		Amount:  in.Amount,
		Cycle:   in.Cycle,
		Members: make([]core.TontineMember, 0, len(in.Members)),
		History: []core.TontineHistoryEntry{},
		Created: core.DateOf(s.now()),
	}
	for _, m := range in.Members {
		t.Members = append(t.Members, core.TontineMember{
			ID:      s.newID(),
			Name:    m.Name,
			Amount:  m.Amount,
			HasPaid: m.HasPaid,
		})
	}

	s.mu.Lock()
	s.tontines = prepend(s.tontines, t)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentTontine, log.OpCreate, core.Applied,
		log.NewFields().WithID(t.ID.String()).With("members", len(t.Members)))
	s.emit(ctx, events.TontineCreated, t.ID, events.TontinePayload{TontineID: t.ID, Name: t.Name, Members: len(t.Members)})
	return t.Clone()
}

func (s *Store) DeleteTontine(ctx context.Context, id uuid.UUID) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.tontines, id, tontineID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentTontine, log.OpDelete, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	t := s.tontines[i]
	s.tontines = remove(s.tontines, i)
	s.mu.Unlock()

	s.trace(ctx, log.ComponentTontine, log.OpDelete, core.Applied, log.NewFields().WithID(id.String()))
	s.emit(ctx, events.TontineDeleted, id, events.TontinePayload{TontineID: id, Name: t.Name, Members: len(t.Members)})
	return core.Applied
}

// AddMember appends a member who has not paid yet. Names need not be unique.
func (s *Store) AddMember(ctx context.Context, tontine uuid.UUID, name string, amount core.Money) (core.TontineMember, core.Outcome) {
	m := core.TontineMember{ID: s.newID(), Name: name, Amount: amount}

	s.mu.Lock()
	i := indexOf(s.tontines, tontine, tontineID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentTontine, log.OpAddMember, core.NotFound, log.NewFields().With(log.FieldTontineID, tontine.String()))
		return core.TontineMember{}, core.NotFound
	}
	s.tontines[i].Members = append(s.tontines[i].Members, m)
	s.mu.Unlock()

	s.memberChanged(ctx, tontine, log.OpAddMember, []core.TontineMember{m})
	return m, core.Applied
}

// SetMemberAmount changes what one member contributes per turn.
func (s *Store) SetMemberAmount(ctx context.Context, tontine, member uuid.UUID, amount core.Money) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpSetAmount, byID(member), func(m *core.TontineMember) {
		m.Amount = amount
	})
}

// SetMemberAmountByName changes the contribution of every member named name.
func (s *Store) SetMemberAmountByName(ctx context.Context, tontine uuid.UUID, name string, amount core.Money) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpSetAmount, byName(name), func(m *core.TontineMember) {
		m.Amount = amount
	})
}

// MarkPaid flags the member as paid for the current turn. Marking twice is harmless.
func (s *Store) MarkPaid(ctx context.Context, tontine, member uuid.UUID) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpMarkPaid, byID(member), setPaid(true))
}

func (s *Store) MarkPaidByName(ctx context.Context, tontine uuid.UUID, name string) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpMarkPaid, byName(name), setPaid(true))
}

func (s *Store) MarkUnpaid(ctx context.Context, tontine, member uuid.UUID) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpMarkUnpaid, byID(member), setPaid(false))
}

func (s *Store) MarkUnpaidByName(ctx context.Context, tontine uuid.UUID, name string) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpMarkUnpaid, byName(name), setPaid(false))
}

// EditMember renames the member and sets its contribution. The payment flag is kept.
func (s *Store) EditMember(ctx context.Context, tontine, member uuid.UUID, name string, amount core.Money) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpEditMember, byID(member), func(m *core.TontineMember) {
		m.Name = name
		m.Amount = amount
	})
}

// EditMemberByName applies the edit to every member currently named oldName.
func (s *Store) EditMemberByName(ctx context.Context, tontine uuid.UUID, oldName, newName string, amount core.Money) core.Outcome {
	return s.updateMembers(ctx, tontine, log.OpEditMember, byName(oldName), func(m *core.TontineMember) {
		m.Name = newName
		m.Amount = amount
	})
}

func (s *Store) RemoveMember(ctx context.Context, tontine, member uuid.UUID) core.Outcome {
	return s.removeMembers(ctx, tontine, byID(member))
}

// RemoveMemberByName drops every member named name.
func (s *Store) RemoveMemberByName(ctx context.Context, tontine uuid.UUID, name string) core.Outcome {
	return s.removeMembers(ctx, tontine, byName(name))
}

// AdvanceTurn closes the turn in progress: it records every member's payment
// state in the history, moves both counters forward and clears the payment
// flags. The four steps are applied in that order under a single lock hold.
func (s *Store) AdvanceTurn(ctx context.Context, id uuid.UUID) core.Outcome {
	today := core.DateOf(s.now())

	s.mu.Lock()
	i := indexOf(s.tontines, id, tontineID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentTontine, log.OpAdvanceTurn, core.NotFound, log.NewFields().WithID(id.String()))
		return core.NotFound
	}
	t := &s.tontines[i]
	entry := core.TontineHistoryEntry{
		Turn:    t.NextTurn(),
		Date:    today,
		Amounts: t.Snapshot(),
	}
	t.History = append(t.History, entry)
	t.CurrentTurn++
	t.Turns++
	for j := range t.Members {
		t.Members[j].HasPaid = false
	}
	name, cycle := t.Name, t.Cycle
	entry = entry.Clone()
	s.mu.Unlock()

	s.trace(ctx, log.ComponentTontine, log.OpAdvanceTurn, core.Applied,
		log.NewFields().WithID(id.String()).With(log.FieldTurn, entry.Turn).WithAmount(entry.Collected().Francs))
	s.emit(ctx, events.TontineTurnAdvanced, id, events.TurnAdvancedPayload{
		TontineID:   id,
		TontineName: name,
		Cycle:       cycle,
		Entry:       entry,
	})
	return core.Applied
}

func (s *Store) Tontines() []core.Tontine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTontines(s.tontines)
}

func (s *Store) Tontine(id uuid.UUID) (core.Tontine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.tontines, id, tontineID); i >= 0 {
		return s.tontines[i].Clone(), true
	}
	return core.Tontine{}, false
}

type memberMatch func(core.TontineMember) bool

func byID(id uuid.UUID) memberMatch {
	return func(m core.TontineMember) bool { return m.ID == id }
}

func byName(name string) memberMatch {
	return func(m core.TontineMember) bool { return m.Name == name }
}

func setPaid(paid bool) func(*core.TontineMember) {
	return func(m *core.TontineMember) { m.HasPaid = paid }
}

// updateMembers applies fn to every member of the tontine accepted by match.
// Nothing changes unless both the tontine and at least one member exist.
func (s *Store) updateMembers(ctx context.Context, tontine uuid.UUID, op string, match memberMatch, fn func(*core.TontineMember)) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.tontines, tontine, tontineID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentTontine, op, core.NotFound, log.NewFields().With(log.FieldTontineID, tontine.String()))
		return core.NotFound
	}
	var changed []core.TontineMember
	members := s.tontines[i].Members
	for j := range members {
		if match(members[j]) {
			fn(&members[j])
			changed = append(changed, members[j])
		}
	}
	s.mu.Unlock()

	if len(changed) == 0 {
		s.trace(ctx, log.ComponentTontine, op, core.NotFound, log.NewFields().With(log.FieldTontineID, tontine.String()))
		return core.NotFound
	}
	s.memberChanged(ctx, tontine, op, changed)
	return core.Applied
}

func (s *Store) removeMembers(ctx context.Context, tontine uuid.UUID, match memberMatch) core.Outcome {
	s.mu.Lock()
	i := indexOf(s.tontines, tontine, tontineID)
	if i < 0 {
		s.mu.Unlock()
		s.trace(ctx, log.ComponentTontine, log.OpRemoveMember, core.NotFound, log.NewFields().With(log.FieldTontineID, tontine.String()))
		return core.NotFound
	}
	kept := make([]core.TontineMember, 0, len(s.tontines[i].Members))
	var removed []core.TontineMember
	for _, m := range s.tontines[i].Members {
		if match(m) {
			removed = append(removed, m)
			continue
		}
		kept = append(kept, m)
	}
	if len(removed) > 0 {
		s.tontines[i].Members = kept
	}
	s.mu.Unlock()

	if len(removed) == 0 {
		s.trace(ctx, log.ComponentTontine, log.OpRemoveMember, core.NotFound, log.NewFields().With(log.FieldTontineID, tontine.String()))
		return core.NotFound
	}
	s.memberChanged(ctx, tontine, log.OpRemoveMember, removed)
	return core.Applied
}

func (s *Store) memberChanged(ctx context.Context, tontine uuid.UUID, op string, members []core.TontineMember) {
	for _, m := range members {
		s.trace(ctx, log.ComponentTontine, op, core.Applied,
			log.NewFields().With(log.FieldTontineID, tontine.String()).
				With(log.FieldMemberID, m.ID.String()).
				With(log.FieldMemberName, m.Name))
		s.emit(ctx, events.TontineMemberChanged, tontine, events.MemberChangedPayload{
			TontineID: tontine,
			Operation: op,
			Member:    m,
		})
	}
}
