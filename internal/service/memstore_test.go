package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// memStore is an in-memory Store used to exercise the engines without a
// database. InTx snapshots all state before running fn and restores the
// snapshot when fn fails, mirroring transactional rollback.
type memStore struct {
	tickets     map[uint64]*model.ServiceTicket
	parts       map[uint64]*model.Part
	mechanics   map[uint64]*model.Mechanic
	lines       map[uint64]*model.TicketPart
	assignments map[[2]uint64]bool // [ticketID, mechanicID]
	nextLineID  uint64
}

func newMemStore() *memStore {
	return &memStore{
		tickets:     map[uint64]*model.ServiceTicket{},
		parts:       map[uint64]*model.Part{},
		mechanics:   map[uint64]*model.Mechanic{},
		lines:       map[uint64]*model.TicketPart{},
		assignments: map[[2]uint64]bool{},
	}
}

func (s *memStore) addTicket(t model.ServiceTicket) { s.tickets[t.ID] = &t }
func (s *memStore) addPart(p model.Part)            { s.parts[p.ID] = &p }
func (s *memStore) addMechanic(m model.Mechanic)    { s.mechanics[m.ID] = &m }

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	c.nextLineID = s.nextLineID
	for k, v := range s.tickets {
		t := *v
		if v.Price != nil {
			p := *v.Price
			t.Price = &p
		}
		if v.PartsSummary != nil {
			sm := *v.PartsSummary
			t.PartsSummary = &sm
		}
		c.tickets[k] = &t
	}
	for k, v := range s.parts {
		p := *v
		c.parts[k] = &p
	}
	for k, v := range s.mechanics {
		m := *v
		c.mechanics[k] = &m
	}
	for k, v := range s.lines {
		l := *v
		c.lines[k] = &l
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.tickets = snap.tickets
	s.parts = snap.parts
	s.mechanics = snap.mechanics
	s.lines = snap.lines
	s.assignments = snap.assignments
	s.nextLineID = snap.nextLineID
}

func (s *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	snap := s.snapshot()
	if err := fn((*memTx)(s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memTx memStore

func (tx *memTx) TicketForUpdate(_ context.Context, id uint64) (*model.ServiceTicket, error) {
	t, ok := tx.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	if t.Price != nil {
		p := *t.Price
		cp.Price = &p
	}
	if t.PartsSummary != nil {
		sm := *t.PartsSummary
		cp.PartsSummary = &sm
	}
	return &cp, nil
}

func (tx *memTx) PartForUpdate(_ context.Context, id uint64) (*model.Part, error) {
	p, ok := tx.parts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (tx *memTx) Mechanic(_ context.Context, id uint64) (*model.Mechanic, error) {
	m, ok := tx.mechanics[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (tx *memTx) TicketPart(_ context.Context, ticketID, partID uint64) (*model.TicketPart, error) {
	for _, l := range tx.lines {
		if l.ServiceTicketID == ticketID && l.PartID == partID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (tx *memTx) InsertTicketPart(_ context.Context, tp *model.TicketPart) error {
	tx.nextLineID++
	tp.ID = tx.nextLineID
	cp := *tp
	tx.lines[tp.ID] = &cp
	return nil
}

func (tx *memTx) UpdateTicketPartQuantity(_ context.Context, id uint64, quantity uint32) error {
	tx.lines[id].Quantity = quantity
	return nil
}

func (tx *memTx) DeleteTicketPart(_ context.Context, id uint64) error {
	delete(tx.lines, id)
	return nil
}

func (tx *memTx) TicketPartLines(_ context.Context, ticketID uint64) ([]model.TicketPartLine, error) {
	ids := make([]uint64, 0, len(tx.lines))
	for id, l := range tx.lines {
		if l.ServiceTicketID == ticketID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.TicketPartLine, 0, len(ids))
	for _, id := range ids {
		l := tx.lines[id]
		out = append(out, model.TicketPartLine{
			PartID:   l.PartID,
			PartName: tx.parts[l.PartID].PartName,
			Quantity: l.Quantity,
		})
	}
	return out, nil
}

func (tx *memTx) UpdatePartStock(_ context.Context, id uint64, stock uint32) error {
	tx.parts[id].Stock = stock
	return nil
}

func (tx *memTx) UpdateTicketReconciled(_ context.Context, id uint64, price decimal.Decimal, summary *string) error {
	t := tx.tickets[id]
	p := price
	t.Price = &p
	t.PartsSummary = summary
	return nil
}

func (tx *memTx) IsMechanicAssigned(_ context.Context, ticketID, mechanicID uint64) (bool, error) {
	return tx.assignments[[2]uint64{ticketID, mechanicID}], nil
}

func (tx *memTx) AddMechanicAssignment(_ context.Context, ticketID, mechanicID uint64) error {
	tx.assignments[[2]uint64{ticketID, mechanicID}] = true
	return nil
}

func (tx *memTx) RemoveMechanicAssignment(_ context.Context, ticketID, mechanicID uint64) error {
	delete(tx.assignments, [2]uint64{ticketID, mechanicID})
	return nil
}

func (tx *memTx) CountMechanicAssignments(_ context.Context, ticketID uint64) (int, error) {
	n := 0
	for k := range tx.assignments {
		if k[0] == ticketID {
			n++
		}
	}
	return n, nil
}

func (tx *memTx) UpdateTicketStatus(_ context.Context, id uint64, status string) error {
	tx.tickets[id].Status = status
	return nil
}

var _ Store = (*memStore)(nil)
