package custody

import (
	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/cmath"
	"github.com/meadowlabs/custody/pkg/entity"
	"github.com/meadowlabs/custody/pkg/ledger"
)

// Ticket is a validated staker ticket with its decoded body. A fresh
// ticket exists only in memory until save writes its header and body.
type Ticket struct {
	ent    *entity.Entity
	acc    ledger.MutableAccount
	header entity.Header
	State  StakerTicketState
	fresh  bool
}

// loadTicket binds an existing ticket belonging to pool.
func (p *Processor) loadTicket(pool *Pool, acc ledger.MutableAccount) (*Ticket, error) {
	ent, err := entity.Initialized(p.rt, TypeStakerTicket, p.programID, acc)
	if err != nil {
		return nil, err
	}
	header, err := ent.Header()
	if err != nil {
		return nil, err
	}
	if !header.IsChildOf(pool.header) {
		return nil, entity.ErrInvalidAccount
	}
	t := &Ticket{ent: ent, acc: acc, header: header}
	if err := decodeState(ent.Body(), &t.State); err != nil {
		return nil, err
	}
	return t, nil
}

// loadOrInitTicket binds an existing ticket or claims a blank account
// as a new ticket for authorityKey. A ticket is created once per
// staker and reused for every later deposit.
func (p *Processor) loadOrInitTicket(pool *Pool, authorityKey solana.PublicKey, acc ledger.MutableAccount) (*Ticket, error) {
	ent, err := entity.Any(p.rt, TypeStakerTicket, p.programID, acc)
	if err != nil {
		return nil, err
	}
	header, err := ent.Header()
	if err != nil {
		return nil, err
	}

	switch header.Kind {
	case entity.KindStakerTicket:
		if !header.IsChildOf(pool.header) {
			return nil, entity.ErrInvalidAccount
		}
		t := &Ticket{ent: ent, acc: acc, header: header}
		if err := decodeState(ent.Body(), &t.State); err != nil {
			return nil, err
		}
		return t, nil

	case entity.KindNone:
		if _, err := entity.Blank(p.rt, TypeStakerTicket, p.programID, acc); err != nil {
			return nil, err
		}
		return &Ticket{
			ent: ent,
			acc: acc,
			header: entity.Header{
				Root:     pool.header.Root,
				ParentID: pool.header.ID,
				Kind:     entity.KindStakerTicket,
			},
			State: StakerTicketState{Authority: authorityKey},
			fresh: true,
		}, nil

	default:
		return nil, entity.ErrInvalidAccount
	}
}

func (t *Ticket) save() error {
	if t.fresh {
		if err := t.ent.SetHeader(t.header); err != nil {
			return err
		}
		t.fresh = false
	}
	return encodeState(t.ent.Body(), &t.State)
}

// collect sweeps a drained ticket's entire native balance to the
// beneficiary, reclaiming the storage deposit. Advisory: returns false
// without side effects while the ticket still has staked funds.
func (t *Ticket) collect(beneficiary ledger.MutableAccount) bool {
	if t.State.StakedAmount != 0 {
		return false
	}
	beneficiary.SetLamports(cmath.Add(beneficiary.Lamports(), t.acc.Lamports()))
	t.acc.SetLamports(0)
	return true
}
