package sdk

import (
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/meadowlabs/custody/custody"
	"github.com/meadowlabs/custody/pkg/entity"
)

// Readers for fetched account data. Each takes the full account bytes
// as returned by an RPC GetAccountInfo call and rejects anything whose
// length or discriminant does not match the expected layout.

func DeserializePool(data []byte) (*custody.StakePoolState, error) {
	body, err := entityBody(custody.TypeStakePool, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool account: %w", err)
	}
	state := new(custody.StakePoolState)
	if err := bin.NewBorshDecoder(body).Decode(state); err != nil {
		return nil, fmt.Errorf("failed to deserialize pool state: %w", err)
	}
	return state, nil
}

func DeserializeTicket(data []byte) (*custody.StakerTicketState, error) {
	body, err := entityBody(custody.TypeStakerTicket, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket account: %w", err)
	}
	state := new(custody.StakerTicketState)
	if err := bin.NewBorshDecoder(body).Decode(state); err != nil {
		return nil, fmt.Errorf("failed to deserialize ticket state: %w", err)
	}
	return state, nil
}

func DeserializeLock(data []byte) (*custody.TokenLockState, error) {
	body, err := entityBody(custody.TypeTokenLock, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read locker account: %w", err)
	}
	state := new(custody.TokenLockState)
	if err := bin.NewBorshDecoder(body).Decode(state); err != nil {
		return nil, fmt.Errorf("failed to deserialize locker state: %w", err)
	}
	return state, nil
}

func entityBody(typ entity.Type, data []byte) ([]byte, error) {
	if len(data) != typ.Size() {
		return nil, fmt.Errorf("account data is %d bytes, want %d", len(data), typ.Size())
	}
	if typ.HeaderLen > 0 {
		var header entity.Header
		if err := bin.NewBorshDecoder(data[:typ.HeaderLen]).Decode(&header); err != nil {
			return nil, fmt.Errorf("failed to deserialize header: %w", err)
		}
		if header.Kind != typ.Kind {
			return nil, fmt.Errorf("account kind is %d, want %d", header.Kind, typ.Kind)
		}
	}
	return data[typ.HeaderLen:], nil
}
