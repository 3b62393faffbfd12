package entity

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Kind is the entity type discriminant stored in the header.
type Kind uint8

const (
	KindNone Kind = iota
	KindStakePool
	KindStakerTicket

	KindTokenLock Kind = 0x10
)

// HeaderLen is the space reserved for the header prefix of
// hierarchical schemas. The encoded header is shorter; the remainder
// of the prefix stays zero.
const HeaderLen = 96

// headerEncodedLen is the borsh size of Header: root 32 + id 8 +
// parent id 8 + kind 1.
const headerEncodedLen = 49

// Header links an entity into its hierarchy: the root entity's
// address, this entity's id and its parent's id within that root, and
// the type discriminant.
type Header struct {
	Root     solana.PublicKey
	ID       uint64
	ParentID uint64
	Kind     Kind
}

// IsChildOf reports whether this header records the other entity as
// its parent.
func (h Header) IsChildOf(parent Header) bool {
	return h.Root.Equals(parent.Root) && h.ParentID == parent.ID
}

// Header decodes the header prefix. Flat schemas have none and return
// an error.
func (e *Entity) Header() (Header, error) {
	if e.typ.HeaderLen == 0 {
		return Header{}, errNoHeader
	}
	var h Header
	dec := bin.NewBorshDecoder(e.acc.Data()[:headerEncodedLen])
	if err := dec.Decode(&h); err != nil {
		return Header{}, fmt.Errorf("entity: decode header: %w", err)
	}
	return h, nil
}

// SetHeader encodes h into the header prefix.
func (e *Entity) SetHeader(h Header) error {
	if e.typ.HeaderLen == 0 {
		return errNoHeader
	}
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(h); err != nil {
		return fmt.Errorf("entity: encode header: %w", err)
	}
	if buf.Len() != headerEncodedLen {
		return fmt.Errorf("entity: encoded header is %d bytes, want %d", buf.Len(), headerEncodedLen)
	}
	copy(e.acc.Data()[:headerEncodedLen], buf.Bytes())
	return nil
}
