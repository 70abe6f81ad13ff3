package ledger

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// MaxBalance is the largest balance any ledger account can hold
const MaxBalance = uint64(math.MaxInt64)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNative
	KindMint
	KindToken
)

// Record is a ledger account. Native accounts hold lamports, mints describe a
// token and token accounts hold a balance of a single mint on behalf of an
// owner.
type Record struct {
	Id uint64

	Address string
	Kind    Kind

	// Token accounts only
	Mint     string
	Owner    string
	Delegate string

	// Mints and token accounts
	Decimals uint8

	Balance  uint64
	IsFrozen bool

	LastUpdatedAt time.Time
	CreatedAt     time.Time
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	if r.Balance > MaxBalance {
		return errors.New("balance exceeds max balance")
	}

	switch r.Kind {
	case KindNative:
		if len(r.Mint) > 0 || len(r.Owner) > 0 || len(r.Delegate) > 0 {
			return errors.New("native accounts cannot have token fields")
		}
	case KindMint:
		if len(r.Mint) > 0 || len(r.Owner) > 0 || len(r.Delegate) > 0 {
			return errors.New("mints cannot have token account fields")
		}
		if r.Balance > 0 {
			return errors.New("mints cannot hold a balance")
		}
	case KindToken:
		if len(r.Mint) == 0 {
			return errors.New("mint is required")
		}
		if len(r.Owner) == 0 {
			return errors.New("owner is required")
		}
		if r.Mint == r.Address {
			return errors.New("token account cannot be its own mint")
		}
	default:
		return errors.Errorf("invalid account kind: %d", r.Kind)
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Address: r.Address,
		Kind:    r.Kind,

		Mint:     r.Mint,
		Owner:    r.Owner,
		Delegate: r.Delegate,

		Decimals: r.Decimals,

		Balance:  r.Balance,
		IsFrozen: r.IsFrozen,

		LastUpdatedAt: r.LastUpdatedAt,
		CreatedAt:     r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address
	dst.Kind = r.Kind

	dst.Mint = r.Mint
	dst.Owner = r.Owner
	dst.Delegate = r.Delegate

	dst.Decimals = r.Decimals

	dst.Balance = r.Balance
	dst.IsFrozen = r.IsFrozen

	dst.LastUpdatedAt = r.LastUpdatedAt
	dst.CreatedAt = r.CreatedAt
}

// IsAuthority returns whether the address may move funds out of the token
// account
func (r *Record) IsAuthority(address string) bool {
	if len(address) == 0 {
		return false
	}
	return r.Owner == address || r.Delegate == address
}

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindMint:
		return "mint"
	case KindToken:
		return "token"
	}
	return "unknown"
}
