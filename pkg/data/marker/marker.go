package marker

import (
	"time"

	"github.com/pkg/errors"
)

// Record marks an address as initialized. It is created once and never
// updated or deleted.
type Record struct {
	Id uint64

	Address string

	InitializedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}
	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Address: r.Address,

		InitializedAt: r.InitializedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address

	dst.InitializedAt = r.InitializedAt
}
