package kernel

import (
	"errors"
	"strings"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when a zero-value Address is used.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress constructor")

const maxAddressPartLength = 255

// Address is the structured delivery destination of an order. All parts are
// required; surrounding whitespace is trimmed.
//
// Example:
//
//	addr, err := kernel.NewAddress(districtID, "Old Town", "12 Baker St, apt 4")
type Address struct { //nolint:recvcheck //using for validation
	districtID   UUID
	neighborhood string
	street       string
	guard        guard.ConstructorGuard
}

// NewAddress validates and creates an Address.
func NewAddress(districtID UUID, neighborhood, street string) (Address, error) {
	addr := Address{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		addr.setDistrictID(districtID),
		addr.setNeighborhood(neighborhood),
		addr.setStreet(street),
	); err != nil {
		return Address{}, err
	}

	return addr, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// DistrictID identifies the delivery zone.
func (a Address) DistrictID() UUID {
	return a.districtID
}

func (a Address) Neighborhood() string {
	return a.neighborhood
}

// Street holds the free-form street detail (street, building, apartment).
func (a Address) Street() string {
	return a.street
}

func (a Address) String() string {
	return a.street + ", " + a.neighborhood
}

func (a *Address) setDistrictID(id UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("district", err)
	}
	a.districtID = id
	return nil
}

func (a *Address) setNeighborhood(neighborhood string) error {
	neighborhood = strings.TrimSpace(neighborhood)
	if neighborhood == "" {
		return errs.NewValueIsRequiredError("neighborhood")
	}
	if len(neighborhood) > maxAddressPartLength {
		return errs.NewValueIsOutOfRangeError("neighborhood length", len(neighborhood), 1, maxAddressPartLength)
	}
	a.neighborhood = neighborhood
	return nil
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	if len(street) > maxAddressPartLength {
		return errs.NewValueIsOutOfRangeError("street length", len(street), 1, maxAddressPartLength)
	}
	a.street = street
	return nil
}
