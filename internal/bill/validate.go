package bill

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Validate turns a candidate into a bill, enforcing every record invariant.
// It is pure: the caller supplies the clock and assigns the ID.
func Validate(c Candidate, now time.Time, dueAfter time.Duration) (Bill, error) {
	name, err := validName(c.Name)
	if err != nil {
		return Bill{}, err
	}

	if !c.Amount.Valid {
		return Bill{}, ErrMissingAmount
	}

	amount, err := wholeAmount(c.Amount.Decimal)
	if err != nil {
		return Bill{}, err
	}

	status := c.Status
	if status == "" {
		status = StatusPending
	}

	if !status.Valid() {
		return Bill{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if !c.PaymentMethod.valid() {
		return Bill{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, c.PaymentMethod)
	}

	loc, err := pairLocation(c.Latitude, c.Longitude)
	if err != nil {
		return Bill{}, err
	}

	due := now.Add(dueAfter)
	if c.DueDate != nil {
		due = *c.DueDate
	}

	return Bill{
		Name:          name,
		Amount:        amount,
		Status:        status,
		PaymentMethod: c.PaymentMethod,
		DueDate:       due,
		PhoneNumber:   strings.TrimSpace(c.PhoneNumber),
		Address:       strings.TrimSpace(c.Address),
		PackageName:   strings.TrimSpace(c.PackageName),
		Notes:         c.Notes,
		Location:      loc,
		PhotoRef:      c.PhotoRef,
		CreatedAt:     now,
	}, nil
}

// applyPatch returns b with p merged in. Amount and coordinate pairing are
// re-validated against the merged result; ID, CreatedAt and Status never change.
func applyPatch(b Bill, p Patch) (Bill, error) {
	if p.Name != nil {
		name, err := validName(*p.Name)
		if err != nil {
			return Bill{}, err
		}

		b.Name = name
	}

	if p.Amount.Valid {
		amount, err := wholeAmount(p.Amount.Decimal)
		if err != nil {
			return Bill{}, err
		}

		b.Amount = amount
	}

	if p.PaymentMethod != nil {
		if !p.PaymentMethod.valid() {
			return Bill{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, *p.PaymentMethod)
		}

		b.PaymentMethod = *p.PaymentMethod
	}

	if p.DueDate != nil {
		b.DueDate = *p.DueDate
	}

	if p.PhoneNumber != nil {
		b.PhoneNumber = strings.TrimSpace(*p.PhoneNumber)
	}

	if p.Address != nil {
		b.Address = strings.TrimSpace(*p.Address)
	}

	if p.PackageName != nil {
		b.PackageName = strings.TrimSpace(*p.PackageName)
	}

	if p.Notes != nil {
		b.Notes = *p.Notes
	}

	if p.PhotoRef != nil {
		b.PhotoRef = *p.PhotoRef
	}

	loc, err := mergeLocation(b.Location, p)
	if err != nil {
		return Bill{}, err
	}

	b.Location = loc

	return b, nil
}

func validName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}

	return name, nil
}

func mergeLocation(current *Location, p Patch) (*Location, error) {
	if p.ClearLocation {
		if p.Latitude != nil || p.Longitude != nil {
			return nil, fmt.Errorf("%w: cannot clear and set a location at once", ErrInvalidCoordinates)
		}

		return nil, nil
	}

	if p.Latitude == nil && p.Longitude == nil {
		return current, nil
	}

	lat, lng := p.Latitude, p.Longitude
	if current != nil {
		if lat == nil {
			lat = &current.Latitude
		}

		if lng == nil {
			lng = &current.Longitude
		}
	}

	return pairLocation(lat, lng)
}

func pairLocation(lat, lng *float64) (*Location, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}

	if lat == nil || lng == nil {
		return nil, fmt.Errorf("%w: latitude and longitude must be given together", ErrInvalidCoordinates)
	}

	if math.IsNaN(*lat) || math.IsNaN(*lng) || *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return nil, fmt.Errorf("%w: (%v, %v) is out of range", ErrInvalidCoordinates, *lat, *lng)
	}

	return &Location{Latitude: *lat, Longitude: *lng}, nil
}

func (m PaymentMethod) valid() bool {
	switch m {
	case "", PaymentTransfer, PaymentCash:
		return true
	}

	return false
}
