package bill

import (
	"time"

	"github.com/google/uuid"

	"github.com/zaidnet/tagihan/internal/bill"
)

type billResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Amount        int64              `json:"amount"`
	Status        bill.Status        `json:"status"`
	PaymentMethod bill.PaymentMethod `json:"payment_method,omitempty"`
	DueDate       time.Time          `json:"due_date"`
	PhoneNumber   string             `json:"phone_number,omitempty"`
	Address       string             `json:"address,omitempty"`
	PackageName   string             `json:"package_name,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Location      *locationResponse  `json:"location,omitempty"`
	PhotoRef      string             `json:"photo_ref,omitempty"`
	Selected      bool               `json:"selected"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     *time.Time         `json:"updated_at,omitempty"`
}

type locationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type statsResponse struct {
	TotalCustomers  int   `json:"total_customers"`
	TotalPending    int   `json:"total_pending"`
	TotalPaid       int   `json:"total_paid"`
	TotalUnpaid     int64 `json:"total_unpaid"`
	TotalPaidAmount int64 `json:"total_paid_amount"`
	TotalRevenue    int64 `json:"total_revenue"`
}

func ToResponse(b *bill.Bill, selected bool) billResponse {
	resp := billResponse{
		ID:            b.ID,
		Name:          b.Name,
		Amount:        b.Amount,
		Status:        b.Status,
		PaymentMethod: b.PaymentMethod,
		DueDate:       b.DueDate,
		PhoneNumber:   b.PhoneNumber,
		Address:       b.Address,
		PackageName:   b.PackageName,
		Notes:         b.Notes,
		PhotoRef:      b.PhotoRef,
		Selected:      selected,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	if b.Location != nil {
		resp.Location = &locationResponse{
			Latitude:  b.Location.Latitude,
			Longitude: b.Location.Longitude,
		}
	}

	return resp
}

// ToResponseList marks the bills found in selected.
func ToResponseList(bills []*bill.Bill, selected []uuid.UUID) []billResponse {
	set := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		_, ok := set[b.ID]
		resp[i] = ToResponse(b, ok)
	}

	return resp
}

func toStatsResponse(s bill.Stats) statsResponse {
	return statsResponse{
		TotalCustomers:  s.TotalCustomers,
		TotalPending:    s.TotalPending,
		TotalPaid:       s.TotalPaid,
		TotalUnpaid:     s.TotalUnpaid,
		TotalPaidAmount: s.TotalPaidAmount,
		TotalRevenue:    s.TotalRevenue,
	}
}
