package bill

// Stats summarizes the ledger for the dashboard. It is always derived, never stored.
type Stats struct {
	TotalCustomers  int   `json:"totalCustomers"`
	TotalPending    int   `json:"totalPending"`
	TotalPaid       int   `json:"totalPaid"`
	TotalUnpaid     int64 `json:"totalUnpaid"`
	TotalPaidAmount int64 `json:"totalPaidAmount"`
	TotalRevenue    int64 `json:"totalRevenue"`
}

// ComputeStats aggregates bills in a single pass.
func ComputeStats(bills []*Bill) Stats {
	var s Stats

	for _, b := range bills {
		s.TotalCustomers++

		switch b.Status {
		case StatusPaid:
			s.TotalPaid++
			s.TotalPaidAmount += b.Amount
		default:
			s.TotalPending++
			s.TotalUnpaid += b.Amount
		}
	}

	s.TotalRevenue = s.TotalUnpaid + s.TotalPaidAmount

	return s
}
