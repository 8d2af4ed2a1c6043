package types

// Pages computes the number of pages needed for total items at the given
// page size. Zero items means zero pages.
func Pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
