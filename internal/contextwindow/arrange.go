package contextwindow

// ArrangeForLostInMiddle reorders a value-ranked (descending) sequence so
// the best items sit at both edges and the worst converge toward the
// center, where long-context models attend least: rank 0 goes first, rank 1
// last, rank 2 second, rank 3 second-to-last, and so on. Even rank i lands
// i/2 from the front, odd rank i lands i/2 from the back.
//
// Inputs of length ≤ 2 have no meaningful middle and are returned as-is
// (same backing array). Otherwise a fresh slice is returned.
func ArrangeForLostInMiddle(items []ContextItem) []ContextItem {
	n := len(items)
	if n <= 2 {
		return items
	}

	arranged := make([]ContextItem, n)
	for i, it := range items {
		if i%2 == 0 {
			arranged[i/2] = it
		} else {
			arranged[n-1-i/2] = it
		}
	}
	return arranged
}
