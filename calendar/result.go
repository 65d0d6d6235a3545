package calendar

import "github.com/cyp0633/calendarium/model"

// BulkResult records, per item, what a bulk operation did. Skipped items were
// left alone because they would have duplicated a stored event.
type BulkResult struct {
	Applied []model.Event
	Skipped []model.Event
}

// Count is the number of items the operation applied.
func (r BulkResult) Count() int {
	return len(r.Applied)
}

func (r *BulkResult) apply(e model.Event) {
	r.Applied = append(r.Applied, e)
}

func (r *BulkResult) skip(e model.Event) {
	r.Skipped = append(r.Skipped, e)
}

// Merge appends other's items to r.
func (r *BulkResult) Merge(other BulkResult) {
	r.Applied = append(r.Applied, other.Applied...)
	r.Skipped = append(r.Skipped, other.Skipped...)
}
