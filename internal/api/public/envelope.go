package public

import (
	"time"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/sampling"
)

// TimestampLayout renders local wall-clock time as YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

// DataResponse is the body of GET /data. Struct field order is the JSON key
// order: data before timestamp, unsorted before sorted, raw before unique.
type DataResponse struct {
	Data      DataPayload `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// DataPayload nests the generated sequence and its sorted forms.
type DataPayload struct {
	Unsorted []int       `json:"unsorted"`
	Sorted   SortedLists `json:"sorted"`
}

// SortedLists holds the ascending copy with and without duplicates.
type SortedLists struct {
	Raw    []int `json:"raw"`
	Unique []int `json:"unique"`
}

// NewDataResponse builds the envelope for batch, stamped with now in its own
// location.
func NewDataResponse(batch sampling.Batch, now time.Time) DataResponse {
	return DataResponse{
		Data: DataPayload{
			Unsorted: nonNil(batch.Unsorted),
			Sorted: SortedLists{
				Raw:    nonNil(batch.SortedRaw),
				Unique: nonNil(batch.SortedUnique),
			},
		},
		Timestamp: now.Format(TimestampLayout),
	}
}

// nonNil keeps empty sequences encoded as [] rather than null.
func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
