package bookings

import (
	"sort"
	"strings"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// summarize folds the order set into per-content summaries. The fold is pure
// and order-independent: permuting the input yields identical summaries.
// Statuses here are locally inferred (booked means shipped); live enrichment
// happens in the service when a poll succeeds.
func summarize(orders []models.Order) []ContentSummary {
	groups := make(map[string]*ContentSummary)

	for _, order := range orders {
		summary, ok := groups[order.ContentID]
		if !ok {
			summary = &ContentSummary{
				ContentID:    order.ContentID,
				ContentTitle: order.ContentTitle,
				PackageUUID:  order.PackageUUID,
				StatusCounts: map[enums.DisplayStatus]int{},
			}
			groups[order.ContentID] = summary
		}

		summary.BookingCount++
		if order.Booked() {
			summary.StatusCounts[enums.DisplayStatusShipped]++
		} else {
			summary.PendingBookings++
			summary.StatusCounts[enums.DisplayStatusPending]++
		}
		if order.UpdatedAt.After(summary.LastUpdated) {
			summary.LastUpdated = order.UpdatedAt
		}
	}

	summaries := make([]ContentSummary, 0, len(groups))
	for _, summary := range groups {
		booked := summary.BookingCount - summary.PendingBookings
		if summary.BookingCount > 0 {
			summary.CompletionPercent = booked * 100 / summary.BookingCount
		}
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ContentID < summaries[j].ContentID
	})
	return summaries
}

// deliveryTypeHint classifies the feed's free-text delivery method the way
// the dashboard groups them.
func deliveryTypeHint(deliveryMethod *string) string {
	if deliveryMethod == nil {
		return ""
	}
	method := strings.ToLower(*deliveryMethod)
	switch {
	case strings.Contains(method, "wiretap"):
		return "wiretap"
	case strings.Contains(method, "drive"), strings.Contains(method, "physical"):
		return "drive"
	case strings.Contains(method, "electronic"), strings.Contains(method, "network"):
		return "electronic"
	}
	return ""
}
