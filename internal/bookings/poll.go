package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/internal/distributors"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/metrics"
	"github.com/reelwire/dcpflow-backend/pkg/qubewire"
)

// Deliveries merges the content's local orders with the wire service's
// delivery records. A failed poll never fails the view: statuses degrade to
// local inference and the result is flagged degraded.
func (s *Service) Deliveries(ctx context.Context, userID uuid.UUID, contentID string) (*DeliveriesResult, error) {
	started := time.Now()
	result, err := s.deliveries(ctx, userID, contentID)
	s.metrics.ObserveDuration(metrics.OpPoll, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(metrics.OpPoll)
		return nil, err
	}
	if result.Degraded {
		s.metrics.IncFailure(metrics.OpPoll)
	} else {
		s.metrics.IncSuccess(metrics.OpPoll)
	}
	return result, nil
}

func (s *Service) deliveries(ctx context.Context, userID uuid.UUID, contentID string) (*DeliveriesResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if contentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content id is required")
	}
	ctx = s.logger.WithContentID(s.logger.WithUserID(ctx, userID.String()), contentID)

	contentOrders, err := s.orders.ListByContent(ctx, userID, contentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders")
	}

	result := &DeliveriesResult{ContentID: contentID}

	var booked []models.Order
	for _, order := range contentOrders {
		if order.Booked() {
			booked = append(booked, order)
		}
	}

	var records []qubewire.DeliveryRecord
	if len(booked) > 0 {
		records = s.pollPartitions(ctx, contentID, booked, result)
	}

	matcher := newRecordMatcher(records)
	for _, order := range contentOrders {
		result.Deliveries = append(result.Deliveries, s.deliveryView(order, matcher))
	}
	sort.SliceStable(result.Deliveries, func(i, j int) bool {
		return result.Deliveries[i].TheatreName < result.Deliveries[j].TheatreName
	})
	return result, nil
}

// pollPartitions fetches delivery records for every distributor that has
// booked orders in this content group. Failures are recorded as warnings and
// flip the degraded flag; whatever was fetched still counts.
func (s *Service) pollPartitions(ctx context.Context, contentID string, booked []models.Order, result *DeliveriesResult) []qubewire.DeliveryRecord {
	partitions, _ := partitionByDistributor(booked)
	if len(partitions) == 0 {
		result.Degraded = true
		result.Warnings = append(result.Warnings, "booked orders carry no studio/company key; statuses are locally inferred")
		return nil
	}

	pairs := make([]distributors.Pair, 0, len(partitions))
	for pair := range partitions {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].StudioID != pairs[j].StudioID {
			return pairs[i].StudioID < pairs[j].StudioID
		}
		return pairs[i].QWCompanyID < pairs[j].QWCompanyID
	})

	resolutions, err := s.credentials.Resolve(ctx, pairs)
	if err != nil {
		result.Degraded = true
		result.Warnings = append(result.Warnings, "distributor lookup failed; statuses are locally inferred")
		return nil
	}

	var records []qubewire.DeliveryRecord
	for _, pair := range pairs {
		resolution := resolutions[pair]
		name := partitionName(pair, partitions[pair])
		if resolution.Err != nil {
			result.Degraded = true
			result.Warnings = append(result.Warnings, name+": "+resolution.Err.Error())
			continue
		}
		fetched, err := s.wire.ListDeliveries(ctx, resolution.Token, contentID)
		if err != nil {
			result.Degraded = true
			result.Warnings = append(result.Warnings, name+": status poll failed")
			s.logger.Warn(s.logger.WithDistributorID(ctx, name), "delivery status poll failed")
			continue
		}
		records = append(records, fetched...)
	}
	return records
}

// deliveryView computes one order's display status. An order without a
// booking reference is always pending. A booked order that matches an
// external record takes the record's mapped status; a booked order with no
// match is assumed shipped upstream.
func (s *Service) deliveryView(order models.Order, matcher *recordMatcher) DeliveryView {
	view := DeliveryView{
		OrderID:      order.ID.String(),
		TheatreID:    order.TheatreID,
		TheatreName:  order.TheatreName,
		TheatreCity:  order.TheatreCity,
		TheatreState: order.TheatreState,
		BookingRef:   order.BookingRef,
		DeliveryType: deliveryTypeHint(order.DeliveryMethod),
	}

	if !order.Booked() {
		view.Status = enums.DisplayStatusPending
		return view
	}

	record, ok := matcher.match(order)
	if !ok {
		view.Status = enums.DisplayStatusShipped
		return view
	}

	view.Matched = true
	view.Status = enums.DisplayFor(record.Status)
	view.Progress = record.Progress
	view.DeliveryDetails = record.DeliveryDetails
	if record.DeliveryType != "" {
		view.DeliveryType = record.DeliveryType
	}
	return view
}

// recordMatcher resolves external records against orders, preferring the
// delivery reference, then the theatre id, then the theatre name. Each record
// is consumed at most once.
type recordMatcher struct {
	records  []qubewire.DeliveryRecord
	consumed []bool
}

func newRecordMatcher(records []qubewire.DeliveryRecord) *recordMatcher {
	return &recordMatcher{records: records, consumed: make([]bool, len(records))}
}

func (m *recordMatcher) match(order models.Order) (qubewire.DeliveryRecord, bool) {
	if order.BookingRef != nil {
		if record, ok := m.take(func(r qubewire.DeliveryRecord) bool { return r.Ref() == *order.BookingRef }); ok {
			return record, true
		}
	}
	theatreID := wireTheatreID(order)
	if record, ok := m.take(func(r qubewire.DeliveryRecord) bool { return r.TheatreID != "" && r.TheatreID == theatreID }); ok {
		return record, true
	}
	return m.take(func(r qubewire.DeliveryRecord) bool {
		return r.TheatreName != "" && r.TheatreName == order.TheatreName
	})
}

func (m *recordMatcher) take(fn func(qubewire.DeliveryRecord) bool) (qubewire.DeliveryRecord, bool) {
	for i, record := range m.records {
		if !m.consumed[i] && fn(record) {
			m.consumed[i] = true
			return record, true
		}
	}
	return qubewire.DeliveryRecord{}, false
}

// DeliveriesForContents polls every content id concurrently, bounded by the
// configured concurrency. All polls settle: one content's failure appears in
// its own result and never cancels the others.
func (s *Service) DeliveriesForContents(ctx context.Context, userID uuid.UUID, contentIDs []string) (map[string]*DeliveriesResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	results := make(map[string]*DeliveriesResult, len(contentIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.pollConcurrency)

	for _, contentID := range contentIDs {
		wg.Add(1)
		go func(contentID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.Deliveries(ctx, userID, contentID)
			if err != nil {
				result = &DeliveriesResult{
					ContentID: contentID,
					Degraded:  true,
					Warnings:  []string{"status poll failed; statuses are locally inferred"},
				}
			}
			mu.Lock()
			results[contentID] = result
			mu.Unlock()
		}(contentID)
	}
	wg.Wait()
	return results, nil
}
