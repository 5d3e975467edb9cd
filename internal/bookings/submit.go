package bookings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/reelwire/dcpflow-backend/internal/distributors"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/metrics"
	"github.com/reelwire/dcpflow-backend/pkg/qubewire"
)

// Submit books every pending order of a content group, one wire call per
// distributor partition. Partitions fail independently; booking references
// are written back per order, so a mid-batch failure leaves earlier writes
// in place and the report tells the caller to re-poll.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, contentID string) (*SubmitReport, error) {
	started := time.Now()
	report, err := s.submit(ctx, userID, contentID)
	s.metrics.ObserveDuration(metrics.OpSubmit, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(metrics.OpSubmit)
		return nil, err
	}
	if len(report.Failed) > 0 {
		s.metrics.IncFailure(metrics.OpSubmit)
	} else {
		s.metrics.IncSuccess(metrics.OpSubmit)
	}
	return report, nil
}

func (s *Service) submit(ctx context.Context, userID uuid.UUID, contentID string) (*SubmitReport, error) {
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

	var pending []models.Order
	for _, order := range contentOrders {
		if !order.Booked() {
			pending = append(pending, order)
		}
	}

	report := &SubmitReport{ContentID: contentID}
	if len(pending) == 0 {
		report.NoPending = true
		return report, nil
	}

	partitions, skipped := partitionByDistributor(pending)
	report.Skipped = skipped

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
		return nil, err
	}

	cplIDs, err := s.cpl.MergedCplIDs(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}

	var combined error
	for _, pair := range pairs {
		partition := partitions[pair]
		name := partitionName(pair, partition)
		resolution := resolutions[pair]

		if resolution.Err != nil {
			report.Failed = append(report.Failed, DistributorFailure{Name: name, Reason: resolution.Err.Error()})
			combined = multierr.Append(combined, resolution.Err)
			continue
		}

		created, err := s.submitPartition(ctx, resolution.Token, contentID, cplIDs, partition)
		report.Created += created
		if err != nil {
			report.Failed = append(report.Failed, DistributorFailure{Name: name, Reason: err.Error()})
			combined = multierr.Append(combined, err)
		}
	}

	if combined != nil {
		s.logger.Warn(s.logger.WithField(ctx, "failed_partitions", len(report.Failed)), "submission completed with failures")
	}
	s.logger.Info(s.logger.WithField(ctx, "created", report.Created), "booking submission finished")
	return report, nil
}

// submitPartition makes the single wire call for one distributor and writes
// each returned reference back onto its source order. Returns how many
// bookings were recorded locally.
func (s *Service) submitPartition(ctx context.Context, token, contentID string, cplIDs []string, partition []models.Order) (int, error) {
	req := qubewire.CreateBookingsRequest{
		ClientReferenceID: fmt.Sprintf("dcpflow-%s-%s", contentID, uuid.NewString()[:8]),
		DCPDeliveries:     make([]qubewire.DCPDelivery, 0, len(partition)),
	}
	for _, order := range partition {
		var statusEmails []string
		if order.BookerEmail != nil && *order.BookerEmail != "" {
			statusEmails = []string{*order.BookerEmail}
		}
		var notes string
		if order.Note != nil {
			notes = *order.Note
		}
		req.DCPDeliveries = append(req.DCPDeliveries, qubewire.DCPDelivery{
			TheatreID:     wireTheatreID(order),
			CplIDs:        cplIDs,
			DeliverBefore: order.PlaydateEnd,
			DeliveryMode:  "auto",
			StatusEmails:  statusEmails,
			Notes:         notes,
		})
	}

	resp, err := s.wire.CreateBookings(ctx, token, req)
	if err != nil {
		return 0, err
	}
	if len(resp.DCPDeliveries) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "wire service returned no deliveries")
	}

	now := time.Now().UTC()
	consumed := make([]bool, len(partition))
	created := 0
	var writeErr error
	for i, booked := range resp.DCPDeliveries {
		if booked.DCPDeliveryID == "" {
			continue
		}
		idx := matchReturnedDelivery(booked, partition, consumed, i)
		if idx < 0 {
			continue
		}
		consumed[idx] = true
		if err := s.orders.SetBookingRef(ctx, partition[idx].ID, booked.DCPDeliveryID, now); err != nil {
			writeErr = multierr.Append(writeErr, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing booking reference"))
			continue
		}
		created++
	}
	return created, writeErr
}

// matchReturnedDelivery pairs a response delivery with its source order,
// preferring a theatre-id match and falling back to position.
func matchReturnedDelivery(booked qubewire.BookedDelivery, partition []models.Order, consumed []bool, position int) int {
	if booked.TheatreID != "" {
		for i, order := range partition {
			if !consumed[i] && wireTheatreID(order) == booked.TheatreID {
				return i
			}
		}
	}
	if position < len(partition) && !consumed[position] {
		return position
	}
	return -1
}

// partitionByDistributor groups pending orders by (studio_id, qw_company_id).
// Orders missing either half are reported as skipped, never silently dropped.
func partitionByDistributor(pending []models.Order) (map[distributors.Pair][]models.Order, []SkippedOrder) {
	partitions := make(map[distributors.Pair][]models.Order)
	var skipped []SkippedOrder
	for _, order := range pending {
		if order.StudioID == "" || order.QWCompanyID == "" {
			skipped = append(skipped, SkippedOrder{
				OrderID:     order.ID.String(),
				TheatreID:   order.TheatreID,
				TheatreName: order.TheatreName,
			})
			continue
		}
		pair := distributors.Pair{StudioID: order.StudioID, QWCompanyID: order.QWCompanyID}
		partitions[pair] = append(partitions[pair], order)
	}
	return partitions, skipped
}

func partitionName(pair distributors.Pair, partition []models.Order) string {
	for _, order := range partition {
		if order.QWCompanyName != "" {
			return order.QWCompanyName
		}
	}
	return pair.StudioID + "/" + pair.QWCompanyID
}

// wireTheatreID prefers the wire service's own theatre identifier when the
// feed carried one.
func wireTheatreID(order models.Order) string {
	if order.QWTheatreID != nil && *order.QWTheatreID != "" {
		return *order.QWTheatreID
	}
	return order.TheatreID
}
