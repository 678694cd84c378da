package handler

import (
	"encoding/json"
	"net/http"

	"fleetbook/internal/bookings/service"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	store service.BookingStore
	log   *logger.Logger
}

func NewBookingHandler(store service.BookingStore, log *logger.Logger) *BookingHandler {
	return &BookingHandler{store: store, log: log}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.store.Add(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

// GetByID also serves the collection count: httprouter cannot register a
// static /bookings/count route next to /bookings/:id, so the reserved id
// "count" is demuxed here.
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "count" {
		h.count(w, r)
		return
	}

	booking, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var input model.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.store.Update(r.Context(), id, &input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, removed)
}

// List serves the whole read surface of the collection. Query parameters
// select the operation: q (keyword search), car_model (exact match),
// start_date / end_date (exact timestamp match), start_time + end_time
// (containment range), page + page_size (pagination). With no parameters
// the full listing is returned.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	switch {
	case httputil.HasQuery(r, "q"):
		bookings, err := h.store.Search(ctx, r.URL.Query().Get("q"))
		h.writeList(w, bookings, err)

	case httputil.HasQuery(r, "car_model"):
		bookings, err := h.store.ByCarModel(ctx, r.URL.Query().Get("car_model"))
		h.writeList(w, bookings, err)

	case httputil.HasQuery(r, "start_time") || httputil.HasQuery(r, "end_time"):
		startTime, err := httputil.Int64Query(r, "start_time", 0)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		endTime, err := httputil.Int64Query(r, "end_time", 0)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		bookings, err := h.store.ByTimeRange(ctx, startTime, endTime)
		h.writeList(w, bookings, err)

	case httputil.HasQuery(r, "start_date"):
		startDate, err := httputil.Int64Query(r, "start_date", 0)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		bookings, err := h.store.ByStartDate(ctx, startDate)
		h.writeList(w, bookings, err)

	case httputil.HasQuery(r, "end_date"):
		endDate, err := httputil.Int64Query(r, "end_date", 0)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		bookings, err := h.store.ByEndDate(ctx, endDate)
		h.writeList(w, bookings, err)

	case httputil.HasQuery(r, "page") || httputil.HasQuery(r, "page_size"):
		h.paginate(w, r)

	default:
		bookings, err := h.store.ListAll(ctx)
		h.writeList(w, bookings, err)
	}
}

func (h *BookingHandler) paginate(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.IntQuery(r, "page", 1)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pageSize, err := httputil.IntQuery(r, "page_size", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pageSize = config.NormalizePageSize(pageSize)

	bookings, err := h.store.Paginate(r.Context(), page, pageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	total, err := h.store.CountAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, page, pageSize)
}

func (h *BookingHandler) count(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCount(w, count)
}

func (h *BookingHandler) writeList(w http.ResponseWriter, bookings []*model.Booking, err error) {
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, bookings)
}
