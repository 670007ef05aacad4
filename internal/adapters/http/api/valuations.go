package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/fairdeal/internal/domain/types"
	"github.com/okian/fairdeal/pkg/logger"
)

// ValuationsHandler handles single and batch valuation requests.
type ValuationsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewValuationsHandler creates a new valuations handler.
func NewValuationsHandler(deps Dependencies, maxBodyBytes int64, l logger.Logger) *ValuationsHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if l == nil {
		l = logger.Get()
	}
	return &ValuationsHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: l}
}

// BatchRequest is the body of POST /valuations/batch.
type BatchRequest struct {
	Requests []types.ValuationRequest `json:"requests"`
}

// BatchResponse is the result of POST /valuations/batch.
type BatchResponse struct {
	Items []types.BatchItem `json:"items"`
}

// HandlePostValuation handles POST /valuations.
func (h *ValuationsHandler) HandlePostValuation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_valuation"
	if !allow(w, r, op, http.MethodPost) {
		return
	}

	var req types.ValuationRequest
	if err := h.decode(w, r, &req); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	v, err := h.deps.Value(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandlePostBatch handles POST /valuations/batch. Per-item failures are
// reported in the items; only request-level failures change the status.
func (h *ValuationsHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_batch"
	if !allow(w, r, op, http.MethodPost) {
		return
	}

	var req BatchRequest
	if err := h.decode(w, r, &req); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Requests) == 0 {
		writeErr(w, WrapKind(op, ErrBadRequest, errors.New("requests must not be empty")))
		return
	}

	items, err := h.deps.ValueBatch(r.Context(), req.Requests)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchResponse{Items: items})
}

func (h *ValuationsHandler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (h *ValuationsHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	err = Wrap(op, err)
	if status, _ := statusFor(err); status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "valuation request failed", logger.Error(err))
	}
	writeErr(w, err)
}
