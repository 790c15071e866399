package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

// PriceRequest is the body of POST /api/calculate_price.
type PriceRequest struct {
	UserID       string   `json:"user_id" validate:"required"`
	ProductID    string   `json:"product_id" validate:"required"`
	PurchaseDate string   `json:"purchase_date" validate:"required"`
	BasePrice    *float64 `json:"base_price" validate:"required"`
}

// PriceResponse is the success body of POST /api/calculate_price.
type PriceResponse struct {
	FinalPrice float64 `json:"final_price"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "pricefactor is running"})
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	if s.summary == nil {
		s.respondJSON(w, http.StatusNotFound, errorResponse{Detail: "no model loaded"})
		return
	}
	s.respondJSON(w, http.StatusOK, s.summary.Summary())
}

func (s *Server) handleCalculatePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	t, err := dataset.NormalizeTimestamp(req.PurchaseDate)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	price, err := s.calc.CalculatePrice(r.Context(), req.UserID, req.ProductID, t, *req.BasePrice)
	if err != nil {
		priceQuotes.WithLabelValues("error").Inc()
		s.logger.Error("Price calculation failed", err,
			log.OperationKey, log.OperationCalculatePrice,
			log.UserIDKey, req.UserID,
			log.ItemIDKey, req.ProductID,
			log.ErrorCodeKey, log.ErrorOrchestration,
		)
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	priceQuotes.WithLabelValues("ok").Inc()
	finalPrices.Observe(price)
	s.respondJSON(w, http.StatusOK, PriceResponse{FinalPrice: price})
}

func (s *Server) badRequest(w http.ResponseWriter, detail string) {
	priceQuotes.WithLabelValues("rejected").Inc()
	s.respondJSON(w, http.StatusBadRequest, errorResponse{Detail: detail})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("Failed to marshal JSON response", errors.WithStack(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Failed to write JSON response", err)
	}
}
