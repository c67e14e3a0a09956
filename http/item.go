package http

import (
	"net/http"

	"github.com/fwojciec/pdfrules"
	"github.com/gorilla/mux"
)

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := s.extractions.FindItemByID(r.Context(), id)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := s.extractions.FindExtractionByID(r.Context(), id); err != nil {
		s.writeAppError(w, err)
		return
	}
	items, err := s.extractions.FindItems(r.Context(), pdfrules.ItemFilter{ExtractionID: &id})
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	if items == nil {
		items = []*pdfrules.ExtractionItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeError(w, status, pdfrules.ErrorMessage(err))
}
