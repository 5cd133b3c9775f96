package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/services"
	"github.com/username/famfolio/backend/src/utils"
)

type PersonHandler struct {
	assetService services.AssetService
}

func NewPersonHandler(assetService services.AssetService) *PersonHandler {
	return &PersonHandler{assetService: assetService}
}

func (h *PersonHandler) HandleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.assetService.ListPeople()
	if err != nil {
		logger.L.Error("Error listing people", "error", err)
		utils.SendJSONError(w, "Error retrieving people", http.StatusInternalServerError)
		return
	}
	if people == nil {
		people = []models.Person{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(people)
}

func (h *PersonHandler) HandleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	person, err := h.assetService.CreatePerson(payload.Name)
	if err != nil {
		logger.L.Error("Error creating person", "name", payload.Name, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error creating person: %v", err), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(person)
}

func (h *PersonHandler) HandleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.assetService.DeletePerson(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Person %d not found", id), http.StatusNotFound)
			return
		}
		logger.L.Warn("Error deleting person", "personID", id, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error deleting person: %v", err), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
