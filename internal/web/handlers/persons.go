package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"go.uber.org/zap"
)

// PersonsHandler handles enrollment and identity lookups
type PersonsHandler struct {
	service    *attendance.Service
	identities database.IdentityReader
	log        *zap.Logger
}

// NewPersonsHandler creates a new persons handler
func NewPersonsHandler(service *attendance.Service, identities database.IdentityReader, log *zap.Logger) *PersonsHandler {
	return &PersonsHandler{service: service, identities: identities, log: log}
}

// EnrollRequest is the body of POST /persons. Features are landmarks the
// client already extracted, keyed "face_N" / "point_N".
type EnrollRequest struct {
	PersonID string               `json:"person_id"`
	Name     string               `json:"name"`
	Gender   string               `json:"gender"`
	Features facematch.FeatureSet `json:"features"`
}

// PersonResponse represents an enrolled person
type PersonResponse struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Faces    int    `json:"faces,omitempty"`
}

// EnrollResponse is returned after a successful enrollment
type EnrollResponse struct {
	PersonID   string `json:"person_id"`
	WorkflowID string `json:"workflow_id"`
	Faces      int    `json:"faces"`
	Message    string `json:"message"`
}

// Create enrolls a new person
func (h *PersonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	out, err := h.service.Enroll(r.Context(), capture.NewStaticDetector(req.Features), attendance.Enrollment{
		PersonID: req.PersonID,
		Name:     req.Name,
		Gender:   req.Gender,
	})
	if err != nil {
		respondWorkflowError(w, h.log, err)
		return
	}

	if out.Reason == attendance.ReasonDuplicateID {
		respondError(w, http.StatusConflict, out.Message())
		return
	}

	respondJSON(w, http.StatusCreated, EnrollResponse{
		PersonID:   out.PersonID,
		WorkflowID: out.WorkflowID,
		Faces:      out.Faces,
		Message:    out.Message(),
	})
}

// List returns enrolled persons, optionally filtered by ?name=
func (h *PersonsHandler) List(w http.ResponseWriter, r *http.Request) {
	identities, err := h.identities.ListIdentities(r.Context())
	if err != nil {
		respondWorkflowError(w, h.log, err)
		return
	}

	query := r.URL.Query().Get("name")
	result := make([]PersonResponse, 0, len(identities))
	for _, id := range identities {
		if query != "" && !facematch.NameContains(id.Name, query) {
			continue
		}
		result = append(result, PersonResponse{PersonID: id.PersonID, Name: id.Name, Gender: id.Gender})
	}

	respondJSON(w, http.StatusOK, result)
}

// Get returns a single person
func (h *PersonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "id")

	id, err := h.identities.GetIdentity(r.Context(), personID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Person ID not found")
		return
	}
	if err != nil {
		respondWorkflowError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, PersonResponse{
		PersonID: id.PersonID,
		Name:     id.Name,
		Gender:   id.Gender,
		Faces:    len(id.Features),
	})
}
