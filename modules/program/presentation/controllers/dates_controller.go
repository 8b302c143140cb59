package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/paceline-hq/paceline/modules/program/domain/daterange"
	"github.com/paceline-hq/paceline/modules/program/domain/worknode"
	"github.com/paceline-hq/paceline/modules/program/services"
	"github.com/paceline-hq/paceline/pkg/application"
	"github.com/paceline-hq/paceline/pkg/constants"
	"github.com/paceline-hq/paceline/pkg/middleware"
)

type DatesAPIController struct {
	app        application.Application
	dates      *services.DateAssignmentService
	compliance *services.ComplianceService
	apiPrefix  string
}

func NewDatesAPIController(app application.Application) application.Controller {
	return &DatesAPIController{
		app:        app,
		dates:      app.Service(services.DateAssignmentService{}).(*services.DateAssignmentService),
		compliance: app.Service(services.ComplianceService{}).(*services.ComplianceService),
		apiPrefix:  "/program/api",
	}
}

func (c *DatesAPIController) Key() string {
	return c.apiPrefix
}

func (c *DatesAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.Use(
		middleware.RequireTenant(),
		middleware.ProvideIdentity(),
	)

	api.HandleFunc("/nodes/{id}/dates", c.GetDates).Methods(http.MethodGet)
	api.HandleFunc("/nodes/{id}/dates:propose", c.ProposeDates).Methods(http.MethodPost)

	api.HandleFunc("/organizations", c.ListOrganizations).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{id}/compliance", c.OrganizationCompliance).Methods(http.MethodGet)
	api.HandleFunc("/compliance/summary", c.ComplianceSummary).Methods(http.MethodGet)
}

func (c *DatesAPIController) GetDates(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)

	nodeID, ok := pathUUID(w, r, requestID)
	if !ok {
		return
	}
	orgID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("organization_id")))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_QUERY", "organization_id is required and must be a uuid")
		return
	}

	view, err := c.dates.GetDates(r.Context(), nodeID, orgID)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (c *DatesAPIController) ProposeDates(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)

	nodeID, ok := pathUUID(w, r, requestID)
	if !ok {
		return
	}

	var req proposeDatesRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_BODY", "invalid request body")
		return
	}
	if err := constants.Validate.Struct(req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_BODY", err.Error())
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_BODY", "organization_id must be a uuid")
		return
	}

	window, err := parseWindow(req)
	if err != nil {
		if errors.Is(err, daterange.ErrInvalidRange) {
			writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_RANGE", "start date is after end date")
			return
		}
		writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_BODY", "start/end must be valid dates")
		return
	}

	result, err := c.dates.ProposeDates(r.Context(), services.ProposeDatesInput{
		Level:                worknode.Level(req.Level),
		NodeID:               nodeID,
		OrganizationID:       orgID,
		Window:               window,
		ExpectedLastModified: req.ExpectedLastModified,
	})
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (c *DatesAPIController) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)

	var projectID *uuid.UUID
	if raw := strings.TrimSpace(r.URL.Query().Get("project_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_QUERY", "project_id must be a uuid")
			return
		}
		projectID = &id
	}

	views, err := c.compliance.Organizations(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (c *DatesAPIController) OrganizationCompliance(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)

	orgID, ok := pathUUID(w, r, requestID)
	if !ok {
		return
	}

	view, err := c.compliance.OrganizationCompliance(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (c *DatesAPIController) ComplianceSummary(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)

	summary, err := c.compliance.ProgramSummary(r.Context())
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func pathUUID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "PROGRAM_INVALID_PATH", "id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

func parseWindow(req proposeDatesRequest) (daterange.DateRange, error) {
	parse := func(v *string) (*time.Time, error) {
		if v == nil || strings.TrimSpace(*v) == "" {
			return nil, nil
		}
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(*v))
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	start, err := parse(req.Start)
	if err != nil {
		return daterange.DateRange{}, err
	}
	end, err := parse(req.End)
	if err != nil {
		return daterange.DateRange{}, err
	}
	return daterange.New(start, end, req.IsFlexible)
}
