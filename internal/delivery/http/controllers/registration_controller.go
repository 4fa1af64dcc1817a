package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
	"campusevents/internal/monitoring"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterSuccessResponse is the success response envelope for POST /events/{eventID}/register.
type RegisterSuccessResponse struct {
	Data  *domain.RegistrationOutcome `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// Register godoc
// @Summary Register a single attendee for an event
// @Description Admits the attendee: confirmed while seats remain, waitlisted when the event is full (if the waitlist is enabled) or the attendee already holds the maximum number of confirmed registrations, rejected otherwise. Submitting the same email twice yields outcome "already". Non-POST requests are rejected with 400.
// @Tags registrations
// @Accept x-www-form-urlencoded
// @Produce json
// @Param eventID path int true "Event ID"
// @Param name formData string true "Attendee name"
// @Param email formData string true "Attendee email"
// @Success 200 {object} controllers.RegisterSuccessResponse "No row created (already / soldout)"
// @Success 201 {object} controllers.RegisterSuccessResponse "Registration created (confirmed / waitlist)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}

	out, err := c.Service.Register(r.Context(), eventID, r.FormValue("name"), r.FormValue("email"))
	if err != nil {
		c.writeError(w, r, err, "event not found")
		return
	}

	monitoring.ObserveAdmission(string(out.Outcome))
	if out.RegistrationID != 0 {
		helpers.WriteJSONSuccess(w, http.StatusCreated, out)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// RegisterTeamSuccessResponse is the success response envelope for POST /events/{eventID}/register-team.
type RegisterTeamSuccessResponse struct {
	Data  *domain.TeamOutcome `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// RegisterTeam godoc
// @Summary Register a team for a team event
// @Description Admits the whole team at once: every member is confirmed, or every member is waitlisted (one disqualified member waitlists the team). Members is a newline-delimited list of "Name <email>" or "Name, email" lines. Non-POST requests are rejected with 400.
// @Tags registrations
// @Accept x-www-form-urlencoded
// @Produce json
// @Param eventID path int true "Event ID"
// @Param team_name formData string false "Team name"
// @Param members formData string true "Member lines, one per member"
// @Success 200 {object} controllers.RegisterTeamSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register-team [post]
func (c *RegistrationController) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}

	out, err := c.Service.RegisterTeam(r.Context(), eventID, r.FormValue("team_name"), r.FormValue("members"))
	if err != nil {
		c.writeError(w, r, err, "event not found")
		return
	}

	for _, row := range out.Rows {
		monitoring.ObserveAdmission(string(row.Status))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// CancelSuccessResponse is the success response envelope for POST /registrations/{regID}/cancel.
type CancelSuccessResponse struct {
	Data  *domain.CancellationOutcome `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Deletes the registration. When it held a confirmed seat, the registrant's oldest eligible waitlisted registration (across all events) is promoted to confirmed. Non-POST requests are rejected with 400.
// @Tags registrations
// @Produce json
// @Param regID path int true "Registration ID"
// @Success 200 {object} controllers.CancelSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{regID}/cancel [post]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	regID, ok := pathID(w, r, "regID")
	if !ok {
		return
	}

	out, err := c.Service.Cancel(r.Context(), regID)
	if err != nil {
		c.writeError(w, r, err, "registration not found")
		return
	}

	monitoring.ObserveCancellation(out.Promoted != nil)
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

func (c *RegistrationController) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// requirePost enforces the POST-only contract of the mutation endpoints.
// Wrong methods are a bad request, not a 405.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "POST only")
		return false
	}
	return true
}

// pathID parses a positive numeric id from the named path segment.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
