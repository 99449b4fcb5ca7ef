package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/view"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports whether the page can be rendered.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"rejected":       s.rateLimiter.Hits(),
		"status":         "ok",
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate,
			"error_type", log.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.page.RenderCurrentMonthLabel()
	body, err := s.render("index.html", false)
	s.mu.Unlock()
	if err != nil {
		s.slog.LogError(r.Context(), "Index template execution failed", err, log.OpRender,
			log.NewFields().WithComponent(log.ComponentTemplate))
		http.Error(w, "error rendering page", http.StatusInternalServerError)
		return
	}

	NewHTMXResponse().BodyHTML(string(body)).Write(w)
}

// handleAddEntry runs the add flow for a submitted entry form.
func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.slog.LogError(r.Context(), "Parse request body error", err, log.OpAdd, nil)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyInput(r, view.Input{
		Category:    p.Get("type"),
		Description: p.Get("description"),
		RawValue:    p.Get("value"),
	}); err != nil {
		s.validationError(w, r, err)
		return
	}

	e, err := s.ctrl.Add(r.Context())
	if err != nil {
		s.validationError(w, r, err)
		return
	}

	s.writeUpdates(w, r, NewHTMXResponse().
		TriggerEntryCreated(e.ItemID()).
		TriggerFormReset().
		TriggerSuccessNotification("Entry added"))
}

// handleDeleteEntry runs the delete flow for a row id taken from the path
// or from the "item" field of a posted form.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	item := sanitizeInput(r.PathValue("item"))
	if item == "" {
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			s.slog.LogError(r.Context(), "Parse request body error", err, log.OpDelete, nil)
			BadRequestError("Invalid request format").Write(w)
			return
		}
		item = p.Get("item")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.Delete(r.Context(), item); err != nil {
		s.validationError(w, r, err)
		return
	}

	s.writeUpdates(w, r, NewHTMXResponse().TriggerEntryDeleted(item))
}

// handleChangeType records a change of the type selector and returns the
// re-styled input form.
func (s *Server) handleChangeType(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	cat, err := core.ParseCategory(p.Get("type"))
	if err != nil {
		s.validationError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.applyInput(r, view.Input{
		Category:    string(cat),
		Description: p.Get("description"),
		RawValue:    p.Get("value"),
	})

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	body, err := s.render("form", true)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	NewHTMXResponse().
		TriggerTypeChanged(string(cat)).
		BodyHTML(string(body)).
		Write(w)
}

// applyInput copies submitted fields into the page. A different type counts
// as a change of the selector. An empty type keeps the current one; an
// unknown type is rejected before the page is touched.
func (s *Server) applyInput(r *http.Request, in view.Input) error {
	if in.Category != "" {
		cat, err := core.ParseCategory(in.Category)
		if err != nil {
			return err
		}
		in.Category = string(cat)
		if in.Category != s.page.Form.Type {
			s.page.SetInput(view.Input{Category: in.Category})
			s.ctrl.ChangeType(r.Context())
		}
	}
	s.page.SetInput(in)
	return nil
}

// validationError reports rejected input. Ledger and page are unchanged.
func (s *Server) validationError(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Input rejected",
		log.FieldError, err,
		log.FieldPath, r.URL.Path,
		"error_type", log.ErrorTypeValidation)

	msg := view.ErrorMessage(err)
	UnprocessableEntityError(msg).
		TriggerErrorNotification(msg).
		Write(w)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	s.slog.LogError(r.Context(), "Template execution failed", err, log.OpRender,
		log.NewFields().WithComponent(log.ComponentTemplate))
	InternalServerError("Error rendering page").Write(w)
}

// writeUpdates answers a completed flow. htmx requests get every budget
// partial as out-of-band swaps, plain form posts are redirected to the page.
func (s *Server) writeUpdates(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if s.templates == nil {
		s.renderError(w, r, errors.New("templates not loaded"))
		return
	}
	body, err := s.render("updates", true)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	b.BodyHTML(string(body)).Write(w)
}

type entryJSON struct {
	Item        string          `json:"item"`
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Percentage  *int64          `json:"percentage,omitempty"`
}

type budgetJSON struct {
	Budget          decimal.Decimal `json:"budget"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	SpendPercentage *int64          `json:"spend_percentage"`
	Income          []entryJSON     `json:"income"`
	Expenses        []entryJSON     `json:"expenses"`
}

// handleBudgetJSON returns a read-only snapshot of the ledger.
func (s *Server) handleBudgetJSON(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sum := s.state.Summary()
	income := s.state.Entries(core.Income)
	expenses := s.state.Entries(core.Expense)
	s.mu.Unlock()

	out := budgetJSON{
		Budget:          sum.Budget,
		TotalIncome:     sum.TotalIncome,
		TotalExpense:    sum.TotalExpense,
		SpendPercentage: percentPtr(sum.SpendPercentage),
		Income:          toEntryJSON(income, false),
		Expenses:        toEntryJSON(expenses, true),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}

func toEntryJSON(entries []core.Entry, withPercentage bool) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		j := entryJSON{
			Item:        e.ItemID(),
			ID:          e.ID,
			Description: e.Description,
			Value:       e.Value,
		}
		if withPercentage {
			j.Percentage = percentPtr(e.Percentage)
		}
		out = append(out, j)
	}
	return out
}

func percentPtr(p core.Percentage) *int64 {
	v, ok := p.Get()
	if !ok {
		return nil
	}
	return &v
}
