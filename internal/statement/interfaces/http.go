package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dockday/internal/audit"
	"dockday/internal/auth"
	"dockday/internal/observability/metrics"
	statementapp "dockday/internal/statement/application"
	statement "dockday/internal/statement/domain"
)

// StatementHandler handles monthly statement APIs.
type StatementHandler struct {
	service     *statementapp.StatementService
	auditLogger audit.Logger
}

// NewStatementHandler constructs a handler.
func NewStatementHandler(service *statementapp.StatementService, auditLogger audit.Logger) (*StatementHandler, error) {
	if service == nil {
		return nil, errors.New("statement handler: nil service")
	}
	return &StatementHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles statement routes under /api/v1/statements.
func (h *StatementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/statements/generate" && r.Method == http.MethodPost {
		h.handleGenerate(w, r)
		return
	}
	if path == "/api/v1/statements/preview" && r.Method == http.MethodGet {
		h.handlePreview(w, r)
		return
	}
	if path == "/api/v1/statements" && r.Method == http.MethodGet {
		h.handleList(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/statements/") {
		rest := strings.TrimPrefix(path, "/api/v1/statements/")
		h.handleByKey(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *StatementHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgencyCompanyID string `json:"agencyCompanyId"`
		Period          string `json:"period"`
		Regenerate      bool   `json:"regenerate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	stmt, err := h.service.Generate(r.Context(), req.AgencyCompanyID, req.Period, req.Regenerate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := map[string]any{
		"statementId": stmt.ID,
		"status":      stmt.Status,
		"totals":      stmt.Totals,
		"orderIds":    stmt.OrderIDs,
		"version":     stmt.Version,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	action := "statement.generate"
	if req.Regenerate {
		action = "statement.regenerate"
	}
	h.logAudit(r, req.AgencyCompanyID, stmt.ID, action, map[string]any{
		"period":     req.Period,
		"regenerate": req.Regenerate,
	})
}

func (h *StatementHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	agencyID := r.URL.Query().Get("agencyCompanyId")
	period := r.URL.Query().Get("period")
	preview, err := h.service.PreviewPeriod(r.Context(), agencyID, period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(preview)
}

func (h *StatementHandler) handleList(w http.ResponseWriter, r *http.Request) {
	agencyID := r.URL.Query().Get("agencyCompanyId")
	list, err := h.service.List(r.Context(), agencyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func (h *StatementHandler) handleByKey(w http.ResponseWriter, r *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	agencyID, period := parts[0], parts[1]
	if len(parts) == 2 && r.Method == http.MethodGet {
		h.handleGet(w, r, agencyID, period)
		return
	}
	if len(parts) == 3 {
		switch parts[2] {
		case "advance":
			if r.Method == http.MethodPost {
				h.handleAdvance(w, r, agencyID, period)
				return
			}
		case "export.pdf":
			if r.Method == http.MethodGet {
				h.handleExport(w, r, agencyID, period, "pdf")
				return
			}
		case "export.xlsx":
			if r.Method == http.MethodGet {
				h.handleExport(w, r, agencyID, period, "xlsx")
				return
			}
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *StatementHandler) handleGet(w http.ResponseWriter, r *http.Request, agencyID, period string) {
	stmt, gate, err := h.service.Get(r.Context(), agencyID, period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := struct {
		Statement *statement.MonthlyStatement `json:"statement"`
		Gate      statementapp.GateReport     `json:"gate"`
	}{Statement: stmt, Gate: gate}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *StatementHandler) handleAdvance(w http.ResponseWriter, r *http.Request, agencyID, period string) {
	var req struct {
		To string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	next, ok := statement.NormalizeStatus(req.To)
	if !ok {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	stmt, err := h.service.Advance(r.Context(), agencyID, period, next)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := map[string]any{
		"statementId": stmt.ID,
		"status":      stmt.Status,
		"version":     stmt.Version,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, agencyID, stmt.ID, "statement.advance", map[string]any{
		"period": period,
		"to":     string(next),
	})
}

func (h *StatementHandler) handleExport(w http.ResponseWriter, r *http.Request, agencyID, period, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveStatementExport(format, result, time.Since(start))
	}()

	stmt, _, err := h.service.Get(r.Context(), agencyID, period)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	rows, err := h.exportRows(r, stmt)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}

	var data []byte
	var contentType string
	switch format {
	case "pdf":
		data, err = BuildStatementPDF(stmt, rows)
		contentType = "application/pdf"
	default:
		data, err = BuildStatementXLSX(stmt, rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, agencyID, stmt.ID, "statement.export", map[string]any{
		"period": period,
		"format": format,
	})
}

func (h *StatementHandler) exportRows(r *http.Request, stmt *statement.MonthlyStatement) ([]ExportRow, error) {
	scope, err := h.service.Scope(r.Context(), stmt)
	if err != nil {
		return nil, err
	}
	rows := make([]ExportRow, 0, len(scope))
	for _, order := range scope {
		row := ExportRow{
			OrderID:   order.ID,
			CreatedAt: order.CreatedAt,
			Estimated: order.EstimatedAmount,
		}
		actual, err := h.service.ActualFor(r.Context(), order.ID)
		if err != nil {
			return nil, err
		}
		if actual != nil {
			row.HasActual = true
			row.Actual = actual.Total
			row.ReceiptsComplete = actual.ReceiptsComplete()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (h *StatementHandler) logAudit(r *http.Request, agencyID, statementID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		AgencyCompanyID: agencyID,
		Actor:           auth.SubjectFromContext(r.Context()),
		Role:            string(auth.RoleFromContext(r.Context())),
		Action:          action,
		ResourceType:    "statement",
		ResourceID:      statementID,
		Metadata:        payload,
		IP:              audit.ClientIP(r),
		UserAgent:       r.UserAgent(),
	})
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, statement.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, statement.ErrNotReconciled),
		errors.Is(err, statement.ErrInvalidTransition),
		errors.Is(err, statement.ErrNotDraft),
		errors.Is(err, statement.ErrStaleUpdate):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
