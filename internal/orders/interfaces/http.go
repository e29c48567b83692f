// Package interfaces exposes the booking surface: agent verification,
// quote estimation and the shift order lifecycle routes.
package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dockday/internal/agency"
	"dockday/internal/audit"
	"dockday/internal/auth"
	ledgerapp "dockday/internal/ledger/application"
	ledger "dockday/internal/ledger/domain"
	ordersapp "dockday/internal/orders/application"
	orders "dockday/internal/orders/domain"
)

// VerifyHandler answers agent whitelist checks.
type VerifyHandler struct {
	whitelist *agency.Whitelist
	directory *agency.Directory
}

// NewVerifyHandler constructs a handler.
func NewVerifyHandler(whitelist *agency.Whitelist, directory *agency.Directory) (*VerifyHandler, error) {
	if whitelist == nil {
		return nil, errors.New("verify handler: nil whitelist")
	}
	if directory == nil {
		return nil, errors.New("verify handler: nil directory")
	}
	return &VerifyHandler{whitelist: whitelist, directory: directory}, nil
}

// ServeHTTP handles POST /api/v1/agents/verify.
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ContactType  string `json:"contactType"`
		ContactValue string `json:"contactValue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	method, ok := agency.NormalizeContactMethod(req.ContactType)
	if !ok {
		http.Error(w, "contactType must be phone or email", http.StatusBadRequest)
		return
	}

	companyID := h.whitelist.Resolve(method, req.ContactValue)
	resp := map[string]any{
		"verified": companyID != "",
	}
	if companyID != "" {
		resp["agentKey"] = agency.AgentKey(method, req.ContactValue)
		resp["agencyCompanyId"] = companyID
		if company := h.directory.Company(companyID); company != nil {
			resp["company"] = company
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// EstimateHandler prices a booking draft without persisting anything.
type EstimateHandler struct {
	service *ordersapp.LifecycleService
}

// NewEstimateHandler constructs a handler.
func NewEstimateHandler(service *ordersapp.LifecycleService) (*EstimateHandler, error) {
	if service == nil {
		return nil, errors.New("estimate handler: nil service")
	}
	return &EstimateHandler{service: service}, nil
}

// ServeHTTP handles POST /api/v1/quotes/estimate.
func (h *EstimateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var data orders.OrderData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	quote := h.service.Quote(orders.Draft{Data: data})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(quote)
}

// OrderHandler handles shift order routes under /api/v1/orders.
type OrderHandler struct {
	service     *ordersapp.LifecycleService
	ledger      *ledgerapp.LedgerService
	auditLogger audit.Logger
}

// NewOrderHandler constructs a handler.
func NewOrderHandler(service *ordersapp.LifecycleService, ledgerService *ledgerapp.LedgerService, auditLogger audit.Logger) (*OrderHandler, error) {
	if service == nil {
		return nil, errors.New("order handler: nil service")
	}
	if ledgerService == nil {
		return nil, errors.New("order handler: nil ledger service")
	}
	return &OrderHandler{service: service, ledger: ledgerService, auditLogger: auditLogger}, nil
}

// ServeHTTP dispatches order routes.
func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/orders" {
		switch r.Method {
		case http.MethodPost:
			h.handleSubmit(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if strings.HasPrefix(path, "/api/v1/orders/") {
		rest := strings.TrimPrefix(path, "/api/v1/orders/")
		h.handleByID(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

type submitRequest struct {
	ContactType      string           `json:"contactType"`
	ContactValue     string           `json:"contactValue"`
	AgencyCompanyID  string           `json:"agencyCompanyId,omitempty"`
	BillingAccountID string           `json:"billingAccountId,omitempty"`
	Data             orders.OrderData `json:"data"`
}

func (h *OrderHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	method, ok := agency.NormalizeContactMethod(req.ContactType)
	if !ok {
		http.Error(w, "contactType must be phone or email", http.StatusBadRequest)
		return
	}
	draft := orders.Draft{
		AgentVerified:     true,
		AgentContactType:  method,
		AgentContactValue: req.ContactValue,
		AgencyCompanyID:   req.AgencyCompanyID,
		BillingAccountID:  req.BillingAccountID,
		Data:              req.Data,
	}
	order, err := h.service.Submit(r.Context(), draft)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(order)
	h.logAudit(r, order, "order.submit", map[string]any{
		"agentKey":  order.AgentKey,
		"estimated": order.EstimatedAmount,
	})
}

func (h *OrderHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		list []orders.ShiftOrder
		err  error
	)
	if contactType := query.Get("contactType"); contactType != "" {
		method, ok := agency.NormalizeContactMethod(contactType)
		if !ok {
			http.Error(w, "contactType must be phone or email", http.StatusBadRequest)
			return
		}
		key := agency.AgentKey(method, query.Get("contactValue"))
		list, err = h.service.ListByAgent(r.Context(), key)
	} else if agentKey := query.Get("agentKey"); agentKey != "" {
		list, err = h.service.ListByAgent(r.Context(), agentKey)
	} else {
		list, err = h.service.ListAll(r.Context())
	}
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func (h *OrderHandler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGet(w, r, id)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "data":
			if r.Method == http.MethodPut {
				h.handleUpdateData(w, r, id)
				return
			}
		case "driver":
			if r.Method == http.MethodPut {
				h.handleSetDriver(w, r, id)
				return
			}
		case "insurance":
			if r.Method == http.MethodPut {
				h.handleSetInsurance(w, r, id)
				return
			}
		case "approve":
			if r.Method == http.MethodPost {
				h.handleApprove(w, r, id)
				return
			}
		case "complete":
			if r.Method == http.MethodPost {
				h.handleComplete(w, r, id)
				return
			}
		case "actual":
			switch r.Method {
			case http.MethodGet:
				h.handleGetActual(w, r, id)
				return
			case http.MethodPut:
				h.handleSaveActual(w, r, id)
				return
			}
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) handleUpdateData(w http.ResponseWriter, r *http.Request, id string) {
	var data orders.OrderData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	order, err := h.service.UpdateData(r.Context(), id, data)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) handleSetDriver(w http.ResponseWriter, r *http.Request, id string) {
	var driver orders.Driver
	if err := json.NewDecoder(r.Body).Decode(&driver); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	order, err := h.service.SetDriver(r.Context(), id, driver)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) handleSetInsurance(w http.ResponseWriter, r *http.Request, id string) {
	var files []orders.Attachment
	if err := json.NewDecoder(r.Body).Decode(&files); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	order, err := h.service.SetInsuranceFiles(r.Context(), id, files)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) handleApprove(w http.ResponseWriter, r *http.Request, id string) {
	approvedBy := auth.SubjectFromContext(r.Context())
	if approvedBy == "" {
		approvedBy = "admin"
	}
	order, err := h.service.Approve(r.Context(), id, approvedBy)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
	h.logAudit(r, order, "order.approve", map[string]any{
		"approvedBy": approvedBy,
	})
}

func (h *OrderHandler) handleComplete(w http.ResponseWriter, r *http.Request, id string) {
	order, err := h.service.Complete(r.Context(), id)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
	h.logAudit(r, order, "order.complete", nil)
}

func (h *OrderHandler) handleGetActual(w http.ResponseWriter, r *http.Request, id string) {
	record, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	if record == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(record)
}

func (h *OrderHandler) handleSaveActual(w http.ResponseWriter, r *http.Request, id string) {
	var input ledgerapp.SaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	record, err := h.ledger.Save(r.Context(), id, input)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(record)
	if h.auditLogger != nil {
		meta, _ := json.Marshal(map[string]any{"total": record.Total})
		_ = h.auditLogger.Log(r.Context(), audit.Entry{
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "order.actual.save",
			ResourceType: "order",
			ResourceID:   id,
			Metadata:     meta,
			IP:           audit.ClientIP(r),
			UserAgent:    r.UserAgent(),
		})
	}
}

func (h *OrderHandler) logAudit(r *http.Request, order *orders.ShiftOrder, action string, meta map[string]any) {
	if h.auditLogger == nil || order == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		AgencyCompanyID: order.AgencyCompanyID,
		Actor:           auth.SubjectFromContext(r.Context()),
		Role:            string(auth.RoleFromContext(r.Context())),
		Action:          action,
		ResourceType:    "order",
		ResourceID:      order.ID,
		Metadata:        payload,
		IP:              audit.ClientIP(r),
		UserAgent:       r.UserAgent(),
	})
}

func respondOrderError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, orders.ErrDriverIncomplete),
		errors.Is(err, orders.ErrOrderCompleted),
		errors.Is(err, orders.ErrStaleUpdate),
		errors.Is(err, orders.ErrInsufficientCredit),
		errors.Is(err, ledger.ErrOrderNotCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
