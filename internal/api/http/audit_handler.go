package http

import (
	"net/http"

	"rentacar-backend/internal/service"
)

const defaultAuditPage = 100

type AuditHandler struct {
	auditSvc service.AuditService
}

func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// List returns the newest audit entries, ?limit= bounded by the service.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultAuditPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := h.auditSvc.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]AuditLogDTO, 0, len(entries))
	for i := range entries {
		out = append(out, MapAuditLogToDTO(&entries[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
