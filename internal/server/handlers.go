package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-cli/internal/exporter"
	"github.com/sells-group/pipeline-cli/internal/importer"
	"github.com/sells-group/pipeline-cli/internal/metrics"
	"github.com/sells-group/pipeline-cli/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// errorStatus maps service errors onto HTTP statuses by message shape. The
// store reports missing rows as "<entity> not found: <id>".
func errorStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "required"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// filterFromQuery builds a FilterState from request query parameters:
// groups, leaders (comma separated), from, to (ISO dates) and q.
func filterFromQuery(r *http.Request) model.FilterState {
	q := r.URL.Query()
	var f model.FilterState
	if v := q.Get("groups"); v != "" {
		f.IndustryGroups = strings.Split(v, ",")
	}
	if v := q.Get("leaders"); v != "" {
		f.LeaderIDs = strings.Split(v, ",")
	}
	f.From = q.Get("from")
	f.To = q.Get("to")
	f.Query = q.Get("q")
	return f
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Deals

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.svc.ListDeals(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deals": deals, "count": len(deals)})
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	var d model.Deal
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	created, err := s.svc.CreateDeal(r.Context(), d)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.GetDeal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	var d model.Deal
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	d.ID = chi.URLParam(r, "id")
	updated, err := s.svc.UpdateDeal(r.Context(), d)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteDeal(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Jobs

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.svc.ListJobs(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var j model.Job
	if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	created, err := s.svc.CreateJob(r.Context(), j)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.svc.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var j model.Job
	if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	j.ID = chi.URLParam(r, "id")
	updated, err := s.svc.UpdateJob(r.Context(), j)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJobsOverview(w http.ResponseWriter, r *http.Request) {
	summary, funnel, err := s.svc.JobsOverview(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Summary metrics.Summary       `json:"summary"`
		Funnel  []metrics.FunnelEntry `json:"funnel"`
	}{summary, funnel})
}

// Accounts

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.svc.ListAccounts(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts, "count": len(accounts)})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a model.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	created, err := s.svc.CreateAccount(r.Context(), a)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var a model.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	a.ID = chi.URLParam(r, "id")
	updated, err := s.svc.UpdateAccount(r.Context(), a)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Client leaders

func (s *Server) handleListLeaders(w http.ResponseWriter, r *http.Request) {
	leaders, err := s.svc.ListLeaders(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaders": leaders, "count": len(leaders)})
}

func (s *Server) handleCreateLeader(w http.ResponseWriter, r *http.Request) {
	var l model.ClientLeader
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	created, err := s.svc.CreateLeader(r.Context(), l)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetLeader(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.GetLeader(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateLeader(w http.ResponseWriter, r *http.Request) {
	var l model.ClientLeader
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	l.ID = chi.URLParam(r, "id")
	updated, err := s.svc.UpdateLeader(r.Context(), l)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLeader(w http.ResponseWriter, r *http.Request) {
	removed, err := s.svc.DeleteLeader(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deals_removed": removed})
}

// Dashboard, export, backup

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Dashboard(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	deals, err := s.svc.ListDeals(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	leaders, err := s.svc.ListLeaders(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="deals.xlsx"`)
		if err := exporter.WriteXLSX(w, deals, leaders); err != nil {
			zap.L().Error("xlsx export failed", zap.Error(err))
		}
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="deals.csv"`)
		if err := exporter.WriteCSV(w, deals, leaders); err != nil {
			zap.L().Error("csv export failed", zap.Error(err))
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be csv or xlsx"})
	}
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Backup(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pipeline-backup.json"`)
	if err := exporter.WriteBackup(w, b.ClientLeaders, b.Deals); err != nil {
		zap.L().Error("backup write failed", zap.Error(err))
	}
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	b, err := exporter.ReadBackup(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.Restore(r.Context(), b); err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"leaders": len(b.ClientLeaders),
		"deals":   len(b.Deals),
	})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	snaps, err := s.svc.Snapshots(r.Context(), limit)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps, "count": len(snaps)})
}

// importOverrides carries manual mapping adjustments submitted with the file.
type importOverrides struct {
	Manual map[string]string `json:"manual"` // target field key -> header
	Batch  map[string]string `json:"batch"`  // target field key -> literal value
}

// handleImport runs the whole import wizard in one request: parse, validate,
// auto-map, apply overrides, confirm and insert. Rate limited since a single
// request can carry a 50MB file.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !s.importLimiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "import rate limit exceeded"})
		return
	}

	if err := r.ParseMultipartForm(importer.MaxFileSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field is required"})
		return
	}
	defer file.Close()

	sess, err := importer.NewSession(header.Filename, header.Size, file, s.schema)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	preview := sess.Preview(10)

	report, err := sess.Validate()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"report": report,
		})
		return
	}

	mapping, err := sess.AutoMap()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if raw := r.FormValue("overrides"); raw != "" {
		var ov importOverrides
		if err := json.Unmarshal([]byte(raw), &ov); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid overrides JSON"})
			return
		}
		for target, h := range ov.Manual {
			mapping.SetManual(target, h)
		}
		for target, v := range ov.Batch {
			mapping.SetBatchValue(target, v)
		}
	}

	if err := sess.Confirm(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    err.Error(),
			"mappings": mapping.Fields(),
		})
		return
	}

	existing, err := s.svc.ListDeals(r.Context(), model.FilterState{})
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	deals, applyRep, err := sess.Apply(existing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := s.svc.ImportDeals(r.Context(), deals); err != nil {
		writeError(w, errorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"headers":  sess.Headers(),
		"preview":  preview,
		"report":   report,
		"mappings": mapping.Fields(),
		"result":   applyRep,
	})
}
